package delivery

import (
	"context"
	"log/slog"
)

// StatusSentStub marks a reply that was logged instead of sent to a real
// channel.
const StatusSentStub = "sent_stub"

// Stub logs outbound replies instead of sending them. It is the delivery
// path when no channel credentials are configured and the fallback when the
// real channel rejects a send. It never fails.
type Stub struct {
	logger *slog.Logger
}

func NewStub(logger *slog.Logger) *Stub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Stub{logger: logger}
}

func (s *Stub) Send(_ context.Context, recipient, text string) (string, error) {
	s.logger.Info("reply delivered to stub channel",
		"recipient", recipient,
		"reply", text,
		"status", StatusSentStub,
	)

	return StatusSentStub, nil
}

// FallbackSender tries a primary channel and falls back to the stub on any
// send failure, so a broken channel never loses the reply entirely.
type FallbackSender struct {
	primary Sender
	stub    *Stub
}

func NewFallbackSender(primary Sender, stub *Stub) *FallbackSender {
	return &FallbackSender{primary: primary, stub: stub}
}

func (f *FallbackSender) Send(ctx context.Context, recipient, text string) (string, error) {
	if f.primary != nil {
		status, err := f.primary.Send(ctx, recipient, text)
		if err == nil {
			return status, nil
		}

		slog.Warn("primary delivery channel failed, falling back to stub",
			"recipient", recipient, "error", err)
	}

	return f.stub.Send(ctx, recipient, text)
}
