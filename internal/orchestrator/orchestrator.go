// Package orchestrator routes inbound messages through transcription,
// classification, extraction and persistence, and delivers the reply.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rgoyals/bahikhata/internal/expense"
	"github.com/rgoyals/bahikhata/internal/extract"
	"github.com/rgoyals/bahikhata/internal/intent"
	"github.com/rgoyals/bahikhata/internal/invoice"
	"github.com/rgoyals/bahikhata/internal/validation"
)

// ApologyReply is sent when a message cannot be understood.
const ApologyReply = "Sorry, I didn't understand. Can you repeat in short?"

const answerTokens = 250

// Collaborator interfaces. Each is the minimal slice of its service the
// orchestrator calls, so tests can swap any of them independently.

//go:generate mockgen -source=orchestrator.go -destination=orchestrator_mock.go -package=orchestrator
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type Recognizer interface {
	Read(ctx context.Context, image []byte) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (intent.Intent, error)
}

type Extractor interface {
	Extract(ctx context.Context, it intent.Intent, sourceText string) (*extract.Result, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}

type Augmenter interface {
	Prompt(ctx context.Context, question string) string
}

type ExpenseCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, params expense.CreateParams) (*expense.Expense, error)
}

type InvoiceCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, params invoice.CreateParams) (*invoice.Invoice, error)
}

type Sender interface {
	Send(ctx context.Context, recipient, text string) (status string, err error)
}

// Input is one inbound message after channel-level decoding. Exactly one of
// Text, Audio or Image carries the payload.
type Input struct {
	Origin    string
	Text      string
	Audio     []byte
	AudioName string
	Image     []byte
	ReplyTo   string
	OwnerID   uuid.UUID
}

// Outcome reports what one message turned into.
type Outcome struct {
	Intent         intent.Intent `json:"intent"`
	Reply          string        `json:"reply"`
	DeliveryStatus string        `json:"delivery_status"`
	ExpenseID      *uuid.UUID    `json:"expense_id,omitempty"`
	InvoiceID      *uuid.UUID    `json:"invoice_id,omitempty"`
}

type Service struct {
	transcriber Transcriber
	recognizer  Recognizer
	classifier  Classifier
	extractor   Extractor
	generator   Generator
	augmenter   Augmenter
	expenses    ExpenseCreator
	invoices    InvoiceCreator
	sender      Sender
	logger      *slog.Logger
}

type Params struct {
	Transcriber Transcriber
	Recognizer  Recognizer
	Classifier  Classifier
	Extractor   Extractor
	Generator   Generator
	Augmenter   Augmenter
	Expenses    ExpenseCreator
	Invoices    InvoiceCreator
	Sender      Sender
	Logger      *slog.Logger
}

func NewService(p Params) *Service {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		transcriber: p.Transcriber,
		recognizer:  p.Recognizer,
		classifier:  p.Classifier,
		extractor:   p.Extractor,
		generator:   p.Generator,
		augmenter:   p.Augmenter,
		expenses:    p.Expenses,
		invoices:    p.Invoices,
		sender:      p.Sender,
		logger:      logger,
	}
}

// Handle runs one message through the pipeline: normalize to text, classify,
// act on the intent, then deliver the reply. A failure at any step before
// delivery aborts the request; nothing is persisted and no reply is sent.
func (s *Service) Handle(ctx context.Context, in Input) (*Outcome, error) {
	text, err := s.normalize(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("message normalized", "origin", in.Origin, "owner_id", in.OwnerID)

	if strings.TrimSpace(text) == "" {
		return s.deliver(ctx, in, &Outcome{Intent: intent.Fallback, Reply: ApologyReply})
	}

	it, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	s.logger.Info("message classified", "origin", in.Origin, "intent", it)

	outcome, err := s.act(ctx, in.OwnerID, it, text)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, in, outcome)
}

// normalize turns the input into text. Audio goes through transcription,
// images through character recognition; plain text passes through.
func (s *Service) normalize(ctx context.Context, in Input) (string, error) {
	switch {
	case len(in.Audio) > 0:
		return s.transcriber.Transcribe(ctx, in.Audio, in.AudioName)
	case len(in.Image) > 0:
		return s.recognizer.Read(ctx, in.Image)
	default:
		return in.Text, nil
	}
}

func (s *Service) act(ctx context.Context, ownerID uuid.UUID, it intent.Intent, text string) (*Outcome, error) {
	switch it {
	case intent.ExpenseRecord:
		return s.recordExpense(ctx, ownerID, text)
	case intent.InvoiceCreate:
		return s.createInvoice(ctx, ownerID, text)
	case intent.GSTQuery:
		return s.answerQuery(ctx, text)
	default:
		return &Outcome{Intent: intent.Fallback, Reply: ApologyReply}, nil
	}
}

func (s *Service) recordExpense(ctx context.Context, ownerID uuid.UUID, text string) (*Outcome, error) {
	res, err := s.extractor.Extract(ctx, intent.ExpenseRecord, text)
	if err != nil {
		return nil, err
	}

	if err := extract.Validate(res); err != nil {
		return nil, err
	}

	// The schema guarantees the fields are present; a field that still cannot
	// be read is malformed, and a malformed field must never persist as a
	// zero value.
	date, ok := res.Date()
	if !ok {
		return nil, validation.Errorf("date", "unrecognized date format")
	}

	item, ok := res.StringField("item")
	if !ok {
		return nil, validation.Errorf("item", "must be text")
	}

	amount, ok := res.Amount()
	if !ok {
		return nil, validation.Errorf("amount", "must be numeric")
	}

	e, err := s.expenses.Create(ctx, ownerID, expense.CreateParams{
		Date:   date,
		Item:   item,
		Amount: amount,
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Intent:    intent.ExpenseRecord,
		Reply:     fmt.Sprintf("Expense recorded: %s for %s", e.Item, formatAmount(e.Amount)),
		ExpenseID: &e.ID,
	}, nil
}

func (s *Service) createInvoice(ctx context.Context, ownerID uuid.UUID, text string) (*Outcome, error) {
	res, err := s.extractor.Extract(ctx, intent.InvoiceCreate, text)
	if err != nil {
		return nil, err
	}

	if err := extract.Validate(res); err != nil {
		return nil, err
	}

	date, ok := res.Date()
	if !ok {
		return nil, validation.Errorf("date", "unrecognized date format")
	}

	customer, ok := res.StringField("customer_name")
	if !ok {
		return nil, validation.Errorf("customer_name", "must be text")
	}

	amount, ok := res.Amount()
	if !ok {
		return nil, validation.Errorf("amount", "must be numeric")
	}

	inv, err := s.invoices.Create(ctx, ownerID, invoice.CreateParams{
		Date:         date,
		CustomerName: customer,
		Amount:       amount,
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Intent:    intent.InvoiceCreate,
		Reply:     fmt.Sprintf("Invoice created for %s for %s", inv.CustomerName, formatAmount(inv.Amount)),
		InvoiceID: &inv.ID,
	}, nil
}

func (s *Service) answerQuery(ctx context.Context, question string) (*Outcome, error) {
	prompt := s.augmenter.Prompt(ctx, question)

	answer, err := s.generator.Generate(ctx, prompt, answerTokens)
	if err != nil {
		return nil, err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = ApologyReply
	}

	return &Outcome{Intent: intent.GSTQuery, Reply: answer}, nil
}

func (s *Service) deliver(ctx context.Context, in Input, outcome *Outcome) (*Outcome, error) {
	status, err := s.sender.Send(ctx, in.ReplyTo, outcome.Reply)
	if err != nil {
		return nil, fmt.Errorf("delivering reply: %w", err)
	}

	outcome.DeliveryStatus = status

	s.logger.Info("reply delivered",
		"origin", in.Origin, "intent", outcome.Intent, "status", status)

	return outcome, nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
