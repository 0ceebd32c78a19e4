// Package upstream holds the HTTP clients for the external collaborators the
// assistant depends on: speech-to-text, OCR, text generation and context
// retrieval. Each collaborator has a fixed request/response contract and is
// never reimplemented here.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Collaborator names as they appear in errors and the health report.
const (
	CollaboratorASR      = "asr_service"
	CollaboratorOCR      = "ocr_service"
	CollaboratorGenerate = "hf_server"
	CollaboratorRetrieve = "rag_service"
)

// Status values reported by Ping.
const (
	StatusOK          = "ok"
	StatusError       = "error"
	StatusUnavailable = "unavailable"
)

// UnavailableError reports a collaborator that could not be reached or
// answered with a server error.
type UnavailableError struct {
	Collaborator string
	Err          error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func unavailable(collaborator string, err error) *UnavailableError {
	return &UnavailableError{Collaborator: collaborator, Err: err}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &http.Client{Timeout: timeout}
}

// ping reports reachability of a collaborator base URL: ok for a 2xx answer,
// error for any other status, unavailable when no connection can be made.
func ping(ctx context.Context, client *http.Client, url string) string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusUnavailable
	}

	resp, err := client.Do(req)
	if err != nil {
		return StatusUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return StatusOK
	}

	return StatusError
}
