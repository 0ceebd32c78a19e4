// Package httperr maps service errors onto HTTP responses so every handler
// reports the same failure the same way.
package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rgoyals/bahikhata/internal/auth"
	"github.com/rgoyals/bahikhata/internal/expense"
	"github.com/rgoyals/bahikhata/internal/extract"
	"github.com/rgoyals/bahikhata/internal/invoice"
	"github.com/rgoyals/bahikhata/internal/upstream"
	"github.com/rgoyals/bahikhata/internal/user"
	"github.com/rgoyals/bahikhata/internal/validation"
)

type errorResponse struct {
	Error        string `json:"error"`
	Field        string `json:"field,omitempty"`
	Collaborator string `json:"collaborator,omitempty"`
}

// Write translates err into a status code and JSON body. Unrecognized errors
// become opaque 500s so internals never leak to the channel.
func Write(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "internal error"}
	status := http.StatusInternalServerError

	var verr *validation.Error
	var uerr *upstream.UnavailableError

	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		resp.Error = verr.Error()
		resp.Field = verr.Field
	case errors.As(err, &uerr):
		status = http.StatusServiceUnavailable
		resp.Error = uerr.Error()
		resp.Collaborator = uerr.Collaborator
	case errors.Is(err, extract.ErrExtractionFailed):
		status = http.StatusBadGateway
		resp.Error = err.Error()
	case errors.Is(err, expense.ErrNotFound), errors.Is(err, invoice.ErrNotFound), errors.Is(err, user.ErrNotFound):
		status = http.StatusNotFound
		resp.Error = err.Error()
	case errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
		resp.Error = err.Error()
	case errors.Is(err, user.ErrEmailTaken):
		status = http.StatusConflict
		resp.Error = err.Error()
	default:
		slog.Error("request failed", "error", err)
	}

	WriteJSON(w, status, resp)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
