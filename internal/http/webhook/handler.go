// Package webhook receives inbound messages and hands them to the
// orchestrator.
package webhook

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rgoyals/bahikhata/internal/auth"
	"github.com/rgoyals/bahikhata/internal/encoding"
	"github.com/rgoyals/bahikhata/internal/http/httperr"
	"github.com/rgoyals/bahikhata/internal/orchestrator"
)

const (
	maxTextBody  = 64 << 10
	maxMediaBody = 16 << 20
)

type Handler struct {
	svc *orchestrator.Service
}

func NewHandler(svc *orchestrator.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/text", h.text)
	r.Post("/audio", h.audio)
	r.Post("/image", h.image)
}

// text accepts the raw message body in any common byte encoding and
// normalizes it to UTF-8 before orchestration.
func (h *Handler) text(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, auth.ErrUnauthorized)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTextBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	text, err := encoding.DecodeText(raw)
	if err != nil {
		http.Error(w, "undecodable message body", http.StatusBadRequest)
		return
	}

	outcome, err := h.svc.Handle(r.Context(), orchestrator.Input{
		Origin:  "text",
		Text:    text,
		ReplyTo: replyTo(r, u.Email),
		OwnerID: u.ID,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) audio(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, auth.ErrUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMediaBody); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxMediaBody))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	outcome, err := h.svc.Handle(r.Context(), orchestrator.Input{
		Origin:    "audio",
		Audio:     audio,
		AudioName: header.Filename,
		ReplyTo:   replyTo(r, u.Email),
		OwnerID:   u.ID,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, auth.ErrUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMediaBody); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxMediaBody))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	outcome, err := h.svc.Handle(r.Context(), orchestrator.Input{
		Origin:  "image",
		Image:   image,
		ReplyTo: replyTo(r, u.Email),
		OwnerID: u.ID,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, outcome)
}

// replyTo prefers an explicit reply address from the channel and falls back
// to the account email, which the stub channel logs.
func replyTo(r *http.Request, fallback string) string {
	if to := r.URL.Query().Get("reply_to"); to != "" {
		return to
	}

	return fallback
}
