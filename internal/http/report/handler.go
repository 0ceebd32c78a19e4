package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rgoyals/bahikhata/internal/auth"
	"github.com/rgoyals/bahikhata/internal/http/httperr"
	"github.com/rgoyals/bahikhata/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, auth.ErrUnauthorized)
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if s := r.URL.Query().Get("month"); s != "" {
		t, err := time.Parse("2006-01", s)
		if err != nil {
			http.Error(w, "month must be formatted YYYY-MM", http.StatusBadRequest)
			return
		}

		year, month = t.Year(), t.Month()
	}

	summary, err := h.svc.Monthly(r.Context(), u.ID, year, month)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, summary)
}
