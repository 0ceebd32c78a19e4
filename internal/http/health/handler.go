package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rgoyals/bahikhata/internal/http/httperr"
	"github.com/rgoyals/bahikhata/internal/upstream"
)

// Pinger reports a collaborator's reachability as ok, error or unavailable.
type Pinger interface {
	Ping(ctx context.Context) string
}

type Handler struct {
	db            *sql.DB
	collaborators map[string]Pinger
}

func NewHandler(db *sql.DB, collaborators map[string]Pinger) *Handler {
	return &Handler{db: db, collaborators: collaborators}
}

type healthResponse struct {
	Status        string            `json:"status"`
	Database      string            `json:"database"`
	Collaborators map[string]string `json:"collaborators"`
}

// ServeHTTP reports per-dependency status. The overall status is ok only when
// the database and every collaborator answer ok; a degraded system still
// answers 200 so orchestration can keep serving the paths that work.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:        upstream.StatusOK,
		Database:      upstream.StatusOK,
		Collaborators: make(map[string]string, len(h.collaborators)),
	}

	if err := h.db.PingContext(ctx); err != nil {
		resp.Database = upstream.StatusUnavailable
		resp.Status = upstream.StatusError
	}

	for name, pinger := range h.collaborators {
		status := pinger.Ping(ctx)
		resp.Collaborators[name] = status

		if status != upstream.StatusOK {
			resp.Status = upstream.StatusError
		}
	}

	httperr.WriteJSON(w, http.StatusOK, resp)
}
