package handler

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports 200 when the database answers a ping within two seconds.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			writeEnvelope(w, http.StatusServiceUnavailable, errorEnvelope("UNAVAILABLE", "database unreachable"))
			return
		}
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"}, nil)
}
