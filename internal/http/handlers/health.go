package handlers

import (
	"net/http"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/gorilla/mux"

	"github.com/hongminglow/lendsqr-admin/internal/http/respond"
)

// HealthHandler returns uptime, build version and basic status.
type HealthHandler struct {
	startedAt time.Time
	version   goversion.Info
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, version goversion.Info) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, version: version}
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.handle).Methods(http.MethodGet)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
		"version": h.version.GitVersion,
		"commit":  h.version.GitCommit,
	})
}
