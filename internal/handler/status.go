package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/saas-starter/internal/repository"
)

// StatusHandler serves the root banner and the deployment diagnostics page.
type StatusHandler struct {
	store repository.Store
	// env flags reported verbatim so a misdeployed instance is easy to
	// diagnose without shelling into it
	databaseURLSet  bool
	databaseNameSet bool
	logger          *slog.Logger
}

func NewStatusHandler(store repository.Store, databaseURLSet, databaseNameSet bool, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		store:           store,
		databaseURLSet:  databaseURLSet,
		databaseNameSet: databaseNameSet,
		logger:          logger,
	}
}

// HandleRoot answers a plain liveness banner.
//
// HTTP: GET /
func (h *StatusHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "SaaS Starter Backend is running",
	})
}

// statusResponse describes the backend and its store in one glance.
type statusResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	ConnectionStatus string   `json:"connection_status"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	Collections      []string `json:"collections"`
}

// HandleStatus reports whether the store is reachable and which collections
// exist. Never errors — a broken database is exactly what this endpoint is
// for, so it reports the breakage instead of 500ing.
//
// HTTP: GET /api/status
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Backend:          "running",
		Database:         "not available",
		ConnectionStatus: "not connected",
		DatabaseURL:      envFlag(h.databaseURLSet),
		DatabaseName:     envFlag(h.databaseNameSet),
		Collections:      []string{},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("status check: store unreachable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Database = "available"
	resp.ConnectionStatus = "connected"

	names, err := h.store.Collections(ctx)
	if err != nil {
		resp.Database = "connected but errored"
		h.logger.Warn("status check: listing collections failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, resp)
		return
	}
	// Cap the list — diagnostics, not an inventory.
	if len(names) > 10 {
		names = names[:10]
	}
	resp.Collections = names
	resp.Database = "connected and working"

	writeJSON(w, http.StatusOK, resp)
}

func envFlag(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}
