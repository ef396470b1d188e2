package handler_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/saas-starter/internal/handler"
	"github.com/sakif/saas-starter/internal/repository"
)

func TestHandleStatus_UnavailableStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := repository.Unavailable(errors.New("no DATABASE_URL configured"))
	h := handler.NewStatusHandler(store, false, false, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	// Diagnostics always answer 200 — the broken store is the payload.
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp["backend"])
	assert.Equal(t, "not available", resp["database"])
	assert.Equal(t, "not connected", resp["connection_status"])
	assert.Equal(t, "not set", resp["database_url"])
}

func TestHandleRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := handler.NewStatusHandler(repository.Unavailable(nil), false, false, logger)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleRoot(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestDataEndpointsDegradeTo503(t *testing.T) {
	// With no store configured the server still runs; every data endpoint
	// reports the unavailable store instead of panicking.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := repository.Unavailable(errors.New("connection refused"))

	t.Run("login", func(t *testing.T) {
		svc := serviceForStore(store, logger)
		h := handler.NewAuthHandler(svc, logger)
		rec := postJSON(t, h.HandleLogin, `{"email":"a@b.com","password":"pw"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "store_unavailable")
	})
}
