// Package main is the entry point for the SaaS starter backend.
//
// The main package stays minimal — its only jobs are:
//  1. Read configuration from the environment
//  2. Create the logger
//  3. Hand both to the server package and start it
//
// All actual logic lives in internal/. This separation keeps every component
// constructible (and testable) without going through main.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sakif/saas-starter/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	}))

	// PORT defaults to 8000 — the same port the hosting platform probes.
	port := 8000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// Store selection:
	//   DATABASE_URL + DATABASE_NAME → MongoDB (production)
	//   otherwise DB_PATH (default data/saas.db) → embedded sqlite
	// A missing or unreachable store does NOT abort startup — the server
	// degrades to 503s on data endpoints and reports the state on /api/status.
	databaseURL := os.Getenv("DATABASE_URL")
	databaseName := os.Getenv("DATABASE_NAME")

	dbPath := "data/saas.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if databaseURL == "" {
		// mkdir -p for the sqlite file's directory; harmless if it exists.
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(dbPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:         port,
		DatabaseURL:  databaseURL,
		DatabaseName: databaseName,
		DBPath:       dbPath,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevelFromEnv maps LOG_LEVEL to a slog level, defaulting to info.
func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
