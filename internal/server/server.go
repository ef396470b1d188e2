// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "wiring" layer — the composition root where the dependency
// graph is assembled in one place:
//
//	Config → store (mongo | sqlite | unavailable)
//	       → services (auth, blog, contact)
//	       → handlers → chi routes
//
// Keeping it out of main.go makes the whole server constructible from tests.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/saas-starter/internal/auth"
	"github.com/sakif/saas-starter/internal/handler"
	"github.com/sakif/saas-starter/internal/middleware"
	"github.com/sakif/saas-starter/internal/repository"
	mongoRepo "github.com/sakif/saas-starter/internal/repository/mongo"
	sqliteRepo "github.com/sakif/saas-starter/internal/repository/sqlite"
	"github.com/sakif/saas-starter/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port int

	// DatabaseURL selects the MongoDB backend when set; DatabaseName names
	// the database within the cluster. When DatabaseURL is empty the server
	// falls back to the embedded sqlite store at DBPath.
	DatabaseURL  string
	DatabaseName string
	DBPath       string
}

// Server owns the router and the store; the store is closed on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.Store
}

// New creates a Server with its full dependency chain wired.
//
// STORE SELECTION:
// DATABASE_URL set → MongoDB (the production document store). Otherwise the
// embedded sqlite file — zero-infrastructure local development. If the chosen
// backend cannot be opened the server still comes up on a degraded store that
// answers 503 for data operations; a broken database should take down the
// data endpoints, not the diagnostics that explain what is broken.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store := openStore(cfg, logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	s.setupRoutes()
	return s, nil
}

func openStore(cfg Config, logger *slog.Logger) repository.Store {
	if cfg.DatabaseURL != "" {
		name := cfg.DatabaseName
		if name == "" {
			name = "saas_starter"
		}
		store, err := mongoRepo.New(context.Background(), cfg.DatabaseURL, name)
		if err != nil {
			logger.Warn("MongoDB unreachable — data endpoints will return 503",
				slog.String("error", err.Error()),
			)
			return repository.Unavailable(err)
		}
		logger.Info("connected to MongoDB", slog.String("database", name))
		return store
	}

	if cfg.DBPath == "" {
		err := fmt.Errorf("no DATABASE_URL and no DB_PATH configured")
		logger.Warn("no store configured — data endpoints will return 503")
		return repository.Unavailable(err)
	}

	store, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		logger.Warn("sqlite store unavailable — data endpoints will return 503",
			slog.String("path", cfg.DBPath),
			slog.String("error", err.Error()),
		)
		return repository.Unavailable(err)
	}
	logger.Info("using embedded sqlite store", slog.String("path", cfg.DBPath))
	return store
}

// setupRoutes configures middleware and mounts every route.
//
// ROUTE STRUCTURE:
//
//	GET  /                    → liveness banner
//	GET  /api/status          → store diagnostics
//	POST /api/auth/register   → create account, issue first token
//	POST /api/auth/login      → verify credentials, issue fresh token
//	GET  /api/blogs           → recent posts (?limit=N, default 6)
//	GET  /api/blogs/{slug}    → single post
//	POST /api/contact         → store a contact-form submission
//
// MIDDLEWARE ORDER MATTERS — RequestID first so every later log line can
// carry it, Recoverer before anything that might panic, CORS before routing
// so preflight OPTIONS requests are answered.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The frontend is served from a different origin (static hosting), so
	// the API answers cross-origin requests from anywhere. Credentials stay
	// enabled for cookie-carrying clients.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// === Services ===
	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.store.Users(), passwords, s.logger)
	blogService := service.NewBlogService(s.store.Blogs(), s.logger)
	contactService := service.NewContactService(s.store.Contacts(), s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, s.logger)
	blogHandler := handler.NewBlogHandler(blogService, s.logger)
	contactHandler := handler.NewContactHandler(contactService, s.logger)
	statusHandler := handler.NewStatusHandler(
		s.store,
		s.config.DatabaseURL != "",
		s.config.DatabaseName != "",
		s.logger,
	)

	// === Routes ===
	s.router.Get("/", statusHandler.HandleRoot)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.HandleStatus)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.Get("/blogs", blogHandler.HandleList)
		r.Get("/blogs/{slug}", blogHandler.HandleGetBySlug)

		r.Post("/contact", contactHandler.HandleSubmit)
	})
}

// Router exposes the configured router, for httptest-based integration tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// budget), close the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
