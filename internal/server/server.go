// Package server wires the application together: storage backend, store,
// auth mode, handlers, middleware, and routes.
//
// COMPOSITION ROOT:
// All dependency decisions happen here, in one place. Handlers receive the
// store; the store receives an adapter; nothing reaches around the layer
// above it. main.go stays minimal — load config, build logger, Start().
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "modernc.org/sqlite"

	"github.com/techhorizon/blog/internal/auth"
	"github.com/techhorizon/blog/internal/config"
	"github.com/techhorizon/blog/internal/handler"
	"github.com/techhorizon/blog/internal/markdown"
	"github.com/techhorizon/blog/internal/middleware"
	"github.com/techhorizon/blog/internal/storage"
	"github.com/techhorizon/blog/internal/store"
)

// Server owns the router and every long-lived resource behind it.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger

	store    *store.Store
	watcher  *store.Watcher   // nil unless watch_interval is set
	sessions *auth.RemoteAuth // nil unless auth.mode is remote
	db       *sql.DB          // nil unless storage.backend is sqlite
}

// New assembles a server from the configuration.
//
// STORAGE CAPABILITY DECISION:
// The backend is probed once, here. If the configured backend cannot be
// opened (unwritable directory, bad database file), the server logs the
// failure and runs on the in-memory adapter instead of refusing to start —
// content then lives only until the process exits, which the log line
// makes explicit. After startup no storage failure can surface to callers;
// that is the adapter contract.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
	}

	adapter := s.openAdapter()
	s.store = store.New(adapter, logger)

	if cfg.Storage.WatchInterval > 0 {
		s.watcher = store.NewWatcher(adapter, s.store, logger, cfg.Storage.WatchInterval)
	}

	if err := s.setupRoutes(adapter); err != nil {
		s.closeDB()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) openAdapter() storage.Adapter {
	switch s.cfg.Storage.Backend {
	case "memory":
		s.logger.Info("using in-memory storage")
		return storage.NewMemory()

	case "sqlite":
		db, err := sql.Open("sqlite", s.cfg.Storage.Path)
		if err == nil {
			var adapter storage.Adapter
			adapter, err = storage.NewSQL(db, s.logger)
			if err == nil {
				s.db = db
				s.logger.Info("using sqlite storage", slog.String("path", s.cfg.Storage.Path))
				return adapter
			}
			_ = db.Close()
		}
		s.logger.Warn("sqlite storage unavailable, content will not survive restarts",
			slog.String("path", s.cfg.Storage.Path),
			slog.String("error", err.Error()))
		return storage.NewMemory()

	default: // "file", enforced by config validation
		adapter, err := storage.NewFile(s.cfg.Storage.Dir, s.logger)
		if err != nil {
			s.logger.Warn("file storage unavailable, content will not survive restarts",
				slog.String("dir", s.cfg.Storage.Dir),
				slog.String("error", err.Error()))
			return storage.NewMemory()
		}
		s.logger.Info("using file storage", slog.String("dir", s.cfg.Storage.Dir))
		return adapter
	}
}

// setupRoutes configures middleware and mounts the route tree.
//
// ROUTE STRUCTURE:
//
//	GET    /api/articles               → list (?category=, ?featured=true)
//	GET    /api/articles/{slug}        → detail with rendered HTML
//	POST   /api/auth/login             → sign in
//	POST   /api/auth/logout            → sign out
//	GET    /api/auth/me                → current session
//	POST   /api/auth/signup            → register       (remote mode)
//	GET    /api/auth/oauth/{provider}  → OAuth redirect (remote mode)
//	GET    /api/admin/articles         → admin list     (mock mode)
//	POST   /api/admin/articles         → create         (mock mode)
//	PUT    /api/admin/articles/{id}    → update         (mock mode)
//	DELETE /api/admin/articles/{id}    → delete         (mock mode)
//	POST   /api/admin/sync             → force snapshot (mock mode)
func (s *Server) setupRoutes(adapter storage.Adapter) error {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	articles := handler.NewArticleHandler(s.store, markdown.NewRenderer(s.logger), s.logger)
	s.router.Route("/api/articles", func(r chi.Router) {
		r.Get("/", articles.HandleList)
		r.Get("/{slug}", articles.HandleGetBySlug)
	})

	switch s.cfg.Auth.Mode {
	case "remote":
		return s.setupRemoteAuth()
	default:
		return s.setupMockAuth(adapter)
	}
}

// setupMockAuth wires the self-contained auth mode: credentials live in the
// seeded store, sessions are local JWT cookies, and the admin endpoints are
// available to the seeded admin account.
func (s *Server) setupMockAuth(adapter storage.Adapter) error {
	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	mock, err := auth.NewMock("admin@techhorizon.com", "admin123", adapter,
		auth.NewPasswordService(), s.logger)
	if err != nil {
		return fmt.Errorf("creating mock auth: %w", err)
	}

	sessions := handler.NewAuthHandler(s.store, tokens, mock, s.logger)
	s.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", sessions.HandleLogin)
		r.Post("/logout", sessions.HandleLogout)
		r.With(auth.OptionalAuth(tokens)).Get("/me", sessions.HandleMe)
	})

	admin := handler.NewAdminHandler(s.store, s.logger)
	s.router.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(tokens, s.store))
		r.Get("/articles", admin.HandleList)
		r.Post("/articles", admin.HandleCreate)
		r.Put("/articles/{id}", admin.HandleUpdate)
		r.Delete("/articles/{id}", admin.HandleDelete)
		r.Post("/sync", admin.HandleSync)
	})

	return nil
}

// setupRemoteAuth wires the hosted-provider auth mode. Article management
// stays with the provider's own dashboard in this mode, so the local admin
// endpoints are not mounted.
func (s *Server) setupRemoteAuth() error {
	client := auth.NewRemoteClient(s.cfg.Auth.Remote.URL, s.cfg.Auth.Remote.APIKey,
		&http.Client{Timeout: 10 * time.Second}, s.logger)
	s.sessions = auth.NewRemoteAuth(client, s.logger)

	providers := map[auth.Provider]*auth.OAuthProvider{}
	for name, oc := range s.cfg.Auth.OAuth {
		p, err := auth.NewOAuthProvider(auth.Provider(name), oc.ClientID, oc.ClientSecret, oc.RedirectURL)
		if err != nil {
			return fmt.Errorf("configuring oauth provider %q: %w", name, err)
		}
		providers[auth.Provider(name)] = p
	}

	remote := handler.NewRemoteAuthHandler(client, s.sessions, providers, s.logger)
	s.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", remote.HandleLogin)
		r.Post("/signup", remote.HandleSignup)
		r.Post("/logout", remote.HandleLogout)
		r.Get("/me", remote.HandleMe)
		r.Get("/oauth/{provider}", remote.HandleOAuthRedirect)
	})

	return nil
}

// Handler exposes the assembled route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) closeDB() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the configured timeout, stop the background workers, close the database.
func (s *Server) Start() error {
	defer s.closeDB()

	// Background workers stop when this context is cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.watcher != nil {
		go s.watcher.Run(ctx)
	}
	if s.sessions != nil {
		go s.sessions.Run(ctx)
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
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
			slog.String("addr", s.cfg.Server.Addr),
			slog.String("auth_mode", s.cfg.Auth.Mode),
			slog.String("storage", s.cfg.Storage.Backend),
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		// One last snapshot write so nothing in memory is newer than disk.
		s.store.Sync()
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
