// Package server wires the application together: it owns the composition
// root (DB → repositories → services → handlers), the route table, and the
// server lifecycle.
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

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/config"
	"github.com/sakif/snippet-share/internal/handler"
	"github.com/sakif/snippet-share/internal/middleware"
	sqliteRepo "github.com/sakif/snippet-share/internal/repository/sqlite"
	"github.com/sakif/snippet-share/internal/service"
)

// Server owns the router, the database connection, and the config it was
// built from. The DB is closed during graceful shutdown so the WAL is
// flushed and the file lock released.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain. Each layer receives only what it
// needs: services get repository interfaces, handlers get services; nothing
// below the composition root imports the sqlite package.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Middleware order: RequestID and RealIP first so the logger sees them,
// Recoverer before our logger so a panic still produces a log line with a
// 500 status.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.cfg.GitHub.ClientID != "" {
		github = auth.NewGitHubProvider(
			s.cfg.GitHub.ClientID,
			s.cfg.GitHub.ClientSecret,
			s.cfg.GitHub.CallbackURL,
		)
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)
	collectionService := service.NewCollectionService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	collectionHandler := handler.NewCollectionHandler(collectionService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	// Browser OAuth flow; registered only when credentials are configured.
	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	handler.RegisterAPIRoutes(s.router, authHandler, snippetHandler, collectionHandler, requireAuth)

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds to finish,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
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
			slog.Int("port", s.cfg.Server.Port),
			slog.String("database", s.cfg.Database.Path),
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
