// Package server wires handlers, middleware, and routes into an HTTP
// server. This is the composition root: every dependency is constructed
// and connected here, so main.go stays minimal and the graph is visible in
// one place.
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
	"github.com/redis/go-redis/v9"

	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/config"
	"github.com/nafisa/campgrounds/internal/handler"
	"github.com/nafisa/campgrounds/internal/middleware"
	"github.com/nafisa/campgrounds/internal/repository/mongodb"
	"github.com/nafisa/campgrounds/internal/service"
)

// Server owns the router and the connections that must be closed on
// shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	store  *mongodb.Store
	rdb    *redis.Client
}

// New connects to MongoDB and Redis, assembles the dependency graph, and
// registers all routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		store:  store,
		rdb:    rdb,
	}

	if err := s.setupRoutes(); err != nil {
		_ = store.Close(ctx)
		_ = rdb.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route tree.
//
// Route map:
//
//	POST   /api/signup                                  local registration
//	POST   /api/login                                   local login
//	POST   /api/facebook/login                          facebook-token login
//	GET    /api/logout                                  end browser session
//	GET    /api/me                           (auth)     current user
//	GET    /api/campsites                               list
//	GET    /api/campsites/{id}                          get with comments
//	POST   /api/campsites                    (auth)     create (admin)
//	PUT    /api/campsites/{id}               (auth)     update (admin)
//	DELETE /api/campsites/{id}               (auth)     delete (admin)
//	POST   /api/campsites/{id}/comments      (auth)     add comment
//	PUT    /api/campsites/{id}/comments/{commentID} (auth) edit (owner)
//	DELETE /api/campsites/{id}/comments/{commentID} (auth) delete (owner/admin)
//	GET    /api/favorites                    (auth)     list favorites
//	POST   /api/favorites/{id}               (auth)     add favorite
//	DELETE /api/favorites/{id}               (auth)     remove favorite
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService()
	facebook := auth.NewFacebookProvider(s.cfg.FacebookClientID, s.cfg.FacebookClientSecret)
	sessions := auth.NewSessionStore(s.rdb)

	authService := service.NewAuthService(s.store.Users(), tokens, passwords, facebook, s.logger)
	campsiteService := service.NewCampsiteService(s.store, s.store.Users(), s.logger)

	authHandler := handler.NewAuthHandler(authService, sessions, s.logger)
	campsiteHandler := handler.NewCampsiteHandler(campsiteService, s.logger)
	commentHandler := handler.NewCommentHandler(campsiteService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(campsiteService, s.logger)

	requireAuth := auth.RequireAuth(tokens, s.store.Users())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/facebook/login", authHandler.HandleFacebookLogin)
		r.Get("/logout", authHandler.HandleLogout)

		r.Get("/campsites", campsiteHandler.HandleList)
		r.Get("/campsites/{id}", campsiteHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)

			r.Post("/campsites", campsiteHandler.HandleCreate)
			r.Put("/campsites/{id}", campsiteHandler.HandleUpdate)
			r.Delete("/campsites/{id}", campsiteHandler.HandleDelete)

			r.Post("/campsites/{id}/comments", commentHandler.HandleCreate)
			r.Put("/campsites/{id}/comments/{commentID}", commentHandler.HandleUpdate)
			r.Delete("/campsites/{id}/comments/{commentID}", commentHandler.HandleDelete)

			r.Get("/favorites", favoriteHandler.HandleList)
			r.Post("/favorites/{id}", favoriteHandler.HandleAdd)
			r.Delete("/favorites/{id}", favoriteHandler.HandleRemove)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close Mongo and Redis.
func (s *Server) Start() error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error("closing document store", slog.String("error", err.Error()))
		}
		if err := s.rdb.Close(); err != nil {
			s.logger.Error("closing redis", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.MongoDB),
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
