package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hongminglow/lendsqr-admin/internal/auth"
	"github.com/hongminglow/lendsqr-admin/internal/config"
	"github.com/hongminglow/lendsqr-admin/internal/http/handlers"
	"github.com/hongminglow/lendsqr-admin/internal/middleware"
	"github.com/hongminglow/lendsqr-admin/internal/source"
	"github.com/hongminglow/lendsqr-admin/internal/storage"
	"github.com/hongminglow/lendsqr-admin/internal/web"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.HandoffStore, logger *slog.Logger, version goversion.Info) (*Server, error) {
	views, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	dashboard := source.NewCache(source.NewClient(cfg.DashboardSourceURL, cfg.SourceTimeout), cfg.SourceCacheTTL)
	plain := source.NewCache(source.NewClient(cfg.UsersSourceURL, cfg.SourceTimeout, source.WithoutStatusCheck()), cfg.SourceCacheTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	router := mux.NewRouter()
	handlers.NewHealthHandler(time.Now(), version).Register(router)
	authHandler := handlers.NewAuthHandler(auth.NewDemoAuthenticator(cfg.LoginDelay), tokens, views, logger)
	authHandler.Register(router)
	handlers.NewUsersHandler(dashboard, plain, store, views, logger).Register(router)
	router.NotFoundHandler = http.HandlerFunc(authHandler.NotFound)

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(logger,
			middleware.Session(tokens, logger, router)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Covers the login delay plus an uncached upstream fetch.
		WriteTimeout: cfg.LoginDelay + cfg.SourceTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}, nil
}

// Handler exposes the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
