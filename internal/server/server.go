// package server contains the HTTP surface of the catalog mirror: routing,
// middleware, and handlers for the catalog, user, and auth endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/catalog"
	"github.com/hazelvane/melodex/internal/repositories"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the catalog service.
// Implementations handle a group of related endpoints (catalog, users, auth).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Server assembles the router, handlers, and the underlying http.Server.
type Server struct {
	router *BasicRouter
	http   *http.Server
	logger *log.Logger
}

// New wires the full HTTP surface: catalog endpoints over the resolver,
// user endpoints over the repository, /me passthroughs and the auth flow
// over the Spotify client.
func New(cfg shared.ServerConfig, resolver *catalog.Resolver, spotify *services.SpotifyClient, users *repositories.UserRepository, oauth *shared.SpotifyConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = logger.With("component", "server")

	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger), CORS())

	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	router.Handler(NewCatalogHandler(resolver, logger))
	router.Handler(NewUserHandler(users, logger))
	router.Handler(NewMeHandler(spotify, logger))
	if oauth != nil {
		router.Handler(NewAuthHandler(*oauth, spotify, logger))
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the server until ListenAndServe returns.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
