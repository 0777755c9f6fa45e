// Package httpapi exposes the portfolio search, chat and mention endpoints
// over HTTP for the public site.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Server timeouts. Chat streams can run for a while.
const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Ports holds the driving ports the API depends on.
type Ports struct {
	Search    driving.SearchService
	Chat      driving.ChatService
	Portfolio driving.PortfolioService
}

// Server is the HTTP API server.
type Server struct {
	ports    *Ports
	settings domain.HTTPSettings
	limiter  *clientLimiter
	router   *mux.Router
}

// NewServer creates the API server and registers its routes.
func NewServer(ports *Ports, settings domain.HTTPSettings) (*Server, error) {
	if ports == nil || ports.Search == nil || ports.Chat == nil || ports.Portfolio == nil {
		return nil, errors.New("httpapi: search, chat and portfolio services are required")
	}

	s := &Server{
		ports:    ports,
		settings: settings,
		limiter:  newClientLimiter(settings.RatePerMinute),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Handle("/search", s.limiter.middleware(http.HandlerFunc(s.handleSearch))).Methods(http.MethodPost)
	api.Handle("/chat", s.limiter.middleware(http.HandlerFunc(s.handleChat))).Methods(http.MethodPost)
	api.HandleFunc("/mentions", s.handleMentions).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.handleProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{slug}", s.handleProject).Methods(http.MethodGet)
	api.HandleFunc("/experiences", s.handleExperiences).Methods(http.MethodGet)
	api.HandleFunc("/experiences/{slug}", s.handleExperience).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, fmt.Errorf("route: %w", domain.ErrNotFound))
	})
}

// Handler returns the router wrapped in the middleware chain:
// panic recovery, proxy headers, request IDs, CORS and, in verbose mode,
// access logs.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router

	origins := s.settings.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(h)
	h = requestID(h)
	if logger.IsVerbose() {
		h = handlers.CombinedLoggingHandler(os.Stderr, h)
	}
	h = handlers.ProxyHeaders(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}), handlers.PrintRecoveryStack(logger.IsVerbose()))(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.settings.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.settings.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down HTTP API")
	return srv.Shutdown(shutdownCtx)
}

// recoveryLogger routes recovered panics to the application logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(args ...any) {
	logger.Error("panic: %s", fmt.Sprint(args...))
}
