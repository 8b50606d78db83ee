// Package server implements the ifcqto HTTP API.
//
// Clients upload a model document, read its takeoff, and send the takeoff
// on to the message bus:
//
//	GET    /                        banner
//	GET    /health                  store and publisher status
//	POST   /models                  upload a model document
//	GET    /models                  list uploaded models
//	DELETE /models/{id}             forget a model
//	GET    /models/{id}/elements    element records
//	GET    /models/{id}/qto         the QTO message that send-qto would publish
//	POST   /models/{id}/send-qto    save the project and publish the message
//	POST   /layers                  parse a free-text layer description
//
// Uploaded models live in memory only. Errors are JSON objects with a code
// and a message; the status follows the code (see errors.HTTPStatus).
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/publish"
	"github.com/matzehuels/ifcqto/pkg/store"
)

const (
	// DefaultMaxUploadBytes limits uploaded model documents.
	DefaultMaxUploadBytes = 256 << 20

	shutdownTimeout = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

// Config wires the server's collaborators. Nil collaborators fall back to
// a cacheless runner, store.Null and publish.Null.
type Config struct {
	Runner    *pipeline.Runner
	Store     store.Store
	Publisher publish.Publisher

	// Takeoff carries the default classes, workers and timeout of every
	// takeoff the server runs.
	Takeoff pipeline.Options

	CORSOrigins    []string
	MaxUploadBytes int64
	Logger         *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	publisher publish.Publisher
	takeoff   pipeline.Options
	cors      []string
	maxUpload int64
	logger    *log.Logger

	models *registry
	now    func() time.Time
}

// New creates a server.
func New(cfg Config) *Server {
	s := &Server{
		runner:    cfg.Runner,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		takeoff:   cfg.Takeoff,
		cors:      cfg.CORSOrigins,
		maxUpload: cfg.MaxUploadBytes,
		logger:    cfg.Logger,
		models:    newRegistry(),
		now:       time.Now,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.Null{}
	}
	if s.publisher == nil {
		s.publisher = publish.Null{}
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if len(s.cors) == 0 {
		s.cors = []string{"*"}
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cors))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/layers", s.handleLayers)

	r.Route("/models", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/", s.handleListModels)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteModel)
			r.Get("/elements", s.handleElements)
			r.Get("/qto", s.handleQTO)
			r.Post("/send-qto", s.handleSendQTO)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
