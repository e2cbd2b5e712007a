// Package server exposes the schedule store and the layout pipeline over
// HTTP.
//
// # Architecture
//
// The server is a thin chi router over two collaborators:
//
//   - a store.Store holding named schedules (CRUD under /api/schedules)
//   - a pipeline.Runner composing and rendering views (/api/layout and
//     /schedules/{id}/view.svg)
//
// Handlers decode, delegate, and encode; every error is translated to a
// JSON envelope carrying its code, with the HTTP status derived from it.
//
// # Usage
//
//	srv := server.New(st, runner, logger)
//	http.ListenAndServe(":8080", srv.Router())
package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Bravo-Actual/timegrid/pkg/buildinfo"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
	"github.com/Bravo-Actual/timegrid/pkg/store"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil logger falls back to the default logger.
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:  st,
		runner: runner,
		logger: logger,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/schedules", s.handleListSchedules)
		r.Route("/schedules/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSchedule)
			r.Put("/", s.handlePutSchedule)
			r.Delete("/", s.handleDeleteSchedule)
		})
		r.Post("/layout", s.handleLayout)
	})

	r.Get("/schedules/{id}/view.svg", s.handleScheduleSVG)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}
