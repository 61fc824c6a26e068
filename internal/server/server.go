// Package server exposes tree tables over HTTP.
//
// Each uploaded document becomes a table with its own node map, indicator
// store and gesture controller. Clients drive drags the way a browser would:
// start a drag on a row, report the hovered row and edge, then drop. The
// server answers with the computed indicator and applies committed moves to
// the stored document.
//
// Routes:
//
//	GET    /healthz                   liveness and build version
//	POST   /tables                    upload a JSON or YAML document
//	GET    /tables/{id}               node map, expanded ids and indicator
//	GET    /tables/{id}/document      the document in its layout
//	DELETE /tables/{id}               forget a table
//	PUT    /tables/{id}/expanded      replace the expanded ids
//	POST   /tables/{id}/compute       decide a drop without a gesture
//	POST   /tables/{id}/drag          start a drag
//	DELETE /tables/{id}/drag          cancel the drag
//	POST   /tables/{id}/hover         pointer over a row edge
//	DELETE /tables/{id}/hover         pointer left the rows
//	POST   /tables/{id}/drop          drop on a row edge
//	GET    /tables/{id}/indicator     current indicator
//	GET    /tables/{id}/indicator/events  indicator changes (server-sent events)
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/treetable/pkg/buildinfo"
	pkgio "github.com/matzehuels/treetable/pkg/io"
)

// maxBodyBytes bounds uploaded documents and request bodies.
const maxBodyBytes = 10 << 20

// Server holds the tables and serves the HTTP API.
type Server struct {
	logger *log.Logger
	opts   pkgio.Options

	mu     sync.RWMutex
	tables map[uuid.UUID]*table
}

// New returns a server with no tables. opts supplies the field keys used to
// read uploaded documents.
func New(logger *log.Logger, opts pkgio.Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger: logger,
		opts:   opts,
		tables: make(map[uuid.UUID]*table),
	}
}

// AddDocument registers a decoded document as a new table and returns its id.
// expandAll expands every row with children.
func (s *Server) AddDocument(doc *pkgio.Document, expandAll bool) uuid.UUID {
	t := newTable(uuid.New(), doc, expandAll, s.logger)
	s.mu.Lock()
	s.tables[t.id] = t
	s.mu.Unlock()
	return t.id
}

func (s *Server) lookup(id uuid.UUID) (*table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	return t, ok
}

func (s *Server) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if ok {
		t.ctrl.Cancel()
		delete(s.tables, id)
	}
	return ok
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", "treetable/"+buildinfo.Short()))

	r.Get("/healthz", s.health)
	r.Route("/tables", func(r chi.Router) {
		r.Post("/", s.createTable)
		r.Route("/{tableID}", func(r chi.Router) {
			r.Get("/", s.withTable(s.getTable))
			r.Delete("/", s.deleteTable)
			r.Get("/document", s.withTable(s.getDocument))
			r.Put("/expanded", s.withTable(s.putExpanded))
			r.Post("/compute", s.withTable(s.compute))
			r.Post("/drag", s.withTable(s.beginDrag))
			r.Delete("/drag", s.withTable(s.cancelDrag))
			r.Post("/hover", s.withTable(s.hover))
			r.Delete("/hover", s.withTable(s.leave))
			r.Post("/drop", s.withTable(s.drop))
			r.Get("/indicator", s.withTable(s.getIndicator))
			r.Get("/indicator/events", s.withTable(s.streamIndicator))
		})
	})

	return r
}

// requestLogger logs one line per request with the charmbracelet logger.
func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
