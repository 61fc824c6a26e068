package server

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/matzehuels/treetable/pkg/buildinfo"
	"github.com/matzehuels/treetable/pkg/dnd"
	terrors "github.com/matzehuels/treetable/pkg/errors"
	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/tree"
)

type tableHandler func(w http.ResponseWriter, r *http.Request, t *table)

// withTable resolves {tableID} and responds 404 for unknown tables.
func (s *Server) withTable(h tableHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "tableID"))
		if err != nil {
			s.respondError(w, r, terrors.New(terrors.ErrCodeInvalidInput, "table id must be a UUID"))
			return
		}
		t, ok := s.lookup(id)
		if !ok {
			s.respondError(w, r, terrors.New(terrors.ErrCodeNotFound, "table %s not found", id))
			return
		}
		h(w, r, t)
	}
}

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.tables)
	s.mu.RUnlock()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Short(),
		"tables":  n,
	})
}

// createTable handles POST /tables. The body is a document; the format
// comes from ?format= or the Content-Type header and defaults to JSON.
// ?expand=all expands every row with children.
func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	doc, err := pkgio.ReadDocument(r.Body, format, s.opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	id := s.AddDocument(doc, r.URL.Query().Get("expand") == "all")
	s.logger.Info("table created", "id", id, "rows", tree.Count(doc.Roots), "layout", doc.Layout)

	w.Header().Set("Location", "/tables/"+id.String())
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":     id,
		"layout": doc.Layout,
		"rows":   tree.Count(doc.Roots),
	})
}

func requestFormat(r *http.Request) (pkgio.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return pkgio.ParseFormat(f)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return pkgio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", terrors.Wrap(terrors.ErrCodeInvalidInput, err, "bad Content-Type")
	}
	switch {
	case strings.HasSuffix(mt, "json"):
		return pkgio.FormatJSON, nil
	case strings.HasSuffix(mt, "yaml"), strings.HasSuffix(mt, "yml"):
		return pkgio.FormatYAML, nil
	}
	return "", terrors.New(terrors.ErrCodeUnsupported, "unsupported Content-Type %q", mt)
}

// getTable handles GET /tables/{id}. ?nodes=all lists collapsed rows too.
func (s *Server) getTable(w http.ResponseWriter, r *http.Request, t *table) {
	respondJSON(w, http.StatusOK, t.view(r.URL.Query().Get("nodes") == "all"))
}

// getDocument handles GET /tables/{id}/document?format=json|yaml.
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request, t *table) {
	format := pkgio.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = pkgio.ParseFormat(f); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if format == pkgio.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := t.doc.Write(w, format); err != nil {
		s.logger.Error("write document", "table", t.id, "error", err)
	}
}

// deleteTable handles DELETE /tables/{id}.
func (s *Server) deleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tableID"))
	if err != nil {
		s.respondError(w, r, terrors.New(terrors.ErrCodeInvalidInput, "table id must be a UUID"))
		return
	}
	if !s.remove(id) {
		s.respondError(w, r, terrors.New(terrors.ErrCodeNotFound, "table %s not found", id))
		return
	}
	s.logger.Info("table deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// putExpanded handles PUT /tables/{id}/expanded.
func (s *Server) putExpanded(w http.ResponseWriter, r *http.Request, t *table) {
	var req expandedRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	t.setExpanded(req.IDs)
	respondJSON(w, http.StatusOK, t.view(false))
}

// compute handles POST /tables/{id}/compute: a drop decision on the current
// node map that touches neither the gesture nor the indicator.
func (s *Server) compute(w http.ResponseWriter, r *http.Request, t *table) {
	var req computeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dnd.Compute(req.SourceID, req.TargetID, req.Instruction, t.ctrl.Nodes()))
}

// beginDrag handles POST /tables/{id}/drag.
func (s *Server) beginDrag(w http.ResponseWriter, r *http.Request, t *table) {
	var req dragRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	src, err := t.ctrl.Begin(req.SourceID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, src)
}

// cancelDrag handles DELETE /tables/{id}/drag.
func (s *Server) cancelDrag(w http.ResponseWriter, r *http.Request, t *table) {
	t.ctrl.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// hover handles POST /tables/{id}/hover.
func (s *Server) hover(w http.ResponseWriter, r *http.Request, t *table) {
	var req pointerRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := t.ctrl.Move(req.TargetID, req.edge())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// leave handles DELETE /tables/{id}/hover.
func (s *Server) leave(w http.ResponseWriter, r *http.Request, t *table) {
	t.ctrl.Leave()
	w.WriteHeader(http.StatusNoContent)
}

// dropResponse is the body of POST /tables/{id}/drop.
type dropResponse struct {
	dnd.Result
	Version int `json:"version"`
}

// drop handles POST /tables/{id}/drop. A blocked drop is not an error: the
// result carries no event and the document is unchanged. A move that went
// stale under a concurrent drop is skipped and leaves the version as it was.
func (s *Server) drop(w http.ResponseWriter, r *http.Request, t *table) {
	var req pointerRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := t.ctrl.Drop(req.TargetID, req.edge())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	t.mu.Lock()
	version := t.version
	t.mu.Unlock()
	respondJSON(w, http.StatusOK, dropResponse{Result: res, Version: version})
}

// getIndicator handles GET /tables/{id}/indicator.
func (s *Server) getIndicator(w http.ResponseWriter, r *http.Request, t *table) {
	respondJSON(w, http.StatusOK, indicatorBody(t))
}

func indicatorBody(t *table) map[string]*dnd.Indicator {
	var ind *dnd.Indicator
	if v, ok := t.ctrl.Store().Get(); ok {
		ind = &v
	}
	return map[string]*dnd.Indicator{"indicator": ind}
}

// streamIndicator handles GET /tables/{id}/indicator/events. It sends the
// current indicator, then one event per change until the client goes away.
func (s *Server) streamIndicator(w http.ResponseWriter, r *http.Request, t *table) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, r, terrors.New(terrors.ErrCodeUnsupported, "streaming not supported"))
		return
	}

	changed := make(chan struct{}, 1)
	unsubscribe := t.ctrl.Store().Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func() error {
		payload, err := json.Marshal(indicatorBody(t))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: indicator\ndata: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changed:
			if err := send(); err != nil {
				return
			}
		}
	}
}
