package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/layergraph"
	"github.com/aretw0/layergraph/internal/logging"
	"github.com/aretw0/layergraph/internal/metrics"
	presentation "github.com/aretw0/layergraph/internal/presentation/graph"
	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/store"
)

// Server exposes an Editor over HTTP.
type Server struct {
	Editor   *layergraph.Editor
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the gathered metrics on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the HTTP handler for the editor.
func NewHandler(editor *layergraph.Editor, opts ...Option) http.Handler {
	s := &Server{Editor: editor, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Put("/", s.PutDocument)
			r.Delete("/", s.DeleteDocument)
			r.Post("/save", s.SaveDocument)
			r.Get("/graph", s.GetGraph)
			r.Get("/events", s.SubscribeEvents)

			r.Get("/sidebar", s.GetSidebar)
			r.Post("/groups/{node}/toggle", s.ToggleGroup)

			r.Get("/inspector", s.GetInspector)
			r.Put("/inspector/{port}", s.SetInspectorValue)
			r.Put("/selection", s.SetSelection)
			r.Post("/sections/{section}/toggle", s.ToggleSection)

			r.Post("/nodes", s.InsertNode)
			r.Delete("/nodes/{node}", s.RemoveNode)
			r.Post("/nodes/{node}/move", s.MoveNode)

			r.Put("/ports/{node}/{port}", s.SetPortValue)
			r.Put("/ports/{node}/{port}/blocked", s.SetPortBlocked)
			r.Delete("/ports/{node}/{port}/connections", s.DisconnectPort)
			r.Post("/connections", s.ConnectPorts)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Editor.Documents(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, map[string]any{"documents": ids})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	s.reply(w, http.StatusOK, doc.Store.Snapshot(doc.ID, doc.Title))
}

// PutDocument handles PUT /documents/{id}: it replaces the document with the
// body (JSON, or YAML when the content type says so) and saves it.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	format := document.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = document.FormatYAML
	}
	doc, err := document.Parse(data, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc.ID = chi.URLParam(r, "id")

	opened, err := s.Editor.Create(r.Context(), doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, opened.Store.Snapshot(opened.ID, opened.Title))
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Editor.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveDocument handles POST /documents/{id}/save.
func (s *Server) SaveDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := s.Editor.Save(r.Context(), doc.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /documents/{id}/graph with a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var out string
	doc.Store.Read(func(v store.ReadView) {
		out = presentation.GenerateMermaid(v.Tree, &presentation.GraphOverlay{
			Selected:  v.Selection,
			Collapsed: sortedKeys(v.CollapsedGroups),
		})
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// GetSidebar handles GET /documents/{id}/sidebar.
func (s *Server) GetSidebar(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var view sidebarView
	doc.Store.Read(func(v store.ReadView) {
		view = newSidebarView(v)
	})
	s.reply(w, http.StatusOK, view)
}

// ToggleGroup handles POST /documents/{id}/groups/{node}/toggle.
func (s *Server) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	collapsed, err := doc.Store.ToggleGroupCollapsed(chi.URLParam(r, "node"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, map[string]bool{"collapsed": collapsed})
}

// GetInspector handles GET /documents/{id}/inspector.
// It answers 204 when the selection yields no projection.
func (s *Server) GetInspector(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var view *inspectorView
	doc.Store.Read(func(v store.ReadView) {
		if insp, ok := v.Inspect(); ok {
			iv := newInspectorView(insp)
			view = &iv
		}
	})
	if view == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.reply(w, http.StatusOK, view)
}

type valueRequest struct {
	Value any              `json:"value"`
	Kind  domain.PortKind  `json:"kind,omitempty"`
	Type  domain.ValueType `json:"type,omitempty"`
}

// SetInspectorValue handles PUT /documents/{id}/inspector/{port}. In
// multiselect the value is applied to every selected layer.
func (s *Server) SetInspectorValue(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body valueRequest
	if !s.decode(w, r, &body) {
		return
	}
	key := domain.PortKey(chi.URLParam(r, "port"))

	typ := body.Type
	if typ == "" {
		doc.Store.Read(func(v store.ReadView) {
			if insp, ok := v.Inspect(); ok {
				if in, ok := insp.Input(key); ok {
					typ = in.Value().Type
				}
			}
		})
	}
	if typ == "" {
		s.fail(w, r, fmt.Errorf("inspector row %s: %w", key, domain.ErrPortNotFound))
		return
	}
	v, err := document.DecodeValue(typ, body.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := doc.Store.SetInspectorValue(key, v); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSelection handles PUT /documents/{id}/selection.
func (s *Server) SetSelection(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body struct {
		IDs []string `json:"ids"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if err := doc.Store.SetSelection(body.IDs...); err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, map[string][]string{"ids": doc.Store.Selection()})
}

// ToggleSection handles POST /documents/{id}/sections/{section}/toggle.
func (s *Server) ToggleSection(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	collapsed := doc.Store.ToggleSectionCollapsed(chi.URLParam(r, "section"))
	s.reply(w, http.StatusOK, map[string]bool{"collapsed": collapsed})
}

// InsertNode handles POST /documents/{id}/nodes.
func (s *Server) InsertNode(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body struct {
		ID     string           `json:"id"`
		Type   domain.LayerType `json:"type"`
		Title  string           `json:"title"`
		Parent string           `json:"parent"`
		Index  *int             `json:"index"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	var opts []graph.InsertOption
	if body.Parent != "" {
		opts = append(opts, graph.Under(body.Parent))
	}
	if body.Index != nil {
		opts = append(opts, graph.At(*body.Index))
	}
	n := graph.NewNode(body.ID, body.Type, graph.WithTitle(body.Title))
	if err := doc.Store.InsertNode(n, opts...); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// RemoveNode handles DELETE /documents/{id}/nodes/{node}.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	removed, err := doc.Store.RemoveNode(chi.URLParam(r, "node"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, map[string][]string{"removed": removed})
}

// MoveNode handles POST /documents/{id}/nodes/{node}/move.
func (s *Server) MoveNode(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body struct {
		Parent string `json:"parent"`
		Index  int    `json:"index"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if err := doc.Store.MoveNode(chi.URLParam(r, "node"), body.Parent, body.Index); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPortValue handles PUT /documents/{id}/ports/{node}/{port}.
// The body value is decoded with the current type of the port.
func (s *Server) SetPortValue(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body valueRequest
	if !s.decode(w, r, &body) {
		return
	}
	addr := portAddress(r, body.Kind)

	typ := body.Type
	if typ == "" {
		doc.Store.View(func(tree *graph.Tree) {
			if n, ok := tree.Node(addr.NodeID); ok {
				if p, ok := n.Port(addr.Kind, addr.Key); ok {
					typ = p.Value().Type
				}
			}
		})
	}
	if typ == "" {
		s.fail(w, r, fmt.Errorf("port %s: %w", addr, domain.ErrPortNotFound))
		return
	}
	v, err := document.DecodeValue(typ, body.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := doc.Store.SetPortValue(addr, v); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPortBlocked handles PUT /documents/{id}/ports/{node}/{port}/blocked.
func (s *Server) SetPortBlocked(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body struct {
		Blocked bool            `json:"blocked"`
		Kind    domain.PortKind `json:"kind,omitempty"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if err := doc.Store.SetPortBlocked(portAddress(r, body.Kind), body.Blocked); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DisconnectPort handles DELETE /documents/{id}/ports/{node}/{port}/connections?kind=output.
func (s *Server) DisconnectPort(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	addr := portAddress(r, domain.PortKind(r.URL.Query().Get("kind")))
	if err := doc.Store.DisconnectPort(addr); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConnectPorts handles POST /documents/{id}/connections.
func (s *Server) ConnectPorts(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	var body document.Connection
	if !s.decode(w, r, &body) {
		return
	}
	if err := doc.Store.ConnectPorts(body.FromAddress(), body.ToAddress()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func portAddress(r *http.Request, kind domain.PortKind) domain.PortAddress {
	if kind == "" {
		kind = domain.PortInput
	}
	return domain.PortAddress{
		NodeID: chi.URLParam(r, "node"),
		Kind:   kind,
		Key:    domain.PortKey(chi.URLParam(r, "port")),
	}
}

func sortedKeys(m map[string]bool) []string {
	return slices.Sorted(maps.Keys(m))
}

func (s *Server) open(w http.ResponseWriter, r *http.Request) (*layergraph.Document, bool) {
	doc, err := s.Editor.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case document.ValidationErrors(err) != nil:
		status = http.StatusUnprocessableEntity
	case layergraph.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTypeMismatch), errors.Is(err, domain.ErrEmptyID):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrIncompatibleDirection),
		errors.Is(err, domain.ErrPortBlocked),
		errors.Is(err, domain.ErrPortDriven),
		errors.Is(err, domain.ErrCycleDetected),
		errors.Is(err, domain.ErrDuplicateID):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.reply(w, status, map[string]string{"error": err.Error()})
}
