package layergraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/layergraph/internal/logging"
	"github.com/aretw0/layergraph/pkg/adapters/memory"
	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/ports"
	"github.com/aretw0/layergraph/pkg/store"
)

// Editor is the high-level entry point of the library. It keeps one Graph
// Store per open document and persists documents through a DocumentStore.
type Editor struct {
	docs     ports.DocumentStore
	hooks    []domain.MutationHooks
	sections []domain.Section
	logger   *slog.Logger

	mu        sync.Mutex
	open      map[string]*Document
	listeners map[int]func(docID string, e domain.MutationEvent)
	nextID    int
}

// Document is an open document: its identity plus the store that owns its graph.
type Document struct {
	ID    string
	Title string
	Store *store.Store
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithDocumentStore sets where documents are loaded from and saved to
// (default: an in-memory store).
func WithDocumentStore(docs ports.DocumentStore) Option {
	return func(e *Editor) {
		e.docs = docs
	}
}

// WithHooks registers observability hooks on every document store.
func WithHooks(hooks domain.MutationHooks) Option {
	return func(e *Editor) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithSections overrides the canonical inspector sections.
func WithSections(sections []domain.Section) Option {
	return func(e *Editor) {
		e.sections = sections
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// New creates an Editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger:    logging.NewNop(),
		open:      make(map[string]*Document),
		listeners: make(map[int]func(string, domain.MutationEvent)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.docs == nil {
		e.docs = memory.NewStore()
	}
	return e
}

// Open returns the open document id, loading it from the document store on first use.
func (e *Editor) Open(ctx context.Context, id string) (*Document, error) {
	e.mu.Lock()
	if doc, ok := e.open[id]; ok {
		e.mu.Unlock()
		return doc, nil
	}
	e.mu.Unlock()

	persisted, err := e.docs.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.adopt(persisted)
}

// Import opens a document that does not come from the document store,
// replacing any open document with the same id. It is not saved.
// An invalid document leaves the open one, and its unsaved edits, in place.
func (e *Editor) Import(doc *document.Document) (*Document, error) {
	if doc.ID == "" {
		doc.EnsureIDs()
	}
	opened, err := e.load(doc)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.open[opened.ID] = opened
	e.logger.Debug("document imported", "document", opened.ID)
	return opened, nil
}

// Create imports doc and saves it right away.
func (e *Editor) Create(ctx context.Context, doc *document.Document) (*Document, error) {
	opened, err := e.Import(doc)
	if err != nil {
		return nil, err
	}
	if err := e.Save(ctx, opened.ID); err != nil {
		return nil, err
	}
	return opened, nil
}

// adopt caches persisted unless a concurrent Open already did.
func (e *Editor) adopt(persisted *document.Document) (*Document, error) {
	doc, err := e.load(persisted)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// a concurrent Open may have won the race
	if existing, ok := e.open[doc.ID]; ok {
		return existing, nil
	}
	e.open[doc.ID] = doc
	e.logger.Debug("document opened", "document", doc.ID)
	return doc, nil
}

// load builds a store for persisted without touching the open documents.
func (e *Editor) load(persisted *document.Document) (*Document, error) {
	doc := &Document{ID: persisted.ID, Title: persisted.Title}

	opts := []store.Option{store.WithLogger(e.logger.With("document", persisted.ID))}
	if e.sections != nil {
		opts = append(opts, store.WithSections(e.sections))
	}
	for _, h := range e.hooks {
		opts = append(opts, store.WithHooks(h))
	}
	opts = append(opts, store.WithHooks(domain.MutationHooks{
		OnMutation: func(ev *domain.MutationEvent) { e.broadcast(doc.ID, *ev) },
	}))

	doc.Store = store.New(opts...)
	if err := doc.Store.Restore(persisted); err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", persisted.ID, err)
	}
	return doc, nil
}

// Save persists the current state of an open document.
func (e *Editor) Save(ctx context.Context, id string) error {
	doc, err := e.lookup(id)
	if err != nil {
		return err
	}
	if err := e.docs.Save(ctx, doc.Store.Snapshot(doc.ID, doc.Title)); err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	e.logger.Info("document saved", "document", id)
	return nil
}

// Close forgets an open document without saving it.
func (e *Editor) Close(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.open, id)
}

// Delete closes a document and removes it from the document store.
func (e *Editor) Delete(ctx context.Context, id string) error {
	e.Close(id)
	return e.docs.Delete(ctx, id)
}

// Documents lists every known document id: persisted ones and open ones.
func (e *Editor) Documents(ctx context.Context) ([]string, error) {
	ids, err := e.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	for id := range e.open {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	e.mu.Unlock()
	slices.Sort(ids)
	return ids, nil
}

// Subscribe registers fn for the mutations of every open document.
// fn runs on the mutating goroutine and must not call back into that document's store.
func (e *Editor) Subscribe(fn func(docID string, ev domain.MutationEvent)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *Editor) broadcast(docID string, ev domain.MutationEvent) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(string, domain.MutationEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.listeners[id])
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(docID, ev)
	}
}

func (e *Editor) lookup(id string) (*Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.open[id]
	if !ok {
		return nil, fmt.Errorf("document %q is not open: %w", id, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

// IsNotFound reports whether err means a missing document, node or port.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrDocumentNotFound) ||
		errors.Is(err, domain.ErrNodeNotFound) ||
		errors.Is(err, domain.ErrPortNotFound)
}
