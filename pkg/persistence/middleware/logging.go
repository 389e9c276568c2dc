package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.DocumentStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call with its duration. Failures are
// logged at Warn, everything else at Debug.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(op, id string, start time.Time, err error) {
	if err != nil {
		m.logger.Warn("document store call failed", "op", op, "document", id, "duration", time.Since(start), "error", err)
		return
	}
	m.logger.Debug("document store call", "op", op, "document", id, "duration", time.Since(start))
}

func (m *loggingMiddleware) Save(ctx context.Context, doc *document.Document) error {
	start := time.Now()
	err := m.next.Save(ctx, doc)
	m.log("save", doc.ID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*document.Document, error) {
	start := time.Now()
	doc, err := m.next.Load(ctx, id)
	m.log("load", id, start, err)
	return doc, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log("delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log("list", "", start, err)
	return ids, err
}
