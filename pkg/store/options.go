package store

import (
	"log/slog"
	"time"

	"github.com/aretw0/layergraph/pkg/domain"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected mutations and debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks. It may be given several times;
// hooks run in registration order.
func WithHooks(hooks domain.MutationHooks) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, hooks)
	}
}

// WithSections injects the canonical inspector section enumeration
// (default: layers.DefaultSections()).
func WithSections(sections []domain.Section) Option {
	return func(s *Store) {
		s.sections = sections
	}
}

// WithClock overrides the timestamp source of mutation events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}
