package view

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/vault-md/launchdeck/internal/logging"
)

// CatalogSnapshot is a copy of a catalog's state.
type CatalogSnapshot[T any] struct {
	Phase Phase
	Error string
	Items []T
}

// Catalog is an unfiltered listing such as all rockets or all payloads.
type Catalog[T any] struct {
	fetch   func(context.Context) ([]T, error)
	failMsg string
	logger  *zap.Logger

	mu    sync.Mutex
	phase Phase
	err   string
	items []T
	gen   uint64
}

// NewCatalog returns an idle catalog that loads through fetch and reports
// failMsg when the load fails.
func NewCatalog[T any](fetch func(context.Context) ([]T, error), failMsg string, logger *zap.Logger) *Catalog[T] {
	return &Catalog[T]{
		fetch:   fetch,
		failMsg: failMsg,
		logger:  logging.OrNop(logger).Named("catalog"),
		items:   []T{},
	}
}

// Load fetches the listing. A load started later wins over this one.
func (c *Catalog[T]) Load(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = Loading
	c.err = ""
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if err != nil {
		c.logger.Warn(c.failMsg, zap.Error(err))
		c.phase = Error
		c.err = c.failMsg
		c.items = []T{}
		return
	}
	if items == nil {
		items = []T{}
	}
	c.phase = Ready
	c.items = items
}

// Retry repeats the load.
func (c *Catalog[T]) Retry(ctx context.Context) {
	c.Load(ctx)
}

// Snapshot returns a copy of the catalog.
func (c *Catalog[T]) Snapshot() CatalogSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CatalogSnapshot[T]{
		Phase: c.phase,
		Error: c.err,
		Items: slices.Clone(c.items),
	}
}
