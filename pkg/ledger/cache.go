package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/models"
	"golang.org/x/sync/singleflight"
)

// Source builds a ledger. *Builder and *Cached both satisfy it.
type Source interface {
	Build(ctx context.Context) (*models.Ledger, error)
}

// Cached keeps the last successful build for ttl. Concurrent refreshes
// share one build.
type Cached struct {
	source Source
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time

	mu      sync.Mutex
	ledger  *models.Ledger
	err     error
	builtAt time.Time

	group singleflight.Group
}

var _ Source = (*Cached)(nil)

func NewCached(source Source, ttl time.Duration, logger *log.Logger) *Cached {
	return &Cached{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Build returns the cached ledger while fresh, rebuilding otherwise. An
// empty dataset is cached like any other result; listing failures are not.
func (c *Cached) Build(ctx context.Context) (*models.Ledger, error) {
	c.mu.Lock()
	if c.ledger != nil && c.now().Sub(c.builtAt) < c.ttl {
		l, err := c.ledger, c.err
		c.mu.Unlock()
		return l, err
	}
	c.mu.Unlock()

	type result struct {
		ledger *models.Ledger
		err    error
	}
	// The shared build outlives the caller that started it; the builder's own
	// timeout bounds it.
	buildCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do("build", func() (any, error) {
		l, err := c.source.Build(buildCtx)
		if err != nil && !errors.Is(err, ErrEmptyDataset) {
			return result{nil, err}, nil
		}
		c.mu.Lock()
		c.ledger, c.err, c.builtAt = l, err, c.now()
		c.mu.Unlock()
		return result{l, err}, nil
	})
	r := v.(result)
	return r.ledger, r.err
}

// Invalidate drops the cached ledger so the next Build refreshes.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger, c.err, c.builtAt = nil, nil, time.Time{}
	c.logger.Debug("ledger cache invalidated")
}

// BuiltAt reports when the cached ledger was built; zero when empty.
func (c *Cached) BuiltAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builtAt
}
