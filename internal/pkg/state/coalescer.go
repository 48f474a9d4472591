package state

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Repository loads and stores the full snapshot document.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// Coalescer serializes snapshot writes: at most one write is in flight at any
// time, and any number of Request calls arriving while it runs collapse into a
// single trailing write of the then-current document. Write failures are
// logged and never surfaced to the mutating caller.
type Coalescer struct {
	repo     Repository
	snapshot func() *Document
	log      zerolog.Logger
	timeout  time.Duration

	mu       sync.Mutex
	cond     *sync.Cond
	inFlight bool
	pending  bool
}

// NewCoalescer builds a coalescer that snapshots via the given function
// (normally Store.Snapshot) and writes through repo.
func NewCoalescer(repo Repository, snapshot func() *Document, log zerolog.Logger) *Coalescer {
	c := &Coalescer{
		repo:     repo,
		snapshot: snapshot,
		log:      log,
		timeout:  10 * time.Second,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Request schedules a save. It never blocks: if a write is already in flight
// the call only marks one trailing write as pending.
func (c *Coalescer) Request() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		c.pending = true
		return
	}
	c.inFlight = true
	go c.write()
}

func (c *Coalescer) write() {
	doc := c.snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	err := c.repo.Save(ctx, doc)
	cancel()
	if err != nil {
		// Best-effort persistence: the in-memory mutation already took effect.
		c.log.Error().Err(err).Msg("failed to persist app state")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		c.pending = false
		go c.write()
		return
	}
	c.inFlight = false
	c.cond.Broadcast()
}

// Wait blocks until no write is in flight or pending. Intended for shutdown
// and tests.
func (c *Coalescer) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inFlight || c.pending {
		c.cond.Wait()
	}
}
