package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"tonetags/internal/preference/metrics"
	"tonetags/internal/standard"
	id "tonetags/pkg/domain"
	"tonetags/pkg/platform/sentinel"
)

// Cache holds the enabled standards of at most capacity users.
//
// Every operation runs under one mutex, including the durable store call, so
// at most one preference operation executes at a time. A stalled store call
// therefore stalls every other caller until it returns; there is no timeout
// beyond what the caller's context imposes on the store.
//
// Eviction is a capacity cap, not LRU: inserting a user that is not resident
// into a full cache evicts one arbitrary resident.
type Cache struct {
	mu       sync.Mutex
	entries  map[id.UserID][]string
	capacity int

	store    Store
	registry *standard.Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Cache)

// WithCapacity overrides DefaultCapacity. Values below one are ignored.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// NewCache constructs an empty cache over store. The registry validates
// stored and submitted standard ids.
func NewCache(store Store, registry *standard.Registry, opts ...Option) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("standard registry is required")
	}
	c := &Cache{
		entries:  make(map[id.UserID][]string),
		capacity: DefaultCapacity,
		store:    store,
		registry: registry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the user's enabled standard ids in priority order.
// Users without a stored record get DefaultStandards, which is cached too.
func (c *Cache) Get(ctx context.Context, userID id.UserID) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ids, ok := c.entries[userID]; ok {
		c.recordHit()
		return slices.Clone(ids), nil
	}
	c.recordMiss()

	start := time.Now()
	stored, err := c.store.Find(ctx, userID)
	c.observeStore("find", start)

	var ids []string
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		ids = DefaultStandards()
	case err != nil:
		return nil, fmt.Errorf("find preferences: %w", err)
	default:
		ids = c.registry.Filter(stored)
	}

	c.insertLocked(userID, ids)
	return slices.Clone(ids), nil
}

// Update replaces the user's enabled standards. Duplicates collapse to their
// first occurrence and ids unknown to the registry are dropped. The list is
// persisted before the cache changes; it returns how many ids were kept.
func (c *Cache) Update(ctx context.Context, userID id.UserID, ids []string) (int, error) {
	kept := c.registry.Filter(ids)

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	err := c.store.Upsert(ctx, userID, kept)
	c.observeStore("upsert", start)
	if err != nil {
		return 0, fmt.Errorf("save preferences: %w", err)
	}

	c.insertLocked(userID, kept)
	return len(kept), nil
}

// Delete removes the user's stored record and resident entry.
// Deleting an unknown user is not an error.
func (c *Cache) Delete(ctx context.Context, userID id.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	err := c.store.Delete(ctx, userID)
	c.observeStore("delete", start)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}

	delete(c.entries, userID)
	c.recordResident()
	return nil
}

// Len returns the number of resident users.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the configured resident limit.
func (c *Cache) Capacity() int {
	return c.capacity
}

// insertLocked sets userID's entry, evicting one arbitrary resident first when
// userID is new and the cache is full. Callers hold c.mu.
func (c *Cache) insertLocked(userID id.UserID, ids []string) {
	if _, resident := c.entries[userID]; !resident && len(c.entries) >= c.capacity {
		c.evictOneLocked()
	}
	c.entries[userID] = ids
	c.recordResident()
}

func (c *Cache) evictOneLocked() {
	for victim := range c.entries {
		delete(c.entries, victim)
		if c.metrics != nil {
			c.metrics.IncrementEvictions()
		}
		if c.logger != nil {
			c.logger.Debug("evicted preference cache entry", "user_id", victim.String())
		}
		return
	}
}

func (c *Cache) recordHit() {
	if c.metrics != nil {
		c.metrics.IncrementHits()
	}
}

func (c *Cache) recordMiss() {
	if c.metrics != nil {
		c.metrics.IncrementMisses()
	}
}

func (c *Cache) recordResident() {
	if c.metrics != nil {
		c.metrics.SetResident(len(c.entries))
	}
}

func (c *Cache) observeStore(operation string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveStore(operation, float64(time.Since(start).Microseconds())/1000.0)
	}
}
