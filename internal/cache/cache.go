// Package cache memoizes generated replies for a bounded time.
package cache

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Kind namespaces keys so text prompts and image fingerprints never collide.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Key builds a namespaced cache key, e.g. "text:<prompt>".
func Key(kind Kind, value string) string {
	return string(kind) + ":" + value
}

// TextKey keys a prompt by its trimmed text.
func TextKey(prompt string) string {
	return Key(KindText, strings.TrimSpace(prompt))
}

// ImageKey keys a downscaled image by its fingerprint.
func ImageKey(fingerprint string) string {
	return Key(KindImage, fingerprint)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is an in-memory TTL store. Entries past their TTL are absent on read
// even before Sweep removes them.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// Option customises a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache whose Set uses defaultTTL when given a non-positive TTL.
func New(log *slog.Logger, defaultTTL time.Duration, opts ...Option) *Cache {
	if log == nil {
		log = slog.Default()
	}
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
		logger:     log.With(slog.String("service", "cache")),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the live value for key.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (c *Cache) Set(key, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Len reports stored entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep deletes expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	removed := 0
	c.mu.Lock()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()
	if removed > 0 {
		c.logger.Debug("swept expired entries", slog.Int("removed", removed))
	}
	return removed
}
