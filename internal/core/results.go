package core

// results.go keeps extraction results addressable by session ID for a
// limited time so they can be exported or viewed after the request that
// produced them. Nothing is persisted; a restart forgets every result.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/patternhive/internal/extract"
	"github.com/google/uuid"
)

// ErrResultNotFound is returned for unknown or expired session IDs.
var ErrResultNotFound = errors.New("result not found or expired")

const (
	DefaultResultTTL        = time.Hour
	DefaultResultMaxEntries = 1000
)

// Extraction is one stored extraction and its handle.
type Extraction struct {
	SessionID string         `json:"session_id"`
	Filename  string         `json:"filename,omitempty"`
	Results   extract.Result `json:"results"`
	Stats     extract.Stats  `json:"stats"`
	CreatedAt time.Time      `json:"created_at"`
}

// ResultStore is an in-memory map from session ID to Extraction with TTL
// expiry and a size cap. When full, the oldest entry is evicted.
type ResultStore struct {
	mu         sync.Mutex
	entries    map[string]*Extraction
	ttl        time.Duration
	maxEntries int

	now func() time.Time
}

// NewResultStore creates an empty store. Non-positive arguments fall back
// to the defaults.
func NewResultStore(ttl time.Duration, maxEntries int) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultResultMaxEntries
	}
	return &ResultStore{
		entries:    make(map[string]*Extraction),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores res under a new random session ID and returns the stored
// record.
func (s *ResultStore) Put(res extract.Result, filename string) *Extraction {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &Extraction{
		SessionID: uuid.NewString(),
		Filename:  filename,
		Results:   res,
		Stats:     res.Stats(),
		CreatedAt: s.now(),
	}

	if len(s.entries) >= s.maxEntries {
		s.sweepLocked()
	}
	for len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	s.entries[e.SessionID] = e
	return e
}

// Get returns the extraction stored under id.
func (s *ResultStore) Get(id string) (*Extraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	if s.expired(e) {
		delete(s.entries, id)
		return nil, ErrResultNotFound
	}
	return e, nil
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were removed.
func (s *ResultStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *ResultStore) sweepLocked() int {
	removed := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *ResultStore) evictOldestLocked() {
	var oldest *Extraction
	for _, e := range s.entries {
		if oldest == nil || e.CreatedAt.Before(oldest.CreatedAt) {
			oldest = e
		}
	}
	if oldest != nil {
		delete(s.entries, oldest.SessionID)
	}
}

func (s *ResultStore) expired(e *Extraction) bool {
	return s.now().Sub(e.CreatedAt) > s.ttl
}

// StartJanitor sweeps expired results every interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *ResultStore) StartJanitor(ctx context.Context, interval time.Duration, onSweep func(remaining int)) {
	slog.Info("result janitor started", "interval", interval, "ttl", s.ttl, "max_entries", s.maxEntries)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("result janitor stopped")
			return
		case <-ticker.C:
			removed := s.Sweep()
			remaining := s.Len()
			if removed > 0 {
				slog.Debug("expired results removed", "removed", removed, "remaining", remaining)
			}
			if onSweep != nil {
				onSweep(remaining)
			}
		}
	}
}
