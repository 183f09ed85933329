package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/patternhive/internal/extract"
	"github.com/google/uuid"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, max int) (*ResultStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewResultStore(ttl, max)
	s.now = clock.now
	return s, clock
}

func TestResultStore_PutGet(t *testing.T) {
	s, _ := newTestStore(time.Minute, 10)
	res := extract.ExtractAll("mail bob@example.com")

	e := s.Put(res, "notes.txt")

	if _, err := uuid.Parse(e.SessionID); err != nil {
		t.Fatalf("SessionID %q is not a UUID: %v", e.SessionID, err)
	}
	if e.Stats.EmailsFound != 1 {
		t.Errorf("Stats.EmailsFound = %d, want 1", e.Stats.EmailsFound)
	}

	got, err := s.Get(e.SessionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Filename != "notes.txt" || got.Results.Emails[0].Email != "bob@example.com" {
		t.Errorf("Get() = %+v, want stored extraction", got)
	}
}

func TestResultStore_UniqueIDs(t *testing.T) {
	s, _ := newTestStore(time.Minute, 100)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		id := s.Put(extract.Result{}, "").SessionID
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
}

func TestResultStore_Expiry(t *testing.T) {
	s, clock := newTestStore(time.Minute, 10)
	e := s.Put(extract.Result{}, "")

	clock.advance(59 * time.Second)
	if _, err := s.Get(e.SessionID); err != nil {
		t.Fatalf("Get() before TTL error = %v", err)
	}

	clock.advance(2 * time.Second)
	if _, err := s.Get(e.SessionID); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("Get() after TTL = %v, want ErrResultNotFound", err)
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len() after expired Get = %d, want 0", got)
	}
}

func TestResultStore_Sweep(t *testing.T) {
	s, clock := newTestStore(time.Minute, 10)
	s.Put(extract.Result{}, "")
	s.Put(extract.Result{}, "")
	clock.advance(2 * time.Minute)
	fresh := s.Put(extract.Result{}, "")

	if removed := s.Sweep(); removed != 2 {
		t.Errorf("Sweep() removed %d, want 2", removed)
	}
	if _, err := s.Get(fresh.SessionID); err != nil {
		t.Errorf("fresh entry lost: %v", err)
	}
}

func TestResultStore_EvictsOldestWhenFull(t *testing.T) {
	s, clock := newTestStore(time.Hour, 2)

	first := s.Put(extract.Result{}, "first")
	clock.advance(time.Second)
	second := s.Put(extract.Result{}, "second")
	clock.advance(time.Second)
	third := s.Put(extract.Result{}, "third")

	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if _, err := s.Get(first.SessionID); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("oldest entry still present: %v", err)
	}
	for _, e := range []*Extraction{second, third} {
		if _, err := s.Get(e.SessionID); err != nil {
			t.Errorf("Get(%s) error = %v", e.Filename, err)
		}
	}
}

func TestResultStore_UnknownID(t *testing.T) {
	s, _ := newTestStore(time.Minute, 10)
	if _, err := s.Get(uuid.NewString()); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrResultNotFound", err)
	}
}

func TestResultStore_JanitorStopsOnCancel(t *testing.T) {
	s := NewResultStore(time.Millisecond, 10)
	s.Put(extract.Result{}, "")

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 10)
	done := make(chan struct{})
	go func() {
		s.StartJanitor(ctx, 5*time.Millisecond, func(remaining int) { swept <- remaining })
		close(done)
	}()

	select {
	case remaining := <-swept:
		if remaining != 0 {
			t.Errorf("remaining after sweep = %d, want 0", remaining)
		}
	case <-time.After(time.Second):
		t.Fatal("janitor never swept")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
