// Package session keeps one configuration store per designer session and
// serialises access to it.  Sessions live in memory only and are evicted
// after a period of inactivity.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/wardrobe-designer/internal/catalog"
	"github.com/iliyamo/wardrobe-designer/internal/model"
	"github.com/iliyamo/wardrobe-designer/internal/pricing"
	"github.com/iliyamo/wardrobe-designer/internal/store"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is one designer's workspace.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    *store.Store
	lastSeen atomic.Int64 // unix nanoseconds
}

func (s *Session) touch(t time.Time) { s.lastSeen.Store(t.UnixNano()) }

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Do runs fn with exclusive access to the session's store.  Mutations made
// by fn are fully applied before any other caller observes the store.
func (s *Session) Do(fn func(st *store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

// Snapshot returns a copy of the current configuration.
func (s *Session) Snapshot() model.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Registry tracks live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	catalog  *catalog.Catalog
	now      func() time.Time
	storeOpt []store.Option
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithStoreOptions passes extra options to every new store.
func WithStoreOptions(opts ...store.Option) RegistryOption {
	return func(r *Registry) { r.storeOpt = append(r.storeOpt, opts...) }
}

// NewRegistry creates an empty registry.  Sessions idle for longer than ttl
// are removed by Sweep; a non-positive ttl disables eviction.
func NewRegistry(cat *catalog.Catalog, ttl time.Duration, opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		catalog:  cat,
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create starts a new session holding a default configuration with a fresh
// price.
func (r *Registry) Create() *Session {
	now := r.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	sess.touch(now)
	// The observer runs inside the store's mutation, which always happens
	// under sess.mu, so it may touch the store directly.
	opts := append([]store.Option{}, r.storeOpt...)
	opts = append(opts, store.WithObserver(func(model.Configuration) {
		pricing.Refresh(sess.store, r.catalog)
	}))
	sess.store = store.New(opts...)
	pricing.Refresh(sess.store, r.catalog)

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess
}

// Get returns the session with id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(r.now())
	return sess, nil
}

// Delete ends a session.  It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the ttl and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
