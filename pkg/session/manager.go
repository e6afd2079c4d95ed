package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
)

// Manager coordinates the session life-cycle: identifier resolution, record
// lookup, per-request Session construction and the commit-on-finalization
// hook installed by Middleware. One Manager serves all requests; every
// request gets its own Session.
type Manager struct {
	store        Store
	config       Config
	genID        func() string
	codec        Codec
	logger       *slog.Logger
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// ready is the advisory store-readiness flag: initial value available,
	// toggled only by the bound store's readiness events. A stale read
	// costs one extra store attempt or one extra skip, so no stronger
	// coordination is needed.
	ready atomic.Bool
}

// New creates a session manager. Without WithStore it runs on a fresh
// MemoryStore.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		genID:  uuid.NewString,
		codec:  identityCodec{},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.errorHandler == nil {
		m.errorHandler = func(w http.ResponseWriter, r *http.Request, _ error) {
			http.Error(w, "Session error", http.StatusInternalServerError)
		}
	}

	m.ready.Store(true)
	if n, ok := m.store.(ReadinessNotifier); ok {
		n.NotifyReadiness(func(r Readiness) {
			m.ready.Store(r == Available)
		})
	}

	return m
}

// Store returns the bound session store.
func (m *Manager) Store() Store {
	return m.store
}

// Ready reports the current value of the advisory readiness flag.
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

// resolve extracts and decodes the session identifier from the request
// cookie and looks the record up. A missing cookie, a failed decode and an
// absent or expired record all yield (nil, ""): the caller starts a fresh
// session. The error return is reserved for store failures.
func (m *Manager) resolve(r *http.Request) (*Record, string, error) {
	c, err := r.Cookie(m.config.CookieName)
	if err != nil {
		return nil, "", nil
	}

	id, err := m.codec.Decode(c.Value)
	if err != nil || id == "" {
		// Tampered or foreign cookies are not an error; the client simply
		// starts over with a new session.
		return nil, "", nil
	}

	rec, err := m.store.Get(r.Context(), id)
	if err != nil {
		return nil, "", fmt.Errorf("session: load %q: %w", id, err)
	}
	if rec == nil {
		return nil, "", nil
	}

	return rec, id, nil
}
