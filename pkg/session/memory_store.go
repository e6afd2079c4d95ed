package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemoryStore is the in-process reference implementation of the Store
// contract. Session data is kept serialized; cookie attributes and expiry
// are tracked beside it so Touch can refresh a record's lifetime without
// rewriting its content. Expiry is enforced lazily on read — there is no
// background sweep, an expired entry behaves as absent and is evicted the
// first time it is looked up.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]*memoryEntry
	order    []string
	watchers []func(Readiness)
}

type memoryEntry struct {
	payload   []byte // serialized session data
	cookie    Cookie
	expiresAt time.Time // zero means no independent expiry
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
	}
}

// Get retrieves the record for id. Expired entries are evicted as a side
// effect and reported as absent, indistinguishable from never-existed.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if e.expired(time.Now()) {
		m.evict(id)
		return nil, nil
	}

	return e.record(id)
}

// Set stores a serialized snapshot of the record's data plus its cookie
// attributes, and captures an absolute expiry from the cookie lifetime at
// time of write. A zero MaxAge means no expiry is tracked for the entry.
func (m *MemoryStore) Set(ctx context.Context, id string, rec *Record) error {
	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("memory store: encode record %q: %w", id, err)
	}

	var expiresAt time.Time
	if rec.Cookie.MaxAge > 0 {
		expiresAt = time.Now().Add(rec.Cookie.MaxAge)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		m.order = append(m.order, id)
	}
	m.entries[id] = &memoryEntry{payload: payload, cookie: rec.Cookie, expiresAt: expiresAt}
	return nil
}

// Touch refreshes the entry's lifetime from the record's cookie without
// rewriting the stored data. Touching an absent or already evicted id is a
// no-op.
func (m *MemoryStore) Touch(ctx context.Context, id string, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	e.cookie = rec.Cookie
	if rec.Cookie.MaxAge > 0 {
		e.expiresAt = time.Now().Add(rec.Cookie.MaxAge)
	}
	return nil
}

// Destroy removes the entry for id unconditionally.
func (m *MemoryStore) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evict(id)
	return nil
}

// All enumerates every live, non-expired record in first-write order, for
// diagnostic and administrative use. Expired entries encountered along the
// way are evicted.
func (m *MemoryStore) All(ctx context.Context) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	records := make([]*Record, 0, len(m.entries))
	for _, id := range slices.Clone(m.order) {
		e, ok := m.entries[id]
		if !ok {
			continue
		}
		if e.expired(now) {
			m.evict(id)
			continue
		}
		rec, err := e.record(id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Len returns the number of entries currently held, expired ones included
// until their lazy eviction.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// NotifyReadiness registers a readiness subscriber.
func (m *MemoryStore) NotifyReadiness(fn func(Readiness)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

// SetAvailable emits the Available signal to all subscribers. The memory
// store has no external dependency, so it never emits on its own; this
// exists for wrappers and tests.
func (m *MemoryStore) SetAvailable() {
	m.emit(Available)
}

// SetUnavailable emits the Unavailable signal to all subscribers.
func (m *MemoryStore) SetUnavailable() {
	m.emit(Unavailable)
}

func (m *MemoryStore) emit(r Readiness) {
	m.mu.Lock()
	watchers := slices.Clone(m.watchers)
	m.mu.Unlock()

	for _, fn := range watchers {
		fn(r)
	}
}

// evict removes id from both the entry map and the write-order index.
// Callers hold m.mu.
func (m *MemoryStore) evict(id string) {
	if _, ok := m.entries[id]; !ok {
		return
	}
	delete(m.entries, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (e *memoryEntry) record(id string) (*Record, error) {
	var data map[string]any
	if err := json.Unmarshal(e.payload, &data); err != nil {
		return nil, fmt.Errorf("memory store: record %q: %w", id, err)
	}
	return &Record{Data: data, Cookie: e.cookie}, nil
}
