package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// legacyStore is a callback-shaped store backed by a plain map, the kind
// Adapt exists to bridge.
type legacyStore struct {
	records map[string]*session.Record
	touches int
}

func newLegacyStore() *legacyStore {
	return &legacyStore{records: make(map[string]*session.Record)}
}

func (s *legacyStore) Get(id string, cb func(*session.Record, error)) {
	cb(s.records[id], nil)
}

func (s *legacyStore) Set(id string, rec *session.Record, cb func(error)) {
	s.records[id] = rec
	cb(nil)
}

func (s *legacyStore) Destroy(id string, cb func(error)) {
	delete(s.records, id)
	cb(nil)
}

// legacyTouchStore adds the optional callback-style touch operation.
type legacyTouchStore struct {
	legacyStore
}

func (s *legacyTouchStore) Touch(id string, rec *session.Record, cb func(error)) {
	s.touches++
	cb(nil)
}

// stalledStore never invokes its callbacks; used to verify context
// cancellation unblocks the adapter.
type stalledStore struct{}

func (stalledStore) Get(id string, cb func(*session.Record, error)) {}
func (stalledStore) Set(id string, rec *session.Record, cb func(error)) {
}
func (stalledStore) Destroy(id string, cb func(error)) {}

func TestAdapt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("context-style store passes through", func(t *testing.T) {
		t.Parallel()

		mem := session.NewMemoryStore()
		store, err := session.Adapt(mem)
		require.NoError(t, err)
		assert.Same(t, mem, store)
	})

	t.Run("unsupported shape", func(t *testing.T) {
		t.Parallel()

		_, err := session.Adapt(42)
		assert.ErrorIs(t, err, session.ErrUnsupportedStore)

		_, err = session.Adapt(nil)
		assert.ErrorIs(t, err, session.ErrUnsupportedStore)
	})

	t.Run("wraps callback store", func(t *testing.T) {
		t.Parallel()

		legacy := newLegacyStore()
		store, err := session.Adapt(legacy)
		require.NoError(t, err)

		rec := newRecord(time.Hour, map[string]any{"user": "a"})
		require.NoError(t, store.Set(ctx, "id1", rec))

		got, err := store.Get(ctx, "id1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a", got.Data["user"])

		require.NoError(t, store.Destroy(ctx, "id1"))
		got, err = store.Get(ctx, "id1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store without touch does not gain one", func(t *testing.T) {
		t.Parallel()

		store, err := session.Adapt(newLegacyStore())
		require.NoError(t, err)

		_, ok := store.(session.TouchStore)
		assert.False(t, ok)
	})

	t.Run("touch is preserved when present", func(t *testing.T) {
		t.Parallel()

		legacy := &legacyTouchStore{legacyStore: *newLegacyStore()}
		store, err := session.Adapt(legacy)
		require.NoError(t, err)

		ts, ok := store.(session.TouchStore)
		require.True(t, ok)

		require.NoError(t, ts.Touch(ctx, "id1", newRecord(time.Hour, nil)))
		assert.Equal(t, 1, legacy.touches)
	})

	t.Run("propagates callback errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk on fire")
		legacy := newLegacyStore()
		store, err := session.Adapt(legacy)
		require.NoError(t, err)

		legacy.records["bad"] = nil
		_, gotErr := store.Get(ctx, "bad")
		assert.NoError(t, gotErr)

		failing := &failingCallbackStore{err: boom}
		store, err = session.Adapt(failing)
		require.NoError(t, err)

		_, gotErr = store.Get(ctx, "any")
		assert.ErrorIs(t, gotErr, boom)
		assert.ErrorIs(t, store.Set(ctx, "any", newRecord(0, nil)), boom)
		assert.ErrorIs(t, store.Destroy(ctx, "any"), boom)
	})

	t.Run("context cancellation unblocks stalled operations", func(t *testing.T) {
		t.Parallel()

		store, err := session.Adapt(stalledStore{})
		require.NoError(t, err)

		cancelCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err = store.Get(cancelCtx, "id")
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		assert.ErrorIs(t, store.Set(cancelCtx, "id", newRecord(0, nil)), context.DeadlineExceeded)
		assert.ErrorIs(t, store.Destroy(cancelCtx, "id"), context.DeadlineExceeded)
	})
}

// failingCallbackStore reports the same error from every operation.
type failingCallbackStore struct {
	err error
}

func (s *failingCallbackStore) Get(id string, cb func(*session.Record, error)) {
	cb(nil, s.err)
}

func (s *failingCallbackStore) Set(id string, rec *session.Record, cb func(error)) {
	cb(s.err)
}

func (s *failingCallbackStore) Destroy(id string, cb func(error)) {
	cb(s.err)
}
