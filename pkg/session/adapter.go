package session

import "context"

// CallbackStore is the shape of legacy stores written against a
// callback-style contract: each operation reports its outcome through the
// supplied callback instead of a return value.
type CallbackStore interface {
	Get(id string, cb func(*Record, error))
	Set(id string, rec *Record, cb func(error))
	Destroy(id string, cb func(error))
}

// CallbackTouchStore is a CallbackStore that also supports TTL refresh.
type CallbackTouchStore interface {
	CallbackStore
	Touch(id string, rec *Record, cb func(error))
}

// Adapt normalizes a store implementation into the Store contract.
// Context-style stores pass through unchanged, callback-shaped ones are
// wrapped so callers always get the asynchronous contract, and anything
// else yields ErrUnsupportedStore. Touch support is preserved only when
// the underlying implementation has it.
func Adapt(impl any) (Store, error) {
	switch st := impl.(type) {
	case Store:
		return st, nil
	case CallbackTouchStore:
		return &callbackTouchAdapter{callbackAdapter{legacy: st}}, nil
	case CallbackStore:
		return &callbackAdapter{legacy: st}, nil
	default:
		return nil, ErrUnsupportedStore
	}
}

type callbackAdapter struct {
	legacy CallbackStore
}

func (a *callbackAdapter) Get(ctx context.Context, id string) (*Record, error) {
	type result struct {
		rec *Record
		err error
	}
	ch := make(chan result, 1)
	a.legacy.Get(id, func(rec *Record, err error) {
		ch <- result{rec: rec, err: err}
	})
	select {
	case res := <-ch:
		return res.rec, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *callbackAdapter) Set(ctx context.Context, id string, rec *Record) error {
	return a.wait(ctx, func(cb func(error)) {
		a.legacy.Set(id, rec, cb)
	})
}

func (a *callbackAdapter) Destroy(ctx context.Context, id string) error {
	return a.wait(ctx, func(cb func(error)) {
		a.legacy.Destroy(id, cb)
	})
}

// NotifyReadiness forwards readiness subscriptions when the legacy store
// reports readiness; otherwise the subscription is inert and the manager
// keeps its initial "available" state.
func (a *callbackAdapter) NotifyReadiness(fn func(Readiness)) {
	if n, ok := a.legacy.(ReadinessNotifier); ok {
		n.NotifyReadiness(fn)
	}
}

func (a *callbackAdapter) wait(ctx context.Context, op func(cb func(error))) error {
	ch := make(chan error, 1)
	op(func(err error) { ch <- err })
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type callbackTouchAdapter struct {
	callbackAdapter
}

func (a *callbackTouchAdapter) Touch(ctx context.Context, id string, rec *Record) error {
	return a.wait(ctx, func(cb func(error)) {
		a.legacy.(CallbackTouchStore).Touch(id, rec, cb)
	})
}
