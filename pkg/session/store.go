package session

import "context"

// Record is the persisted form of a session: its data plus the cookie
// attributes captured at save time. Stores treat it as an opaque value.
type Record struct {
	Data   map[string]any `json:"data"`
	Cookie Cookie         `json:"cookie"`
}

// Store defines the interface for session persistence.
type Store interface {
	// Get retrieves the record for id. Absent and expired records both
	// yield (nil, nil); the error return is reserved for store failures.
	Get(ctx context.Context, id string) (*Record, error)

	// Set stores the record under id, replacing any existing record.
	Set(ctx context.Context, id string, rec *Record) error

	// Destroy removes the record for id. Destroying an absent id is a no-op.
	Destroy(ctx context.Context, id string) error
}

// TouchStore is an optional interface for stores that can refresh a
// record's TTL without rewriting its content. Sessions bound to a store
// without it resolve Touch as a successful no-op.
type TouchStore interface {
	Store

	// Touch extends the TTL of the record for id using the cookie lifetime
	// carried by rec. Touching an absent id is a no-op.
	Touch(ctx context.Context, id string, rec *Record) error
}

// Readiness is the signal a store emits to indicate whether it should be
// used. While a store is Unavailable the middleware passes requests through
// without touching it.
type Readiness int

const (
	Available Readiness = iota
	Unavailable
)

// String returns the readiness state name.
func (r Readiness) String() string {
	if r == Available {
		return "available"
	}
	return "unavailable"
}

// ReadinessNotifier is an optional interface for stores that report when
// they become usable or unusable. The Manager subscribes once at
// construction; callbacks may be invoked from any goroutine.
type ReadinessNotifier interface {
	NotifyReadiness(fn func(Readiness))
}
