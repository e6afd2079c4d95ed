// Package session manages server-side session state for HTTP applications.
// It resolves an opaque session identifier from an incoming request, exposes
// the backing record as a mutable Session for the lifetime of that request,
// and decides on response finalization whether to persist changes, refresh
// the record's TTL, and/or emit a fresh identifier cookie.
//
// The package is storage-agnostic: anything satisfying the Store interface
// can be plugged in. A map-backed MemoryStore ships out of the box and a
// Redis implementation lives in pkg/redisstore. Legacy callback-shaped
// stores can be bridged into the same contract through Adapt.
//
// # Architecture
//
// A Manager orchestrates the session life-cycle. Its Middleware resolves the
// identifier from the request cookie (through a pluggable Codec, so signed
// identifiers are supported), loads the record from the Store, and binds a
// Session to the request context. The middleware wraps the ResponseWriter so
// that the first write of the response triggers Commit exactly once, before
// any header leaves the process; Commit performs a dirty-check against the
// snapshot captured at construction and issues at most one store write per
// request.
//
//	┌────────┐  cookie   ┌───────────┐
//	│ Client │ ────────► │  Manager  │
//	└────────┘           └───────────┘
//	                           │ Get / Set / Destroy / Touch
//	                           ▼
//	                      ┌────────┐
//	                      │ Store  │ (memory, redis, …)
//	                      └────────┘
//
// # Usage
//
//	manager := session.New(
//	    session.WithStore(session.NewMemoryStore()),
//	    session.WithRolling(true),
//	)
//
//	mux.Handle("/", manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    sess.Set("views", 1)
//	})))
//
// Persistence is decided once per request: a session whose data changed is
// saved in full; an unchanged session whose cookie lifetime has been
// consumed past the configured touch threshold is touched (TTL refresh
// only); everything else is a no-op. New sessions always announce
// themselves with a Set-Cookie header, existing ones only under the rolling
// policy when a touch actually happened.
//
// # Store readiness
//
// Stores may report readiness through the ReadinessNotifier interface. While
// the bound store is unavailable the middleware passes requests through
// without resolving or creating sessions. The flag is advisory: a stale read
// costs one extra attempt or one extra skip, nothing more.
//
// # Error Handling
//
// Store operation failures propagate from Commit, Save, Touch and Destroy.
// A cookie that fails Codec verification is not an error: the request simply
// proceeds with a brand-new session. Expired records are indistinguishable
// from absent ones.
package session
