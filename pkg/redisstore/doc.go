// Package redisstore persists sessions in Redis, honoring the store
// contract of pkg/session: JSON-encoded records under a configurable key
// prefix, a TTL taken from the record's cookie lifetime at write time, and
// a PEXPIRE-based Touch that refreshes the TTL without rewriting the
// record.
//
// The store optionally runs a health-check loop that pings Redis on an
// interval and emits Available/Unavailable readiness signals, which the
// session manager uses as a soft circuit breaker.
//
//	client, err := redisstore.Connect(ctx, redisstore.DefaultConfig())
//	if err != nil { ... }
//	store := redisstore.New(client)
//	manager := session.New(session.WithStore(store))
package redisstore
