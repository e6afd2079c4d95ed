package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Store persists session records in Redis. It implements session.Store,
// session.TouchStore and session.ReadinessNotifier.
type Store struct {
	db        redis.UniversalClient
	keyPrefix string

	mu       sync.Mutex
	watchers []func(session.Readiness)
	healthy  bool

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Redis-backed session store with the default key prefix and
// no health-check loop.
func New(client redis.UniversalClient) *Store {
	return NewWithConfig(client, Config{KeyPrefix: "session:"})
}

// NewWithConfig creates a Redis-backed session store. A positive
// HealthcheckInterval starts a probe loop that emits readiness signals;
// call Close to stop it.
func NewWithConfig(client redis.UniversalClient, cfg Config) *Store {
	s := &Store{
		db:        client,
		keyPrefix: cfg.KeyPrefix,
		healthy:   true,
		done:      make(chan struct{}),
	}
	if cfg.HealthcheckInterval > 0 {
		go s.healthLoop(cfg.HealthcheckInterval)
	}
	return s
}

// Get retrieves the record for id. Missing keys yield (nil, nil); Redis
// handles expiry itself, so an expired record is simply gone.
func (s *Store) Get(ctx context.Context, id string) (*session.Record, error) {
	payload, err := s.db.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %q: %w", id, err)
	}

	var rec session.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("redisstore: decode %q: %w", id, err)
	}
	return &rec, nil
}

// Set stores the JSON-encoded record with a TTL taken from the record's
// cookie lifetime. A zero MaxAge stores the record without expiration.
func (s *Store) Set(ctx context.Context, id string, rec *session.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redisstore: encode %q: %w", id, err)
	}

	var ttl time.Duration
	if rec.Cookie.MaxAge > 0 {
		ttl = rec.Cookie.MaxAge
	}
	if err := s.db.Set(ctx, s.key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", id, err)
	}
	return nil
}

// Touch refreshes the key's TTL without rewriting the record. The cookie
// expiry inside the stored payload is not rewritten, so an unchanged
// session past its touch threshold may be touched on consecutive requests
// until its next full save; the TTL itself stays correct. Touching a
// missing key is a no-op.
func (s *Store) Touch(ctx context.Context, id string, rec *session.Record) error {
	if rec.Cookie.MaxAge <= 0 {
		return nil
	}
	if err := s.db.PExpire(ctx, s.key(id), rec.Cookie.MaxAge).Err(); err != nil {
		return fmt.Errorf("redisstore: touch %q: %w", id, err)
	}
	return nil
}

// Destroy removes the record for id. Missing keys are ignored.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.db.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redisstore: destroy %q: %w", id, err)
	}
	return nil
}

// NotifyReadiness registers a readiness subscriber.
func (s *Store) NotifyReadiness(fn func(session.Readiness)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Close stops the health-check loop, if any. The Redis client is owned by
// the caller and stays open.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Store) key(id string) string {
	return s.keyPrefix + id
}

// healthLoop probes Redis on an interval and emits a readiness signal on
// every state change.
func (s *Store) healthLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := Healthcheck(s.db)
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			err := check(ctx)
			cancel()
			s.setHealthy(err == nil)
		case <-s.done:
			return
		}
	}
}

func (s *Store) setHealthy(healthy bool) {
	s.mu.Lock()
	changed := s.healthy != healthy
	s.healthy = healthy
	watchers := slices.Clone(s.watchers)
	s.mu.Unlock()

	if !changed {
		return
	}
	signal := session.Unavailable
	if healthy {
		signal = session.Available
	}
	for _, fn := range watchers {
		fn(signal)
	}
}
