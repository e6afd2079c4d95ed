package session

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets the session store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLegacyStore adapts a callback-shaped store into the asynchronous
// contract and uses it as the session store.
func WithLegacyStore(store CallbackStore) Option {
	return func(m *Manager) {
		adapted, _ := Adapt(store)
		m.store = adapted
	}
}

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithMaxAge sets the cookie and record lifetime.
func WithMaxAge(maxAge time.Duration) Option {
	return func(m *Manager) {
		m.config.MaxAge = maxAge
	}
}

// WithTouchAfter sets the minimum consumed lifetime before a TTL-refresh
// write. Negative disables touching, zero touches every request.
func WithTouchAfter(threshold time.Duration) Option {
	return func(m *Manager) {
		m.config.TouchAfter = threshold
	}
}

// WithRolling toggles re-emission of the identifier cookie on touched
// requests.
func WithRolling(rolling bool) Option {
	return func(m *Manager) {
		m.config.Rolling = rolling
	}
}

// WithAutoCommit toggles the automatic Commit at response finalization.
func WithAutoCommit(auto bool) Option {
	return func(m *Manager) {
		m.config.AutoCommit = auto
	}
}

// WithGenID sets the identifier generator for new sessions.
func WithGenID(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.genID = fn
		}
	}
}

// WithCodec sets the identifier encode/decode transform, e.g. a signed
// codec from NewSignedCodec.
func WithCodec(codec Codec) Option {
	return func(m *Manager) {
		if codec != nil {
			m.codec = codec
		}
	}
}

// WithLogger sets the logger used for commit failures that can no longer
// reach the client.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithErrorHandler sets the handler invoked when session resolution fails
// before the application handler ran. Defaults to a plain 500.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.errorHandler = fn
		}
	}
}
