package session

import (
	"net/http"
	"strings"
	"time"
)

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	CookiePath     string `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`

	// CookieSameSite is one of "lax", "strict" or "none"
	CookieSameSite string `env:"SESSION_COOKIE_SAME_SITE" envDefault:"lax"`

	// MaxAge is the cookie and record lifetime; zero issues a
	// browser-session cookie with no fixed lifetime
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`

	// TouchAfter is the minimum consumed cookie lifetime before a
	// TTL-refreshing store write is issued for an otherwise unchanged
	// session. Zero touches on every request, a negative value never
	// touches.
	TouchAfter time.Duration `env:"SESSION_TOUCH_AFTER" envDefault:"0s"`

	// Rolling re-emits the identifier cookie with a refreshed expiry on
	// every touched request, not only at session creation
	Rolling bool `env:"SESSION_ROLLING" envDefault:"false"`

	// AutoCommit runs Commit automatically at response finalization; when
	// disabled, application code calls Session.Commit itself
	AutoCommit bool `env:"SESSION_AUTO_COMMIT" envDefault:"true"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:     "sid",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: "lax",
		MaxAge:         24 * time.Hour,
		TouchAfter:     0,
		Rolling:        false,
		AutoCommit:     true,
	}
}

// cookie builds the default cookie attributes for a fresh session.
func (c Config) cookie() Cookie {
	return Cookie{
		Path:     c.CookiePath,
		Domain:   c.CookieDomain,
		Secure:   c.CookieSecure,
		HTTPOnly: c.CookieHTTPOnly,
		SameSite: parseSameSite(c.CookieSameSite),
		MaxAge:   c.MaxAge,
	}
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{WithConfig(cfg)}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
