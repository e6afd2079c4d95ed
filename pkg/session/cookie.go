package session

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Cookie holds the expiry and scope attributes of the session cookie. Every
// Session owns exactly one Cookie; the attributes are persisted alongside
// the session data so a hydrated session keeps the lifetime it was created
// with.
type Cookie struct {
	Path     string        `json:"path,omitempty"`
	Domain   string        `json:"domain,omitempty"`
	Secure   bool          `json:"secure,omitempty"`
	HTTPOnly bool          `json:"http_only,omitempty"`
	SameSite http.SameSite `json:"same_site,omitempty"`

	// MaxAge is the cookie lifetime. Zero means a browser-session cookie
	// with no fixed lifetime, in which case Expires stays unset too.
	MaxAge  time.Duration `json:"max_age,omitempty"`
	Expires time.Time     `json:"expires,omitzero"`
}

// ResetExpires recomputes Expires from MaxAge and the current time. It is a
// no-op for browser-session cookies.
func (c *Cookie) ResetExpires() {
	if c.MaxAge > 0 {
		c.Expires = time.Now().Add(c.MaxAge)
	}
}

// Serialize renders the Set-Cookie header value for the given cookie name
// and value. Only configured attributes appear; a zero MaxAge omits both
// Expires and Max-Age.
func (c *Cookie) Serialize(name, value string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)

	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.MaxAge > 0 {
		if !c.Expires.IsZero() {
			b.WriteString("; Expires=")
			b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
		}
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(int(c.MaxAge.Seconds())))
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	switch c.SameSite {
	case http.SameSiteLaxMode:
		b.WriteString("; SameSite=Lax")
	case http.SameSiteStrictMode:
		b.WriteString("; SameSite=Strict")
	case http.SameSiteNoneMode:
		b.WriteString("; SameSite=None")
	}

	return b.String()
}
