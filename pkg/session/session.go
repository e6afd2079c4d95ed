package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// reserved keys never stored in session data
const cookieKey = "cookie"

// responseState is the narrow view of the response boundary a Session
// needs: header access and whether headers already left the process.
type responseState interface {
	Header() http.Header
	HeaderWritten() bool
}

// Session is the per-request mutable state container. It owns its Cookie
// and holds non-owning references to the store and the response for the
// duration of one request. Sessions are not safe for concurrent use; each
// request gets its own instance.
type Session struct {
	id       string
	cookie   *Cookie
	isNew    bool
	data     map[string]any
	snapshot []byte

	mgr *Manager
	rw  responseState

	// detach clears the request's reference to this session; set by the
	// middleware, nil when the session is used standalone.
	detach func()

	saved     bool
	touched   bool
	destroyed bool
}

func newSession(mgr *Manager, rw responseState, id string, rec *Record) *Session {
	s := &Session{mgr: mgr, rw: rw}

	if rec != nil {
		s.id = id
		s.data = rec.Data
		if s.data == nil {
			s.data = make(map[string]any)
		}
		ck := rec.Cookie
		s.cookie = &ck
	} else {
		s.id = mgr.genID()
		s.isNew = true
		s.data = make(map[string]any)
		ck := mgr.config.cookie()
		s.cookie = &ck
		s.cookie.ResetExpires()
	}

	// Snapshot before any application mutation; cookie attributes live
	// outside data and never participate in the dirty-check.
	s.snapshot = marshalData(s.data)

	return s
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether no prior record was found for the resolved
// identifier. Fixed at construction.
func (s *Session) IsNew() bool {
	return s.isNew
}

// Cookie returns the session's owned cookie attributes. Mutating them
// affects the next emitted Set-Cookie header but never the dirty-check.
func (s *Session) Cookie() *Cookie {
	return s.cookie
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.data == nil {
		return nil, false
	}
	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from session data. Values hydrated from a
// JSON-backed store arrive as float64 and are converted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data. The reserved "cookie" key is
// silently dropped; cookie metadata is not data.
func (s *Session) Set(key string, value any) {
	if s == nil || key == cookieKey {
		return
	}
	if s.data == nil {
		s.data = make(map[string]any)
	}
	s.data[key] = value
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.data == nil {
		return
	}
	delete(s.data, key)
}

// Clear removes all data from the session.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.data = make(map[string]any)
}

// Keys returns the keys currently present in session data.
func (s *Session) Keys() []string {
	if s == nil || len(s.data) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Saved reports whether Commit performed a full save for this request.
func (s *Session) Saved() bool {
	return s.saved
}

// Touched reports whether Commit performed a TTL refresh for this request.
func (s *Session) Touched() bool {
	return s.touched
}

// Touch resets the cookie expiry and, when the bound store supports it,
// delegates the TTL refresh to the store. Stores without touch support
// resolve as a successful no-op.
func (s *Session) Touch(ctx context.Context) error {
	s.cookie.ResetExpires()
	if ts, ok := s.mgr.store.(TouchStore); ok {
		return ts.Touch(ctx, s.id, s.record())
	}
	return nil
}

// Save resets the cookie expiry and writes the full record to the store.
// This is the canonical persistence path for any data mutation.
func (s *Session) Save(ctx context.Context) error {
	s.cookie.ResetExpires()
	return s.mgr.store.Set(ctx, s.id, s.record())
}

// Destroy detaches the session from its request, so later context lookups
// observe no session, and removes the record from the store. A destroyed
// session is inert: Commit becomes a no-op.
func (s *Session) Destroy(ctx context.Context) error {
	s.destroyed = true
	if s.detach != nil {
		s.detach()
	}
	return s.mgr.store.Destroy(ctx, s.id)
}

// Commit runs the per-request persistence decision. It saves when the data
// changed since construction, otherwise touches when the cookie lifetime
// consumed since the last refresh crossed the touch threshold, and emits
// the identifier cookie for new sessions and for touched sessions under
// the rolling policy. The middleware invokes it exactly once at response
// finalization; with AutoCommit disabled, application code calls it
// directly.
func (s *Session) Commit(ctx context.Context) error {
	if s.destroyed {
		return nil
	}

	shouldSave := !bytes.Equal(marshalData(s.data), s.snapshot)

	switch {
	case shouldSave:
		if err := s.Save(ctx); err != nil {
			return err
		}
		s.saved = true
	case s.shouldTouch():
		if err := s.Touch(ctx); err != nil {
			return err
		}
		s.touched = true
	}

	if (s.mgr.config.Rolling && s.touched) || s.isNew {
		s.emitCookie()
	}

	return nil
}

// shouldTouch reports whether enough of the cookie lifetime has been
// consumed since the last refresh to justify a TTL-only store write:
// MaxAge - time-remaining >= TouchAfter. A negative TouchAfter disables
// touching entirely; zero touches on every request.
func (s *Session) shouldTouch() bool {
	c := s.cookie
	if c.MaxAge <= 0 || c.Expires.IsZero() {
		return false
	}
	if s.mgr.config.TouchAfter < 0 {
		return false
	}
	return c.MaxAge-time.Until(c.Expires) >= s.mgr.config.TouchAfter
}

// emitCookie sets the Set-Cookie header unless the response headers are
// already on the wire, in which case it skips silently.
func (s *Session) emitCookie() {
	if s.rw == nil || s.rw.HeaderWritten() {
		return
	}
	value := s.mgr.codec.Encode(s.id)
	s.rw.Header().Add("Set-Cookie", s.cookie.Serialize(s.mgr.config.CookieName, value))
}

func (s *Session) record() *Record {
	return &Record{Data: s.data, Cookie: *s.cookie}
}

// marshalData serializes session data for snapshot comparison and ignores
// marshal failures: values that cannot be serialized cannot be persisted
// either, so they never count as dirty.
func marshalData(data map[string]any) []byte {
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return b
}
