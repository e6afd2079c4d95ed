package session

import (
	"log/slog"
	"net/http"
	"sync"
)

// Middleware resolves or creates a session for every request and installs
// the one-shot finalization guard on the response. The guard runs Commit to
// completion before the first byte of the response leaves the process;
// any further finalization attempt is absorbed silently. Requests are
// passed through untouched when a session is already bound (double
// wrapping) or while the store reports itself unavailable.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := holderFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if !m.ready.Load() {
			next.ServeHTTP(w, r)
			return
		}

		rec, id, err := m.resolve(r)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		h := &holder{}
		fw := &finalizeWriter{ResponseWriter: w}
		sess := newSession(m, fw, id, rec)
		sess.detach = func() { h.s = nil }
		h.s = sess

		fw.finalize = func() {
			if !m.config.AutoCommit {
				return
			}
			s := h.s
			if s == nil {
				return
			}
			if err := s.Commit(r.Context()); err != nil {
				// The response is past the point of reporting this to the
				// client; the client keeps an identifier the store may not
				// satisfy next time.
				m.logger.ErrorContext(r.Context(), "session commit failed",
					slog.String("session_id", s.ID()),
					slog.Any("error", err),
				)
			}
		}

		next.ServeHTTP(fw, r.WithContext(withHolder(r.Context(), h)))

		// Handlers that never wrote still finalize here, so a new session's
		// cookie makes it onto the implicit 200.
		fw.Finalize()
	})
}

// finalizeWriter wraps the response so the commit decision runs exactly
// once, before the first header write. It also answers whether headers are
// already on the wire, which is what gates late cookie emission.
type finalizeWriter struct {
	http.ResponseWriter
	finalize    func()
	once        sync.Once
	wroteHeader bool
}

// Finalize runs the commit hook at most once.
func (w *finalizeWriter) Finalize() {
	w.once.Do(w.finalize)
}

func (w *finalizeWriter) WriteHeader(code int) {
	// Commit fully resolves before the header leaves; no response is
	// flushed while a session write is in flight.
	w.Finalize()
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *finalizeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// HeaderWritten reports whether the status line and headers were sent.
func (w *finalizeWriter) HeaderWritten() bool {
	return w.wroteHeader
}

func (w *finalizeWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap supports http.ResponseController.
func (w *finalizeWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
