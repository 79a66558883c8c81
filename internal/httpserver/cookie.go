package httpserver

import (
	"net/http"

	"github.com/autogeral/dashboard-sso/internal/session"
)

// currentSession resolves the request's session cookie against the store.
// Returns nil for anonymous requests and for expired or unknown sessions.
func (s *Server) currentSession(r *http.Request) *session.Session {
	cookie, err := r.Cookie(s.cfg.Session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, err := s.sessionMgr.Get(cookie.Value)
	if err != nil {
		return nil
	}
	return sess
}

// setSessionCookie binds the session to the browser.
func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   s.cfg.Session.Timeout,
		HttpOnly: true,
		Secure:   s.cfg.TLS.Enabled,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie from the browser.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.TLS.Enabled,
		SameSite: http.SameSiteLaxMode,
	})
}
