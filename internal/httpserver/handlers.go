package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/autogeral/dashboard-sso/internal/access"
	"github.com/autogeral/dashboard-sso/internal/login"
	"github.com/autogeral/dashboard-sso/internal/session"
)

// handleIndex serves the landing page and the OAuth2 callback.
// The presence of a ?code= query parameter is the callback signal;
// without it the request is either an authenticated visit (navigation)
// or an anonymous one (login prompt).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if code := r.URL.Query().Get("code"); code != "" {
		s.handleCallback(w, r, code)
		return
	}

	if sess := s.currentSession(r); sess != nil {
		s.renderHome(w, sess)
		return
	}

	// Anonymous: build a fresh authorization request and present it.
	authURL, err := s.controller.Begin()
	if err != nil {
		slog.Error("failed to start login flow", "error", err)
		s.renderError(w, "Não foi possível iniciar o login. Tente novamente.")
		return
	}

	s.render(w, http.StatusOK, "login.html", map[string]string{
		"AuthURL": authURL,
	})
}

// handleCallback completes the authorization code flow. The pending flow
// bound to the state parameter is consumed exactly once, so replaying the
// callback (same code, same state) fails before reaching the provider.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request, code string) {
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	slog.Info("callback received",
		"code_present", code != "",
		"state_present", state != "",
		"error_present", errorParam != "",
	)

	if errorParam != "" {
		slog.Error("provider error in callback",
			"error", sanitizeLog(errorParam),
			"description", sanitizeLog(r.URL.Query().Get("error_description")),
		)
		s.renderError(w, "Falha na autenticação. Tente novamente.")
		return
	}

	flow, err := s.sessionMgr.TakeFlow(state)
	if err != nil {
		slog.Error("callback with unknown login flow",
			"state", sanitizeLog(state),
			"error", err,
		)
		s.metrics.LoginsTotal.WithLabelValues(login.AuthFailed.String()).Inc()
		s.renderError(w, "Sessão de login não encontrada ou expirada. Tente novamente.")
		return
	}

	res := s.controller.Complete(r.Context(), code, flow.CodeVerifier)
	s.metrics.LoginsTotal.WithLabelValues(res.Outcome.String()).Inc()

	if res.Outcome == login.AuthFailed {
		s.renderError(w, res.Message)
		return
	}

	// Authenticated or Unauthorized: both carry a session. Redirect to
	// the landing page so the single-use code leaves the address bar.
	s.setSessionCookie(w, res.Session.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout destroys the session. Logging out an already-logged-out
// browser is a no-op; the goodbye page renders either way.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cfg.Session.CookieName); err == nil && cookie.Value != "" {
		s.sessionMgr.Delete(cookie.Value)
	}
	s.clearSessionCookie(w)

	s.render(w, http.StatusOK, "goodbye.html", nil)
}

// handlePage gates report-page dispatch through the access control engine.
// The page body itself is a placeholder: report rendering lives in the
// dashboard services behind this gateway.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	pageID := strings.TrimPrefix(r.URL.Path, "/pages/")
	if pageID == "" || strings.Contains(pageID, "/") {
		http.NotFound(w, r)
		return
	}

	sess := s.currentSession(r)
	decision := s.table.Decide(sess, pageID)

	switch decision {
	case access.Allow:
		page := s.table.Lookup(pageID)
		s.render(w, http.StatusOK, "page.html", map[string]interface{}{
			"Title": page.Title,
			"User":  sess.Name,
			"Role":  sess.Role,
			"Pages": s.table.VisiblePages(sess),
		})

	case access.RedirectToLogin:
		s.metrics.AccessDeniedTotal.WithLabelValues(decision.String()).Inc()
		http.Redirect(w, r, "/", http.StatusFound)

	case access.NoRoleAssigned:
		s.metrics.AccessDeniedTotal.WithLabelValues(decision.String()).Inc()
		s.render(w, http.StatusForbidden, "norole.html", map[string]string{
			"User": sess.Name,
		})

	case access.Forbidden:
		// Deny silently: no page content, no hint which roles would do.
		s.metrics.AccessDeniedTotal.WithLabelValues(decision.String()).Inc()
		slog.Warn("page access denied",
			"page", sanitizeLog(pageID),
			"session_id", sess.ID,
			"role", sanitizeLog(sess.Role),
		)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// renderHome shows the navigation for a logged-in session, or the no-role
// notice when the directory assigned no role.
func (s *Server) renderHome(w http.ResponseWriter, sess *session.Session) {
	if !sess.HasRole() {
		s.render(w, http.StatusOK, "norole.html", map[string]string{
			"User": sess.Name,
		})
		return
	}

	s.render(w, http.StatusOK, "home.html", map[string]interface{}{
		"User":  sess.Name,
		"Role":  sess.Role,
		"Pages": s.table.VisiblePages(sess),
	})
}
