package access

import (
	"github.com/autogeral/dashboard-sso/internal/session"
)

// Decision is the access control verdict for a session/page pair.
type Decision int

const (
	// Allow grants access to the page.
	Allow Decision = iota

	// RedirectToLogin denies because there is no authenticated session.
	RedirectToLogin

	// NoRoleAssigned denies because the session is authenticated but the
	// directory assigned it no role. Surfaced with its own message, never
	// conflated with a login failure.
	NoRoleAssigned

	// Forbidden denies because the session's role is not in the page's
	// role set. Denied silently from the user's perspective; the attempt
	// may be logged.
	Forbidden
)

// String returns the decision's name for logging.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case NoRoleAssigned:
		return "no_role_assigned"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decide evaluates whether sess may open pageID. A nil session or one that
// is not logged in is redirected to login. Every report page requires
// login; public pages are reachable by any authenticated session
// regardless of role, while role-gated pages require membership.
// Unregistered page IDs are always forbidden.
func (t *Table) Decide(sess *session.Session, pageID string) Decision {
	if sess == nil || !sess.LoggedIn {
		return RedirectToLogin
	}

	page := t.Lookup(pageID)
	if page == nil {
		return Forbidden
	}

	if page.Public {
		return Allow
	}

	if !sess.HasRole() {
		return NoRoleAssigned
	}

	if page.allows(sess.Role) {
		return Allow
	}

	return Forbidden
}

// CanAccess reports whether sess may open pageID.
func (t *Table) CanAccess(sess *session.Session, pageID string) bool {
	return t.Decide(sess, pageID) == Allow
}

// VisiblePages filters the registry through CanAccess, preserving registry
// order. The result is what navigation renders; it never contains a page
// the session cannot open.
func (t *Table) VisiblePages(sess *session.Session) []Page {
	var visible []Page
	for _, p := range t.pages {
		if t.CanAccess(sess, p.ID) {
			visible = append(visible, p)
		}
	}
	return visible
}
