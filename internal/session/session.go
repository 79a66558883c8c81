// Package session provides the server-side session store for authenticated
// dashboard users and the pending-flow store for in-flight logins.
package session

import (
	"time"
)

// Session correlates an authenticated identity, its role, and its access
// token for the duration of a user's interaction.
//
// Invariant: LoggedIn implies non-empty Name, Email, and AccessToken.
// Role may be empty, in which case the user is authenticated but has no
// permission on any role-gated page.
type Session struct {
	// ID is a unique identifier for this session (64-char hex string),
	// carried by the browser in the session cookie.
	ID string

	// Name is the user's display name from the ID token claims
	Name string

	// Email is the verified email from the ID token claims
	Email string

	// AccessToken is the provider access token (opaque to this service)
	AccessToken string

	// Role is the business role ("cargo") from the directory lookup.
	// Empty means authenticated but unauthorized.
	Role string

	// LoggedIn is true once both identity and role enrichment completed
	LoggedIn bool

	// CreatedAt is when this session was created
	CreatedAt time.Time

	// ExpiresAt is when this session will expire
	ExpiresAt time.Time
}

// HasRole reports whether the session carries a business role.
func (s *Session) HasRole() bool {
	return s != nil && s.Role != ""
}

// PendingFlow is an in-flight login attempt: the state parameter sent to
// the provider and the PKCE verifier needed to finish the exchange.
// A flow is taken exactly once; it never outlives the callback.
type PendingFlow struct {
	// State is the OAuth2 state parameter bound to this attempt
	State string

	// CodeVerifier is the PKCE code verifier for the token exchange
	CodeVerifier string

	// CreatedAt is when the flow was started
	CreatedAt time.Time

	// ExpiresAt is when the flow expires if no callback arrives
	ExpiresAt time.Time
}
