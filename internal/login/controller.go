// Package login orchestrates the login flow: it drives the provider
// exchange, enriches the identity with its business role, and finalizes
// or rejects the session.
package login

import (
	"context"
	"errors"
	"log/slog"

	"github.com/autogeral/dashboard-sso/internal/directory"
	"github.com/autogeral/dashboard-sso/internal/oidc"
	"github.com/autogeral/dashboard-sso/internal/session"
)

// Exchanger is the identity provider surface the controller depends on.
// *oidc.Provider satisfies it; tests substitute fakes.
type Exchanger interface {
	StartAuthFlow() (*oidc.AuthFlowData, error)
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*oidc.TokenData, error)
}

// Outcome is the terminal state of one login attempt.
type Outcome int

const (
	// Authenticated: token exchange and role enrichment both succeeded;
	// a session was written.
	Authenticated Outcome = iota

	// Unauthorized: the identity is valid but the directory has no role
	// for it. A session exists with an empty role so the user sees the
	// no-role notice instead of a login failure.
	Unauthorized

	// AuthFailed: the token exchange failed. No session exists; the flow
	// may be restarted from the beginning with a fresh code.
	AuthFailed
)

// String returns the outcome's name for logging and metrics.
func (o Outcome) String() string {
	switch o {
	case Authenticated:
		return "authenticated"
	case Unauthorized:
		return "unauthorized"
	case AuthFailed:
		return "auth_failed"
	default:
		return "unknown"
	}
}

// Result describes how a login attempt ended. Session is set for
// Authenticated and Unauthorized outcomes. Message is safe to show the
// user: it never discloses whether an email exists in the directory.
type Result struct {
	Outcome Outcome
	Session *session.Session
	Message string
}

// Controller drives the login state machine. Its only mutation is the
// session write on success; the provider and directory are read-only
// collaborators.
type Controller struct {
	provider  Exchanger
	directory directory.Directory
	sessions  *session.Manager
}

// NewController wires the login flow's collaborators together.
func NewController(provider Exchanger, dir directory.Directory, sessions *session.Manager) *Controller {
	return &Controller{
		provider:  provider,
		directory: dir,
		sessions:  sessions,
	}
}

// Begin starts a login attempt for an anonymous visit: it builds the
// authorization URL and records the pending flow so the callback can
// complete the exchange. Self-contained per visit; no session exists yet.
func (c *Controller) Begin() (authURL string, err error) {
	flow, err := c.provider.StartAuthFlow()
	if err != nil {
		return "", err
	}

	c.sessions.BeginFlow(flow.State, flow.CodeVerifier)
	return flow.AuthURL, nil
}

// Complete finishes a login attempt when the callback carries an
// authorization code. It exchanges the code, looks up the role for the
// verified email, and writes the session. Failures are converted into
// outcomes here; raw transport errors never propagate past this boundary.
//
// The code is single-use: nothing in this method retries it, and the
// pending flow was already consumed by the caller, so re-submitting the
// same callback fails before reaching the provider.
func (c *Controller) Complete(ctx context.Context, code, codeVerifier string) Result {
	tok, err := c.provider.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		kind := oidc.KindOf(err)
		slog.Error("token exchange failed",
			"kind", kind.String(),
			"error", err,
		)
		return Result{
			Outcome: AuthFailed,
			Message: "Falha na autenticação. Tente novamente.",
		}
	}

	rec, lookupErr := c.directory.LookupRole(ctx, tok.Identity.Email)
	if lookupErr != nil && !errors.Is(lookupErr, directory.ErrNotFound) {
		// A directory outage is not the user's fault, but the generic
		// message must not differ from the not-found one.
		slog.Error("role lookup failed", "error", lookupErr)
		return Result{
			Outcome: AuthFailed,
			Message: "Falha na autenticação. Tente novamente.",
		}
	}

	name := tok.Identity.Name
	role := ""
	if rec != nil {
		role = rec.Role
		// The directory's display name wins over the token claim.
		if rec.Name != "" {
			name = rec.Name
		}
	}

	sess, err := c.sessions.Create(name, tok.Identity.Email, tok.AccessToken, role)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		return Result{
			Outcome: AuthFailed,
			Message: "Falha na autenticação. Tente novamente.",
		}
	}

	if role == "" {
		slog.Warn("authenticated identity has no role assignment",
			"session_id", sess.ID,
		)
		return Result{
			Outcome: Unauthorized,
			Session: sess,
			Message: "Seu perfil não possui cargo definido. Entre em contato com o suporte.",
		}
	}

	slog.Info("user authenticated",
		"session_id", sess.ID,
		"role", role,
	)
	return Result{
		Outcome: Authenticated,
		Session: sess,
		Message: "Bem-vindo, " + name + "!",
	}
}
