package oidc

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/oauth2"
)

// AuthFlowData contains the data needed to initiate an authorization flow.
// It is recomputed per anonymous visit and never persisted beyond the
// pending-flow store.
type AuthFlowData struct {
	// State is the OAuth2 state parameter for CSRF protection
	State string

	// CodeVerifier is the PKCE code verifier (must be stored for token exchange)
	CodeVerifier string

	// AuthURL is the complete authorization URL to redirect the user to
	AuthURL string
}

// StartAuthFlow initiates an authorization flow with PKCE.
// It generates the PKCE verifier/challenge and state parameter,
// constructs the authorization URL, and returns the flow data.
// No network call is made; the URL is deterministic given the
// configuration and generated parameters.
func (p *Provider) StartAuthFlow() (*AuthFlowData, error) {
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}

	challenge := generateCodeChallenge(verifier)

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	authURL := p.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return &AuthFlowData{
		State:        state,
		CodeVerifier: verifier,
		AuthURL:      authURL,
	}, nil
}

// generateCodeVerifier creates a cryptographically random PKCE code verifier.
// The verifier is 32 random bytes encoded as base64url (43 characters).
// Per RFC 7636, the verifier must be 43-128 characters.
func generateCodeVerifier() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generateCodeChallenge creates a PKCE code challenge from the verifier.
// It uses the S256 method: BASE64URL(SHA256(ASCII(verifier)))
func generateCodeChallenge(verifier string) string {
	h := sha256.New()
	h.Write([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// generateState creates a random state parameter for CSRF protection.
// The state is 16 random bytes encoded as hex (32 characters).
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
