// Package oidc implements the identity provider client for the OAuth2
// authorization code flow, including PKCE and ID token verification.
package oidc

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/autogeral/dashboard-sso/internal/config"
)

// exchangeTimeout bounds the token exchange round-trip. A timeout is
// reported as a network error (the code must not be retried).
const exchangeTimeout = 10 * time.Second

// Provider wraps the OIDC provider and OAuth2 configuration.
// It handles provider discovery, authorization URL construction,
// token exchange, and ID token verification. It holds only immutable
// configuration and is safe for concurrent use.
type Provider struct {
	oidcProvider *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewProvider creates a new identity provider client using the specified
// configuration. It performs OIDC discovery via
// /.well-known/openid-configuration and sets up the OAuth2 configuration
// and ID token verifier.
func NewProvider(ctx context.Context, cfg *config.OAuthConfig) (*Provider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     provider.Endpoint(),
		Scopes:       cfg.Scopes,
	}

	// Verifies token signature, issuer, audience, and expiry
	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	return &Provider{
		oidcProvider: provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
	}, nil
}

// TokenData contains the tokens and identity returned from the provider.
// It is transient: consumed immediately to populate a session.
type TokenData struct {
	// AccessToken is the OAuth2 access token (opaque to this service)
	AccessToken string `json:"-"`

	// Identity holds the name and email decoded from the ID token claims
	Identity Identity

	// Claims are the raw parsed claims from the verified ID token
	Claims map[string]interface{}

	// Expiry is when the access token expires
	Expiry time.Time
}

// ExchangeCode exchanges an authorization code for tokens and decodes the
// identity claims. The ID token is verified (signature, issuer, audience,
// expiry) before returning. On failure the returned error is an
// *ExchangeError whose Kind distinguishes an invalid/used code from
// transport and provider failures; no partial state is persisted.
func (p *Provider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*TokenData, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := p.oauth2Config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, classifyExchangeError(err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, &ExchangeError{Kind: KindProvider, err: fmt.Errorf("no id_token in token response")}
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, &ExchangeError{Kind: KindProvider, err: fmt.Errorf("failed to verify ID token: %w", err)}
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, &ExchangeError{Kind: KindProvider, err: fmt.Errorf("failed to parse claims: %w", err)}
	}

	return &TokenData{
		AccessToken: token.AccessToken,
		Identity:    identityFromClaims(claims),
		Claims:      claims,
		Expiry:      token.Expiry,
	}, nil
}
