package oidc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"golang.org/x/oauth2"
)

// ErrorKind classifies token exchange failures so callers branch on
// meaning rather than on error text.
type ErrorKind int

const (
	// KindInvalidGrant means the authorization code was expired, already
	// used, or malformed. User-correctable: restart the flow. The same
	// code must never be retried.
	KindInvalidGrant ErrorKind = iota

	// KindNetwork means the exchange round-trip failed at the transport
	// layer (including timeout). The whole flow may be retried from the
	// beginning, never with the same code.
	KindNetwork

	// KindProvider means the provider returned any other non-2xx response,
	// or the returned tokens failed verification.
	KindProvider
)

// String returns the kind's name for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidGrant:
		return "invalid_grant"
	case KindNetwork:
		return "network_error"
	case KindProvider:
		return "provider_error"
	default:
		return "unknown"
	}
}

// ExchangeError is the error type returned by ExchangeCode.
type ExchangeError struct {
	Kind ErrorKind
	err  error
}

// NewExchangeError builds an ExchangeError with an explicit kind.
// Used by fakes standing in for the provider.
func NewExchangeError(kind ErrorKind, err error) *ExchangeError {
	return &ExchangeError{Kind: kind, err: err}
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed (%s): %v", e.Kind, e.err)
}

func (e *ExchangeError) Unwrap() error {
	return e.err
}

// KindOf returns the exchange error kind of err.
// Errors that are not ExchangeErrors are reported as provider errors.
func KindOf(err error) ErrorKind {
	var ee *ExchangeError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindProvider
}

// classifyExchangeError maps an oauth2 exchange failure onto the closed
// error kinds. A *oauth2.RetrieveError means the provider answered;
// anything else is a transport problem.
func classifyExchangeError(err error) *ExchangeError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode == "invalid_grant" {
			return &ExchangeError{Kind: KindInvalidGrant, err: err}
		}
		return &ExchangeError{Kind: KindProvider, err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &urlErr),
		errors.As(err, &netErr):
		return &ExchangeError{Kind: KindNetwork, err: err}
	}

	return &ExchangeError{Kind: KindProvider, err: err}
}
