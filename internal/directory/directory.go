// Package directory looks up the business role ("cargo") for an
// authenticated identity in the access directory store.
package directory

import (
	"context"
	"errors"
)

// ErrNotFound signals that the email has no directory record and therefore
// no role assignment. Callers must surface it generically ("no permission")
// and never disclose whether the email exists for any other reason.
var ErrNotFound = errors.New("directory: record not found")

// RoleRecord is a directory entry for a verified email.
type RoleRecord struct {
	Email string
	Name  string
	Role  string
}

// Directory resolves a verified email to its role record.
//
// LookupRole must only be called with the verified email from ID token
// claims, never with a user-supplied value; a spoofed identifier would
// otherwise assign privileges. Implementations are read-only.
type Directory interface {
	LookupRole(ctx context.Context, email string) (*RoleRecord, error)
}
