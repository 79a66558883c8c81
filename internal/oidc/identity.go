package oidc

// Placeholder values used when a claim is syntactically present but
// semantically empty. An empty name must not produce an empty session
// field, and an empty email must still flow into the role lookup (where
// it will simply not be found).
const (
	placeholderName  = "Usuário"
	placeholderEmail = "Email não encontrado"
)

// Identity is the authenticated identity decoded from ID token claims.
type Identity struct {
	// Name is the display name from the "name" claim
	Name string

	// Email is the verified email from "preferred_username" (falling back
	// to "email"). This is the only value the role directory may be keyed by.
	Email string
}

// identityFromClaims extracts the display name and email from verified
// ID token claims. Missing or empty claims fall back to explicit
// placeholders rather than empty strings.
func identityFromClaims(claims map[string]interface{}) Identity {
	name := stringClaim(claims, "name")
	if name == "" {
		name = placeholderName
	}

	email := stringClaim(claims, "preferred_username")
	if email == "" {
		email = stringClaim(claims, "email")
	}
	if email == "" {
		email = placeholderEmail
	}

	return Identity{Name: name, Email: email}
}

// stringClaim returns the claim as a string, or "" when absent or not a string.
func stringClaim(claims map[string]interface{}, key string) string {
	v, ok := claims[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
