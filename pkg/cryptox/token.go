package cryptox

import "github.com/google/uuid"

// NewSessionToken returns the opaque value handed to clients as their
// refresh token. UUIDv4 gives 122 bits of entropy, which keeps the value
// unguessable while staying readable in logs and debuggers.
func NewSessionToken() string {
	return uuid.NewString()
}

// ValidSessionToken reports whether s has the shape of a session token.
// Used to reject junk before it reaches the store.
func ValidSessionToken(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
