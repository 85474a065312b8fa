package jwtx

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the smallest HS256 key we accept. Anything shorter than
// the hash output weakens the MAC, so startup refuses it outright.
const MinKeyBytes = 32

// Verifier validates a JWT and returns its claims when the signature and
// structure check out. Expiry is the caller's explicit next step.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// KeyFromBase64 decodes the shared HS256 secret from its base64 form.
// The key is loaded once at startup and treated as immutable afterwards.
func KeyFromBase64(secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64: %w", ErrBadKey, err)
	}
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrBadKey, MinKeyBytes, len(key))
	}
	return key, nil
}

// HS256Signer signs access tokens with a shared secret. The key is never
// mutated after construction, so concurrent Sign calls need no locking.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 creates an HS256 signer from a decoded key.
func NewSignerHS256(key []byte) (*HS256Signer, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrBadKey
	}
	return &HS256Signer{key: key}, nil
}

// Alg reports the JWA algorithm name.
func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign produces a compact serialized JWT for the given claims.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// HS256Verifier validates JWTs signed with the shared secret.
//
// Verify checks structure, algorithm, signature, and issuer only. Expired
// tokens still verify; callers run Claims.ValidateExpiry themselves so
// transports can tell an expired token apart from a forged one.
type HS256Verifier struct {
	key    []byte
	issuer string
}

// NewVerifierHS256 creates a verifier for the decoded key. An empty
// issuer disables issuer enforcement.
func NewVerifierHS256(key []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{key: key, issuer: issuer}
}

// Verify validates the JWT string and returns its parsed claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// Covers rejected signing methods from WithValidMethods.
		return fmt.Errorf("%w: %w", ErrAlgMismatch, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
