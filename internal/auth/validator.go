package auth

import "time"

// Validator verifies token strings against the codec's key material.
// Stateless and safe for concurrent use.
type Validator struct {
	codec *Codec
}

// NewValidator builds a validator over the given codec.
func NewValidator(codec *Codec) *Validator {
	return &Validator{codec: codec}
}

// Verify decodes the token, then checks expiry, then binds the subject to
// the expected principal, in that order. A malformed token never reaches
// the expiry check, and an expired token reports expiry even when the
// subject would not match.
func (v *Validator) Verify(tokenStr, expectedPrincipal string, now time.Time) (*Claims, error) {
	claims, err := v.codec.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		return nil, ErrTokenExpired
	}
	if claims.Subject != expectedPrincipal {
		return nil, ErrSubjectMismatch
	}
	return claims, nil
}

// ExtractSubject decodes the token and returns its subject without checking
// expiry or identity. Used when the expected principal is not yet known,
// such as the refresh flow reading the subject before loading the user.
func (v *Validator) ExtractSubject(tokenStr string) (string, error) {
	claims, err := v.codec.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
