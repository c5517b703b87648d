package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims describes the signed JWT payload. Roles appear only on access
// tokens; refresh tokens carry registered claims alone.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes signed token strings using the process key
// material. Decode verifies structure and signature only; expiry is the
// caller's check, because the refresh flow needs claims from tokens it has
// not yet gated on expiry.
type Codec struct {
	keys *KeyMaterial
}

// NewCodec builds a codec over the given key material.
func NewCodec(keys *KeyMaterial) *Codec {
	return &Codec{keys: keys}
}

// Encode serializes and signs claims into the compact token wire format.
func (c *Codec) Encode(subject string, issuedAt, expiresAt time.Time, roles []string, jti string) (string, error) {
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(c.keys.method, claims)
	signed, err := token.SignedString(c.keys.signKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode parses a token string and verifies its signature. An expired but
// otherwise valid token decodes successfully.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.keys.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return c.keys.verifyKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
