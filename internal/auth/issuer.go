package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenPair is the matched access/refresh pair handed to clients.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Issuer produces token pairs. The access token carries the caller's roles
// and a short TTL; the refresh token carries no authorization claims and a
// longer TTL. Stateless and safe for concurrent use.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an issuer. The refresh TTL must exceed the access TTL;
// a refresh token that dies before its access token is useless.
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessTTL <= 0 {
		return nil, fmt.Errorf("access token TTL must be positive, got %s", accessTTL)
	}
	if refreshTTL <= accessTTL {
		return nil, fmt.Errorf("refresh token TTL %s must exceed access token TTL %s", refreshTTL, accessTTL)
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// Issue signs a new token pair for the principal. Both tokens share the
// subject and issue time; only the access token carries roles.
func (i *Issuer) Issue(principal string, roles []string, now time.Time) (*TokenPair, error) {
	accessExpiry := now.Add(i.accessTTL)

	access, err := i.codec.Encode(principal, now, accessExpiry, roles, uuid.NewString())
	if err != nil {
		return nil, err
	}

	refresh, err := i.codec.Encode(principal, now, now.Add(i.refreshTTL), nil, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}
