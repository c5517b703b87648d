package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/auth-service/internal/config"
)

const rsaKeyBits = 2048

// KeyMaterial holds the signing and verification keys for the process
// lifetime. It is immutable after construction and safe for unrestricted
// concurrent use. Private material never leaves this struct: it is not
// logged and not serialized into tokens.
type KeyMaterial struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// NewKeyMaterial builds key material for the configured algorithm: an HMAC
// secret for HS256, or a freshly generated RSA-2048 key pair for RS256.
// Failure here is fatal at startup; the service cannot run without keys.
func NewKeyMaterial(cfg config.AuthConfig) (*KeyMaterial, error) {
	switch cfg.SigningAlgorithm {
	case config.AlgorithmHS256:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("generate key material: empty HMAC secret")
		}
		secret := []byte(cfg.JWTSecret)
		return &KeyMaterial{
			method:    jwt.SigningMethodHS256,
			signKey:   secret,
			verifyKey: secret,
		}, nil
	case config.AlgorithmRS256:
		key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
		if err != nil {
			return nil, fmt.Errorf("generate key material: %w", err)
		}
		return &KeyMaterial{
			method:    jwt.SigningMethodRS256,
			signKey:   key,
			verifyKey: &key.PublicKey,
		}, nil
	default:
		return nil, fmt.Errorf("generate key material: unsupported algorithm %q", cfg.SigningAlgorithm)
	}
}

// Method returns the JWT signing method in use.
func (k *KeyMaterial) Method() jwt.SigningMethod {
	return k.method
}
