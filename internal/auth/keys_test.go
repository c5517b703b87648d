package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/config"
)

func TestNewKeyMaterial(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantAlg string
		wantErr bool
	}{
		{
			name:    "HMAC secret",
			cfg:     config.AuthConfig{SigningAlgorithm: config.AlgorithmHS256, JWTSecret: "test-secret"},
			wantAlg: "HS256",
		},
		{
			name:    "generated RSA pair",
			cfg:     config.AuthConfig{SigningAlgorithm: config.AlgorithmRS256},
			wantAlg: "RS256",
		},
		{
			name:    "empty HMAC secret",
			cfg:     config.AuthConfig{SigningAlgorithm: config.AlgorithmHS256},
			wantErr: true,
		},
		{
			name:    "unsupported algorithm",
			cfg:     config.AuthConfig{SigningAlgorithm: "ES512"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := NewKeyMaterial(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlg, keys.Method().Alg())
		})
	}
}

func TestKeyMaterialRSAVerifiesOwnSignatures(t *testing.T) {
	keys, err := NewKeyMaterial(config.AuthConfig{SigningAlgorithm: config.AlgorithmRS256})
	require.NoError(t, err)
	require.Equal(t, jwt.SigningMethodRS256, keys.Method())

	codec := NewCodec(keys)
	token, err := codec.Encode("a@x.com", testNow(), testNow().Add(time.Hour), nil, "jti-1")
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
}
