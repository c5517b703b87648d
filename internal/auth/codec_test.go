package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/config"
)

func testNow() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	keys, err := NewKeyMaterial(config.AuthConfig{
		SigningAlgorithm: config.AlgorithmHS256,
		JWTSecret:        "codec-test-secret",
	})
	require.NoError(t, err)
	return NewCodec(keys)
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	now := testNow()

	token, err := codec.Encode("a@x.com", now, now.Add(time.Hour), []string{"USER"}, "jti-1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, []string{"USER"}, claims.Roles)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestCodecDecodeIsIdempotent(t *testing.T) {
	codec := newTestCodec(t)
	now := testNow()

	token, err := codec.Encode("a@x.com", now, now.Add(time.Hour), []string{"USER", "ADMIN"}, "jti-1")
	require.NoError(t, err)

	first, err := codec.Decode(token)
	require.NoError(t, err)
	second, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCodecDecodeExpiredTokenSucceeds(t *testing.T) {
	// Expiry is the validator's check; decode must still yield claims so
	// the refresh flow can read the subject of an aged token.
	codec := newTestCodec(t)
	now := testNow()

	token, err := codec.Encode("a@x.com", now.Add(-2*time.Hour), now.Add(-time.Hour), nil, "jti-1")
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
}

func TestCodecDecodeMalformed(t *testing.T) {
	codec := newTestCodec(t)

	for _, tokenStr := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", tokenStr)
	}
}

func TestCodecDecodeTamperedPayload(t *testing.T) {
	codec := newTestCodec(t)
	now := testNow()

	token, err := codec.Encode("a@x.com", now, now.Add(time.Hour), []string{"USER"}, "jti-1")
	require.NoError(t, err)
	other, err := codec.Encode("b@x.com", now, now.Add(time.Hour), []string{"ADMIN"}, "jti-2")
	require.NoError(t, err)

	// Graft the other token's payload onto the original signature. The
	// structure stays parseable, so the failure must be the signature.
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestCodecRejectsForeignKey(t *testing.T) {
	codec := newTestCodec(t)

	otherKeys, err := NewKeyMaterial(config.AuthConfig{
		SigningAlgorithm: config.AlgorithmHS256,
		JWTSecret:        "a-different-secret",
	})
	require.NoError(t, err)
	foreign := NewCodec(otherKeys)

	now := testNow()
	token, err := foreign.Encode("a@x.com", now, now.Add(time.Hour), nil, "jti-1")
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestCodecRejectsWrongSigningMethod(t *testing.T) {
	hmacCodec := newTestCodec(t)

	rsaKeys, err := NewKeyMaterial(config.AuthConfig{SigningAlgorithm: config.AlgorithmRS256})
	require.NoError(t, err)
	rsaCodec := NewCodec(rsaKeys)

	now := testNow()
	token, err := hmacCodec.Encode("a@x.com", now, now.Add(time.Hour), nil, "jti-1")
	require.NoError(t, err)

	_, err = rsaCodec.Decode(token)
	assert.Error(t, err)
}
