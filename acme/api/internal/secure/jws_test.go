package secure

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustECKey(t *testing.T, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

func TestJWS_SignContent_JWKMode(t *testing.T) {
	key := mustECKey(t, elliptic.P256())
	j := NewJWS(key, "")

	sig, err := j.SignContent("https://example.com/acme/new-order", "nonce-1", []byte(`{"identifiers":[]}`))
	require.NoError(t, err)

	serialized := sig.FullSerialize()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(serialized), &envelope))
	assert.NotEmpty(t, envelope["protected"])
	assert.NotEmpty(t, envelope["signature"])
}

func TestJWS_SignContent_EmptyPayloadForPostAsGet(t *testing.T) {
	key := mustECKey(t, elliptic.P256())
	j := NewJWS(key, "https://example.com/acme/acct/1")

	sig, err := j.SignContent("https://example.com/acme/order/1", "nonce-1", []byte{})
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(sig.FullSerialize()), &envelope))
	assert.Equal(t, "", envelope["payload"])
}

func TestJWS_SignContent_EmbedsNonceHeader(t *testing.T) {
	key := mustECKey(t, elliptic.P256())
	j := NewJWS(key, "")

	sig, err := j.SignContent("https://example.com/acme/new-order", "the-nonce", []byte(`{}`))
	require.NoError(t, err)

	protected, err := base64URLDecodeSegment(sig.FullSerialize())
	require.NoError(t, err)
	assert.Contains(t, string(protected), `"nonce":"the-nonce"`)
}

func TestJWS_SetKID_SwitchesToKIDMode(t *testing.T) {
	key := mustECKey(t, elliptic.P256())
	j := NewJWS(key, "")
	assert.Empty(t, j.KID())

	j.SetKID("https://example.com/acme/acct/7")
	assert.Equal(t, "https://example.com/acme/acct/7", j.KID())
}

func TestJWS_SignContent_P384(t *testing.T) {
	key := mustECKey(t, elliptic.P384())
	j := NewJWS(key, "")

	_, err := j.SignContent("https://example.com/acme/new-order", "nonce-1", []byte(`{}`))
	require.NoError(t, err)
}

func TestJWS_SignContent_UnsupportedCurve(t *testing.T) {
	key := mustECKey(t, elliptic.P224())
	j := NewJWS(key, "")

	_, err := j.SignContent("https://example.com/acme/new-order", "nonce-1", []byte(`{}`))
	assert.Error(t, err)
}

func TestJWS_SignContent_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	j := NewJWS(key, "")
	_, err = j.SignContent("https://example.com/acme/new-order", "nonce-1", []byte(`{}`))
	require.NoError(t, err)
}

func TestJWS_GetKeyAuthorization(t *testing.T) {
	key := mustECKey(t, elliptic.P256())
	j := NewJWS(key, "")

	ka1, err := j.GetKeyAuthorization("token-abc")
	require.NoError(t, err)
	assert.Contains(t, ka1, "token-abc.")

	ka2, err := j.GetKeyAuthorization("token-abc")
	require.NoError(t, err)
	assert.Equal(t, ka1, ka2, "thumbprint must be stable across calls for the same key")
}

func TestJWS_GetKeyAuthorization_DifferentTokensDifferentPrefix(t *testing.T) {
	key := mustECKey(t, elliptic.P256())
	j := NewJWS(key, "")

	ka1, err := j.GetKeyAuthorization("token-a")
	require.NoError(t, err)
	ka2, err := j.GetKeyAuthorization("token-b")
	require.NoError(t, err)

	assert.NotEqual(t, ka1, ka2)

	thumb1 := ka1[len("token-a."):]
	thumb2 := ka2[len("token-b."):]
	assert.Equal(t, thumb1, thumb2, "thumbprint suffix depends only on the key")
}

// base64URLDecodeSegment pulls the "protected" field out of a flattened
// JWS FullSerialize and base64url-decodes it, so the test can assert on
// the header set without pulling in a full JOSE parser.
func base64URLDecodeSegment(serialized string) ([]byte, error) {
	var envelope struct {
		Protected string `json:"protected"`
	}
	if err := json.Unmarshal([]byte(serialized), &envelope); err != nil {
		return nil, err
	}
	return base64.RawURLEncoding.DecodeString(envelope.Protected)
}
