// Package secure implements the JwsSigner: it produces the
// canonical ACME flattened-JSON JWS envelope over go-jose, and owns the
// account's JWK-to-KID transition.
package secure

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"sync"

	jose "github.com/go-jose/go-jose/v3"
)

// JWS signs outgoing requests for a single account key. Before the
// account's KID is known, it embeds the public JWK in every envelope;
// once SetKID has been called, it switches to KID form permanently —
// the transition happens exactly once.
type JWS struct {
	privateKey crypto.PrivateKey

	mu  sync.RWMutex
	kid string
}

// NewJWS builds a signer for privateKey. kid may be empty, meaning the
// account has not yet been registered (JWK-mode).
func NewJWS(privateKey crypto.PrivateKey, kid string) *JWS {
	return &JWS{privateKey: privateKey, kid: kid}
}

// SetKID flips the signer to KID-mode. Safe to call concurrently with
// SignContent; once set, every subsequent signature uses kid instead of
// jwk.
func (j *JWS) SetKID(kid string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.kid = kid
}

// KID returns the currently configured key ID, or "" if still in
// JWK-mode.
func (j *JWS) KID() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.kid
}

// SignContent produces a flattened JWS envelope over content, with
// protected headers "alg", "nonce", "url" and exactly one of "jwk"/"kid".
// A zero-length content produces payload:"" (POST-as-GET). nonce is
// embedded as a plain protected header rather than via jose.NonceSource,
// so the caller controls exactly how (and with what context) it was
// obtained instead of leaving that to go-jose's signing internals.
func (j *JWS) SignContent(url, nonce string, content []byte) (*jose.JSONWebSignature, error) {
	alg, err := signatureAlgorithm(j.privateKey)
	if err != nil {
		return nil, err
	}

	kid := j.KID()

	opts := &jose.SignerOptions{}
	opts.WithHeader("url", url)
	opts.WithHeader("nonce", nonce)
	if kid == "" {
		opts.EmbedJWK = true
	} else {
		opts.EmbedJWK = false
		opts.WithHeader("kid", kid)
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: alg, Key: j.privateKey}, opts)
	if err != nil {
		return nil, fmt.Errorf("secure: failed to create jose signer: %w", err)
	}

	signed, err := signer.Sign(content)
	if err != nil {
		return nil, fmt.Errorf("secure: failed to sign content: %w", err)
	}

	return signed, nil
}

// GetKeyAuthorization computes token || "." || thumbprint, the key
// authorization used both to publish challenge proofs and, for dns-01,
// as the input to the DNS proof digest.
func (j *JWS) GetKeyAuthorization(token string) (string, error) {
	publicKey, err := publicKeyOf(j.privateKey)
	if err != nil {
		return "", err
	}

	jwk := &jose.JSONWebKey{Key: publicKey}
	thumbprint, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("secure: failed to compute JWK thumbprint: %w", err)
	}

	return token + "." + base64.RawURLEncoding.EncodeToString(thumbprint), nil
}

func publicKeyOf(privateKey crypto.PrivateKey) (crypto.PublicKey, error) {
	switch k := privateKey.(type) {
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	case *ecdsa.PrivateKey:
		return &k.PublicKey, nil
	default:
		return nil, fmt.Errorf("secure: unsupported private key type %T", privateKey)
	}
}

func signatureAlgorithm(privateKey crypto.PrivateKey) (jose.SignatureAlgorithm, error) {
	switch k := privateKey.(type) {
	case *rsa.PrivateKey:
		return jose.RS256, nil
	case *ecdsa.PrivateKey:
		switch k.Curve {
		case elliptic.P256():
			return jose.ES256, nil
		case elliptic.P384():
			return jose.ES384, nil
		default:
			return "", fmt.Errorf("secure: unsupported elliptic curve %s", k.Curve.Params().Name)
		}
	default:
		return "", fmt.Errorf("secure: unsupported private key type %T", privateKey)
	}
}
