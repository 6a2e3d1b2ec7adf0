// Package certcrypto is the default CryptoProvider collaborator:
// account/certificate key generation, PEM encoding/parsing, and CSR
// construction. Signing of ACME requests with the account key is done
// separately, in acme/api/internal/secure.
package certcrypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/go-acme/lego/v4/acme"
)

// KeyType enumerates the private key algorithms this module can generate
// and CSR-sign with.
type KeyType string

// Supported key types: the set RFC 8555 CAs commonly accept.
const (
	EC256   = KeyType("P256")
	EC384   = KeyType("P384")
	RSA2048 = KeyType("2048")
	RSA4096 = KeyType("4096")
	RSA8192 = KeyType("8192")
)

// GeneratePrivateKey creates a fresh private key of the requested type.
// EC256 is the recommended default for new accounts and certificates.
func GeneratePrivateKey(keyType KeyType) (crypto.PrivateKey, error) {
	switch keyType {
	case EC256:
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case EC384:
		return ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case RSA2048:
		return rsa.GenerateKey(rand.Reader, 2048)
	case RSA4096:
		return rsa.GenerateKey(rand.Reader, 4096)
	case RSA8192:
		return rsa.GenerateKey(rand.Reader, 8192)
	default:
		return nil, &acme.CryptoError{Msg: fmt.Sprintf("unsupported key type %q", keyType)}
	}
}

// ParsePEMPrivateKey parses a PEM block containing an EC, RSA (PKCS#1) or
// PKCS#8 private key, in that order of attempt.
func ParsePEMPrivateKey(data []byte) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, &acme.CryptoError{Msg: "no PEM block found in private key"}
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &acme.CryptoError{Msg: "failed to parse private key", Err: err}
	}

	switch key.(type) {
	case *ecdsa.PrivateKey, *rsa.PrivateKey:
		return key, nil
	default:
		return nil, &acme.CryptoError{Msg: fmt.Sprintf("unsupported private key type %T", key)}
	}
}

// PEMEncode serializes a private key as a PKCS#8 PEM block.
func PEMEncode(key crypto.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, &acme.CryptoError{Msg: "failed to marshal private key", Err: err}
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// PublicKey extracts the crypto.PublicKey half of a supported private key.
func PublicKey(key crypto.PrivateKey) (crypto.PublicKey, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		return &k.PublicKey, nil
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	default:
		return nil, &acme.CryptoError{Msg: fmt.Sprintf("unsupported private key type %T", key)}
	}
}

// SignatureAlgorithmName returns the JWS alg identifier for key: RS256
// for RSA, ES256/ES384 for P-256/P-384 ECDSA.
func SignatureAlgorithmName(key crypto.PrivateKey) (string, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return "RS256", nil
	case *ecdsa.PrivateKey:
		switch k.Curve {
		case elliptic.P256():
			return "ES256", nil
		case elliptic.P384():
			return "ES384", nil
		default:
			return "", &acme.CryptoError{Msg: fmt.Sprintf("unsupported curve %s", k.Curve.Params().Name)}
		}
	default:
		return "", &acme.CryptoError{Msg: fmt.Sprintf("unsupported private key type %T", key)}
	}
}
