package certcrypto

import (
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-acme/lego/v4/acme"
)

func TestCreateCSR_CoversAllDomains(t *testing.T) {
	key, err := GeneratePrivateKey(EC256)
	require.NoError(t, err)

	der, err := CreateCSR(key, []string{"example.com", "www.example.com"})
	require.NoError(t, err)

	csr, err := x509.ParseCertificateRequest(der)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"example.com", "www.example.com"}, csr.DNSNames)
	assert.Equal(t, "example.com", csr.Subject.CommonName)
}

func TestCreateCSR_NoDomains(t *testing.T) {
	key, err := GeneratePrivateKey(EC256)
	require.NoError(t, err)

	_, err = CreateCSR(key, nil)
	assert.Error(t, err)
}

func TestCreateCSR_RSAKey(t *testing.T) {
	key, err := GeneratePrivateKey(RSA2048)
	require.NoError(t, err)

	der, err := CreateCSR(key, []string{"example.org"})
	require.NoError(t, err)

	csr, err := x509.ParseCertificateRequest(der)
	require.NoError(t, err)
	assert.Equal(t, x509.SHA256WithRSA, csr.SignatureAlgorithm)
}

func TestDomainsFromIdentifiers(t *testing.T) {
	ids := []acme.Identifier{
		{Type: "dns", Value: "example.com"},
		{Type: "dns", Value: "example.net"},
	}
	assert.Equal(t, []string{"example.com", "example.net"}, DomainsFromIdentifiers(ids))
}

func TestDomainsFromIdentifiers_Empty(t *testing.T) {
	assert.Empty(t, DomainsFromIdentifiers(nil))
}
