package certcrypto

import (
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"

	"github.com/go-acme/lego/v4/acme"
)

// CreateCSR builds a PKCS#10 certificate signing request DER for domains,
// signed by privateKey. The SAN extension covers every domain (no
// CN-only fallback); the first domain is used as the subject common name
// for readability only.
func CreateCSR(privateKey crypto.PrivateKey, domains []string) ([]byte, error) {
	if len(domains) == 0 {
		return nil, &acme.CryptoError{Msg: "cannot create a CSR with no domains"}
	}

	signer, ok := privateKey.(crypto.Signer)
	if !ok {
		return nil, &acme.CryptoError{Msg: fmt.Sprintf("private key of type %T does not implement crypto.Signer", privateKey)}
	}

	template := &x509.CertificateRequest{
		Subject:            pkix.Name{CommonName: domains[0]},
		DNSNames:           domains,
		SignatureAlgorithm: signatureAlgorithmFor(privateKey),
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, template, signer)
	if err != nil {
		return nil, &acme.CryptoError{Msg: "failed to create CSR", Err: err}
	}

	return der, nil
}

// DomainsFromIdentifiers extracts the DNS names from an order's
// identifier list, in order, for use as the CSR's domain set.
func DomainsFromIdentifiers(identifiers []acme.Identifier) []string {
	domains := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		domains = append(domains, id.Value)
	}
	return domains
}

func signatureAlgorithmFor(key crypto.PrivateKey) x509.SignatureAlgorithm {
	alg, err := SignatureAlgorithmName(key)
	if err != nil {
		return x509.UnknownSignatureAlgorithm
	}

	switch alg {
	case "RS256":
		return x509.SHA256WithRSA
	case "ES256":
		return x509.ECDSAWithSHA256
	case "ES384":
		return x509.ECDSAWithSHA384
	default:
		return x509.UnknownSignatureAlgorithm
	}
}
