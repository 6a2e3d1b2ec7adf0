package certificate

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/acme/api"
)

// Authorization wraps a single authorization resource. One of these
// exists per domain in the parent order.
type Authorization struct {
	core *api.Core
	url  string
	auth acme.Authorization
}

func newAuthorization(core *api.Core, url string, auth acme.Authorization) *Authorization {
	return &Authorization{core: core, url: url, auth: auth}
}

// Identifier is the DNS name this authorization covers.
func (a *Authorization) Identifier() acme.Identifier {
	return a.auth.Identifier
}

// Status is the cached authorization status.
func (a *Authorization) Status() string {
	return a.auth.Status
}

// Challenge returns the challenge of the given type, if the server
// offered one.
func (a *Authorization) Challenge(challengeType string) (*Challenge, bool) {
	for _, c := range a.auth.Challenges {
		if c.Type == challengeType {
			return newChallenge(a.core, a.url, c), true
		}
	}
	return nil, false
}

// DNSChallenge is shorthand for Challenge(acme.ChallengeDNS01).
func (a *Authorization) DNSChallenge() (*Challenge, bool) {
	return a.Challenge(acme.ChallengeDNS01)
}

// HTTPChallenge is shorthand for Challenge(acme.ChallengeHTTP01).
func (a *Authorization) HTTPChallenge() (*Challenge, bool) {
	return a.Challenge(acme.ChallengeHTTP01)
}

// Challenge wraps a single challenge resource.
type Challenge struct {
	core      *api.Core
	authzURL  string
	challenge acme.Challenge
}

func newChallenge(core *api.Core, authzURL string, challenge acme.Challenge) *Challenge {
	return &Challenge{core: core, authzURL: authzURL, challenge: challenge}
}

// Type is the challenge's wire type, e.g. "dns-01".
func (c *Challenge) Type() string { return c.challenge.Type }

// Token is the server-issued challenge token.
func (c *Challenge) Token() string { return c.challenge.Token }

// KeyAuthorization computes token || "." || thumbprint.
func (c *Challenge) KeyAuthorization() (string, error) {
	return c.core.GetKeyAuthorization(c.challenge.Token)
}

// DNSProof computes the dns-01 TXT record value:
// base64url(SHA-256(key authorization)).
func (c *Challenge) DNSProof() (string, error) {
	keyAuth, err := c.KeyAuthorization()
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(keyAuth))
	return base64.RawURLEncoding.EncodeToString(digest[:]), nil
}
