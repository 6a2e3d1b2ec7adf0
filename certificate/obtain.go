package certificate

import (
	"context"
	"time"

	"github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/log"
)

// ChallengeSolver publishes the proof for a single challenge (e.g. a TXT
// record for dns-01, a file under .well-known for http-01) and returns
// once the proof is live and ready for the CA to fetch. Cleanup, if any,
// is the caller's responsibility once Obtain returns.
type ChallengeSolver func(ctx context.Context, authz *Authorization, chal *Challenge) error

// ObtainRequest configures a full certificate issuance run.
type ObtainRequest struct {
	Domains       []string
	ChallengeType string
	Solver        ChallengeSolver
	KeyType       certcrypto.KeyType // defaults to certcrypto.EC256
	PollInterval  time.Duration      // defaults to 2 seconds
}

// Obtain drives the entire order lifecycle end to end: it creates an
// order for request.Domains, resolves and solves the requested challenge
// type on every authorization via request.Solver, finalizes once every
// authorization is satisfied, and downloads the issued chain. It is a
// convenience wrapper over NewOrder/Authorization/Challenge/CsrOrder/
// CertOrder for callers who do not need the intermediate façades.
func (c *Certifier) Obtain(ctx context.Context, request ObtainRequest) (*Resource, error) {
	if len(request.Domains) == 0 {
		return nil, &acme.ConfigError{Msg: "obtain: at least one domain is required"}
	}
	if request.Solver == nil {
		return nil, &acme.ConfigError{Msg: "obtain: a ChallengeSolver is required"}
	}

	challengeType := request.ChallengeType
	if challengeType == "" {
		challengeType = acme.ChallengeDNS01
	}

	keyType := request.KeyType
	if keyType == "" {
		keyType = certcrypto.EC256
	}

	delay := request.PollInterval
	if delay <= 0 {
		delay = 2 * time.Second
	}

	order, err := c.NewOrder(ctx, request.Domains[0], request.Domains[1:]...)
	if err != nil {
		return nil, err
	}

	if err := c.solveAuthorizations(ctx, order, challengeType, request.Solver, delay); err != nil {
		return nil, err
	}

	if err := order.Refresh(ctx); err != nil {
		return nil, err
	}

	csrOrder, ok := order.ConfirmValidations()
	if !ok {
		return nil, &acme.StateError{Msg: "obtain: order " + order.Location() + " did not reach ready/valid after solving every authorization"}
	}

	certKey, err := certcrypto.GeneratePrivateKey(keyType)
	if err != nil {
		return nil, err
	}

	certOrder, err := csrOrder.Finalize(ctx, certKey, delay)
	if err != nil {
		return nil, err
	}

	return certOrder.DownloadCertificate(ctx)
}

func (c *Certifier) solveAuthorizations(ctx context.Context, order *NewOrder, challengeType string, solve ChallengeSolver, delay time.Duration) error {
	authzs, err := order.Authorizations(ctx)
	if err != nil {
		return err
	}

	for _, authz := range authzs {
		if authz.Status() == acme.StatusValid {
			continue
		}

		chal, ok := authz.Challenge(challengeType)
		if !ok {
			return &acme.ProtocolError{Msg: "obtain: authorization for " + authz.Identifier().Value + " offers no " + challengeType + " challenge"}
		}

		log.Infof("obtain: solving %s for %s", challengeType, authz.Identifier().Value)

		if err := solve(ctx, authz, chal); err != nil {
			return err
		}

		if err := chal.Validate(ctx, delay); err != nil {
			return err
		}
	}

	return nil
}
