package certificate

import (
	"context"
	"time"

	"github.com/go-acme/lego/v4/acme"
)

// Validate tells the server to attempt the challenge, then polls the
// parent authorization until it leaves "pending". The caller is
// responsible for having already published the challenge proof
// (DNSProof/KeyAuthorization) externally — publishing is explicitly a
// caller concern.
func (c *Challenge) Validate(ctx context.Context, delay time.Duration) error {
	if _, err := c.core.Challenges.New(ctx, c.challenge.URL); err != nil {
		return err
	}

	for {
		authz, resp, err := c.core.Authorizations.Get(ctx, c.authzURL)
		if err != nil {
			return err
		}

		if authz.Status != acme.StatusPending {
			if authz.Status == acme.StatusValid {
				return nil
			}
			return &acme.ProtocolError{
				Msg: "authorization " + c.authzURL + " did not validate, status " + authz.Status,
				Err: challengeError(authz.Challenges, c.challenge),
			}
		}

		wait := acme.ParseRetryAfter(resp, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// challengeError finds the entry in challenges matching failed (by URL,
// falling back to type) and returns its server-reported failure reason, if
// any. The refreshed authorization is the only place that reason lives;
// the order/authorization objects themselves never carry it.
func challengeError(challenges []acme.Challenge, failed acme.Challenge) error {
	for _, chlg := range challenges {
		if chlg.URL == failed.URL && chlg.Error != nil {
			return chlg.Error
		}
	}
	for _, chlg := range challenges {
		if chlg.Type == failed.Type && chlg.Error != nil {
			return chlg.Error
		}
	}
	return nil
}
