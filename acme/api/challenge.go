package api

import (
	"context"

	"github.com/go-acme/lego/v4/acme"
)

// ChallengeService implements challenge validation triggers.
type ChallengeService service

// New tells the server to attempt validation of a challenge. The request
// payload is the JSON object {} — distinct from the empty-string payload
// of POST-as-GET.
func (c *ChallengeService) New(ctx context.Context, challengeURL string) (acme.Challenge, error) {
	var chlg acme.Challenge
	_, err := c.core.post(ctx, challengeURL, struct{}{}, &chlg)
	if err != nil {
		return acme.Challenge{}, err
	}
	return chlg, nil
}
