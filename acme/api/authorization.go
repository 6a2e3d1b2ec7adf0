package api

import (
	"context"
	"net/http"

	"github.com/go-acme/lego/v4/acme"
)

// AuthorizationService implements authorization retrieval.
type AuthorizationService service

// Get fetches an authorization via POST-as-GET, returning the raw
// response alongside it so callers can read Retry-After while polling.
func (a *AuthorizationService) Get(ctx context.Context, authzURL string) (acme.Authorization, *http.Response, error) {
	var authz acme.Authorization
	resp, err := a.core.postAsGet(ctx, authzURL, &authz)
	if err != nil {
		return acme.Authorization{}, resp, err
	}
	return authz, resp, nil
}
