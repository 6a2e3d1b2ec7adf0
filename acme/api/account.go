package api

import (
	"context"

	"github.com/go-acme/lego/v4/acme"
)

// AccountService implements newAccount. ACME's upsert semantics mean a
// single call serves both "register" and "load": the server returns 201
// for a brand new key and 200 (with the same Location) for a key that
// already has an account, so the caller never needs two code paths.
type AccountService service

// New submits a newAccount request in JWK-mode and, on success, flips the
// Transport to KID-mode using the returned Location header.
func (a *AccountService) New(ctx context.Context, newAccReq acme.Account) (acme.ExtendedAccount, error) {
	var account acme.Account
	resp, err := a.core.post(ctx, a.core.GetDirectory().NewAccountURL, newAccReq, &account)
	if err != nil {
		return acme.ExtendedAccount{}, err
	}

	accountLink := resp.Header.Get("Location")
	if accountLink == "" {
		return acme.ExtendedAccount{}, &acme.ProtocolError{Msg: "newAccount response carried no Location header"}
	}

	a.core.SetKID(accountLink)

	return acme.ExtendedAccount{Account: account, Location: accountLink}, nil
}

// Get refreshes an existing account resource (POST-as-GET).
func (a *AccountService) Get(ctx context.Context, accountURL string) (acme.Account, error) {
	var account acme.Account
	if _, err := a.core.postAsGet(ctx, accountURL, &account); err != nil {
		return acme.Account{}, err
	}
	return account, nil
}
