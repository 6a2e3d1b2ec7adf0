// Package api is the transport layer: it sequences nonce acquisition,
// JWS signing and the POST itself, retries on badNonce, and tracks the
// account's KID transition. The per-resource *Service types built on top
// of Core are the directory/account/order surface.
package api

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/acme/api/internal/nonces"
	"github.com/go-acme/lego/v4/acme/api/internal/secure"
	"github.com/go-acme/lego/v4/acme/api/internal/sender"
	"github.com/go-acme/lego/v4/log"
)

// maxNonceRetries bounds the badNonce recovery loop.
const maxNonceRetries = 3

// Core is the ACME Transport: the one place every signed request flows
// through.
type Core struct {
	doer         *sender.Doer
	nonceManager *nonces.Manager
	jws          *secure.JWS
	directory    acme.Directory

	common         service
	Accounts       *AccountService
	Orders         *OrderService
	Authorizations *AuthorizationService
	Challenges     *ChallengeService
	Certificates   *CertificateService
}

// service is embedded by value into each *Service so they all share one
// Core pointer without individually heap-allocating it.
type service struct {
	core *Core
}

// New bootstraps the directory and wires up the transport and its
// resource services. kid may be empty for a not-yet-registered account;
// privateKey is the account key. ctx governs only the one-time directory
// fetch; every later call threads its own ctx.
func New(ctx context.Context, httpClient *http.Client, userAgent, directoryURL, kid string, privateKey crypto.PrivateKey) (*Core, error) {
	doer := sender.NewDoer(httpClient, userAgent)

	dir, err := fetchDirectory(ctx, doer, directoryURL)
	if err != nil {
		return nil, err
	}

	nonceManager := nonces.NewManager(doer, dir.NewNonceURL)
	jws := secure.NewJWS(privateKey, kid)

	c := &Core{doer: doer, nonceManager: nonceManager, jws: jws, directory: dir}

	c.common.core = c
	c.Accounts = (*AccountService)(&c.common)
	c.Orders = (*OrderService)(&c.common)
	c.Authorizations = (*AuthorizationService)(&c.common)
	c.Challenges = (*ChallengeService)(&c.common)
	c.Certificates = (*CertificateService)(&c.common)

	return c, nil
}

func fetchDirectory(ctx context.Context, doer *sender.Doer, directoryURL string) (acme.Directory, error) {
	var dir acme.Directory
	if _, err := doer.Get(ctx, directoryURL, &dir); err != nil {
		return dir, &acme.ConfigError{Msg: fmt.Sprintf("failed to fetch directory at %q: %v", directoryURL, err)}
	}

	if dir.NewNonceURL == "" {
		return dir, &acme.ConfigError{Msg: "directory is missing the newNonce URL"}
	}
	if dir.NewAccountURL == "" {
		return dir, &acme.ConfigError{Msg: "directory is missing the newAccount URL"}
	}
	if dir.NewOrderURL == "" {
		return dir, &acme.ConfigError{Msg: "directory is missing the newOrder URL"}
	}

	return dir, nil
}

// GetDirectory exposes the bootstrapped directory snapshot.
func (c *Core) GetDirectory() acme.Directory {
	return c.directory
}

// SetKID flips the account from JWK-mode to KID-mode permanently, once
// newAccount has returned a Location header.
func (c *Core) SetKID(kid string) {
	c.jws.SetKID(kid)
}

// GetKeyAuthorization computes the key authorization for token using the
// account's own key.
func (c *Core) GetKeyAuthorization(token string) (string, error) {
	return c.jws.GetKeyAuthorization(token)
}

// post marshals reqBody as JSON and performs a signed POST, decoding the
// JSON response into response (which may be nil). ctx bounds the nonce
// fetch and the POST itself, not just any surrounding retry/poll loop.
func (c *Core) post(ctx context.Context, uri string, reqBody, response interface{}) (*http.Response, error) {
	content, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("acme: failed to marshal request body: %w", err)
	}

	return c.retrievablePost(ctx, uri, content, response)
}

// postAsGet performs a signed POST whose payload is the literal empty
// string.
func (c *Core) postAsGet(ctx context.Context, uri string, response interface{}) (*http.Response, error) {
	return c.retrievablePost(ctx, uri, []byte{}, response)
}

// retrievablePost retries the signed POST on a badNonce response, up to
// maxNonceRetries times, fetching a fresh nonce each attempt. All other
// errors are returned immediately.
func (c *Core) retrievablePost(ctx context.Context, uri string, content []byte, response interface{}) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 0
	retrying := backoff.WithMaxRetries(bo, maxNonceRetries)

	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = c.signedPost(ctx, uri, content, response)
		if err == nil {
			return nil
		}

		if nonceErr, ok := err.(*acme.NonceError); ok {
			log.Infof("retrying after badNonce: %v", nonceErr)
			return err
		}

		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, retrying); err != nil {
		if perm, ok := err.(*backoff.PermanentError); ok {
			return resp, perm.Unwrap()
		}
		return resp, err
	}

	return resp, nil
}

func (c *Core) signedPost(ctx context.Context, uri string, content []byte, response interface{}) (*http.Response, error) {
	nonce, err := c.nonceManager.Nonce(ctx)
	if err != nil {
		return nil, fmt.Errorf("acme: failed to acquire nonce: %w", err)
	}

	signedContent, err := c.jws.SignContent(uri, nonce, content)
	if err != nil {
		return nil, fmt.Errorf("acme: failed to sign request: %w", err)
	}

	body := bytes.NewReader([]byte(signedContent.FullSerialize()))

	resp, err := c.doer.Post(ctx, uri, body, "application/jose+json", response)

	// A failed nonce lookup here is ignored so the root error from Post is
	// the one the caller (and the retry loop above) sees.
	if nonce, nonceErr := nonces.GetFromResponse(resp); nonceErr == nil {
		c.nonceManager.Push(nonce)
	}

	return resp, err
}
