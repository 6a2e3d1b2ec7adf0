// Package lego is the public entry point: it wires directory bootstrap,
// the account's transport, and the order/registration surfaces together
// behind a single Client.
package lego

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/acme/api"
	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/registration"
)

const defaultUserAgent = "lego-client/v4"

// Config configures a Client. NewConfig fills in sane defaults; the
// caller typically only needs to set CADirURL for non-production use.
type Config struct {
	CADirURL   string
	User       registration.User
	HTTPClient *http.Client
	UserAgent  string
	KeyType    certcrypto.KeyType
}

// NewConfig builds a Config defaulting to the production Let's Encrypt
// directory and a 30-second HTTP client timeout.
func NewConfig(user registration.User) *Config {
	return &Config{
		CADirURL:   acme.LEDirectoryProduction,
		User:       user,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  defaultUserAgent,
		KeyType:    certcrypto.EC256,
	}
}

// Client is the library's façade: it exposes the Registration and
// Certificate surfaces over a single account transport.
type Client struct {
	Core         *api.Core
	Certificate  *certificate.Certifier
	Registration *registration.Registrar
}

// NewClient bootstraps the directory and builds a Client for config.User.
// config.User.GetPrivateKey() must return a non-nil key; if the user has
// a prior registration, its KID is reused so the Transport starts
// directly in KID-mode. ctx governs only the one-time directory fetch;
// every later call made through the returned Client carries its own ctx.
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("lego: a configuration must be provided")
	}

	privateKey := config.User.GetPrivateKey()
	if privateKey == nil {
		return nil, fmt.Errorf("lego: config.User.GetPrivateKey() returned nil")
	}

	var kid string
	if reg := config.User.GetRegistration(); reg != nil {
		kid = reg.URI
	}

	core, err := api.New(ctx, config.HTTPClient, config.UserAgent, config.CADirURL, kid, privateKey)
	if err != nil {
		return nil, err
	}

	return &Client{
		Core:         core,
		Certificate:  certificate.NewCertifier(core),
		Registration: registration.NewRegistrar(core, config.User),
	}, nil
}
