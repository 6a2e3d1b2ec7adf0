// Package registration implements account creation and the register/load
// upsert: both funnel through the same newAccount POST, because the ACME
// server itself treats "create" and "look up by existing key"
// identically — a key that already has an account gets its existing
// Location back.
package registration

import (
	"context"
	"crypto"

	"github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/acme/api"
)

// User is implemented by callers to supply the identity driving
// registration.
type User interface {
	GetEmail() string
	GetRegistration() *Resource
	GetPrivateKey() crypto.PrivateKey
}

// Resource is the client-side record of a registered account: its wire
// body plus the KID URL the server assigned it.
type Resource struct {
	Body acme.Account `json:"body,omitempty"`
	URI  string       `json:"uri,omitempty"`
}

// Registrar drives newAccount for a single account key.
type Registrar struct {
	core *api.Core
	user User
}

// NewRegistrar binds a Registrar to core and user.
func NewRegistrar(core *api.Core, user User) *Registrar {
	return &Registrar{core: core, user: user}
}

// Options configures a registration request.
type Options struct {
	TermsOfServiceAgreed bool
	Contacts             []string
}

// Register performs the upsert newAccount call for a freshly generated
// account key.
func (r *Registrar) Register(ctx context.Context, options Options) (*Resource, error) {
	return r.upsert(ctx, options)
}

// LoadAccount performs the identical upsert call for an account key
// parsed from a persisted PEM. The ACME contract guarantees the server
// returns the same KID it issued originally, so there is no separate
// wire request to make.
func (r *Registrar) LoadAccount(ctx context.Context, options Options) (*Resource, error) {
	return r.upsert(ctx, options)
}

func (r *Registrar) upsert(ctx context.Context, options Options) (*Resource, error) {
	contacts := options.Contacts
	if len(contacts) == 0 && r.user.GetEmail() != "" {
		contacts = []string{"mailto:" + r.user.GetEmail()}
	}

	accMsg := acme.Account{
		Contact:              contacts,
		TermsOfServiceAgreed: options.TermsOfServiceAgreed,
	}

	account, err := r.core.Accounts.New(ctx, accMsg)
	if err != nil {
		return nil, err
	}

	return &Resource{Body: account.Account, URI: account.Location}, nil
}
