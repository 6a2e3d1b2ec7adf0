// Package certificate implements the order state machine's typestate
// chain:
//
//	NewOrder -> Authorization* -> Challenge   (prove ownership)
//	NewOrder -> CsrOrder -> CertOrder         (submit CSR, download cert)
//
// Each façade only exposes the operations valid for its status; a
// transition consumes the previous façade on success. Where the cached
// status disagrees with what the server now reports, operations return an
// *acme.StateError instead of panicking or silently proceeding.
package certificate

import (
	"context"
	"crypto"
	"time"

	"github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/acme/api"
	"github.com/go-acme/lego/v4/certcrypto"
)

// NewOrder wraps a just-created or not-yet-ready order.
type NewOrder struct {
	core  *api.Core
	order acme.ExtendedOrder
}

func newOrder(core *api.Core, order acme.ExtendedOrder) *NewOrder {
	return &NewOrder{core: core, order: order}
}

// Location is the order's own URL.
func (o *NewOrder) Location() string { return o.order.Location }

// Status is the cached order status.
func (o *NewOrder) Status() string { return o.order.Status }

// IsValidated reports whether the cached status means every authorization
// has been satisfied (ready or valid). It performs no network call; the
// caller must Refresh first to see server-side changes.
func (o *NewOrder) IsValidated() bool {
	return o.order.Status == acme.StatusReady || o.order.Status == acme.StatusValid
}

// Refresh re-fetches the order via POST-as-GET and replaces the cached
// state.
func (o *NewOrder) Refresh(ctx context.Context) error {
	order, _, err := o.core.Orders.Get(ctx, o.order.Location)
	if err != nil {
		return err
	}
	o.order = order
	return nil
}

// Authorizations fetches every authorization named in the order.
func (o *NewOrder) Authorizations(ctx context.Context) ([]*Authorization, error) {
	result := make([]*Authorization, 0, len(o.order.Authorizations))
	for _, authzURL := range o.order.Authorizations {
		authz, _, err := o.core.Authorizations.Get(ctx, authzURL)
		if err != nil {
			return nil, err
		}
		result = append(result, newAuthorization(o.core, authzURL, authz))
	}
	return result, nil
}

// ConfirmValidations consumes the receiver and yields a CsrOrder once
// IsValidated is true; otherwise it returns false and the receiver
// remains usable.
func (o *NewOrder) ConfirmValidations() (*CsrOrder, bool) {
	if !o.IsValidated() {
		return nil, false
	}
	return &CsrOrder{core: o.core, order: o.order}, true
}

// CsrOrder wraps an order whose authorizations are all satisfied and that
// is ready for finalize.
type CsrOrder struct {
	core  *api.Core
	order acme.ExtendedOrder
}

// Finalize builds a CSR over privateKey covering the order's identifier
// set (SAN covering every name, no CN-only fallback), submits it, and polls until the
// order leaves "processing". ctx governs both the finalize call and the
// polling loop; the library imposes no internal timeout.
func (o *CsrOrder) Finalize(ctx context.Context, privateKey crypto.PrivateKey, delay time.Duration) (*CertOrder, error) {
	if o.order.Status != acme.StatusReady && o.order.Status != acme.StatusValid {
		return nil, &acme.StateError{Msg: "order " + o.order.Location + " is not ready for finalize (status " + o.order.Status + ")"}
	}

	domains := certcrypto.DomainsFromIdentifiers(o.order.Identifiers)
	csrDER, err := certcrypto.CreateCSR(privateKey, domains)
	if err != nil {
		return nil, err
	}

	if _, err := o.core.Orders.UpdateForCSR(ctx, o.order.Finalize, csrDER); err != nil {
		return nil, err
	}

	finalOrder, err := waitForOrderStatus(ctx, o.core, o.order.Location, delay)
	if err != nil {
		return nil, err
	}

	if finalOrder.Status != acme.StatusValid {
		if finalOrder.Error != nil {
			return nil, finalOrder.Error
		}
		return nil, &acme.ProtocolError{Msg: "order finalized with status " + finalOrder.Status}
	}

	return &CertOrder{core: o.core, order: finalOrder, privateKey: privateKey}, nil
}

func waitForOrderStatus(ctx context.Context, core *api.Core, orderURL string, delay time.Duration) (acme.ExtendedOrder, error) {
	for {
		order, resp, err := core.Orders.Get(ctx, orderURL)
		if err != nil {
			return acme.ExtendedOrder{}, err
		}

		if order.Status != acme.StatusProcessing {
			return order, nil
		}

		wait := acme.ParseRetryAfter(resp, delay)
		select {
		case <-ctx.Done():
			return acme.ExtendedOrder{}, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// CertOrder wraps a valid order whose certificate is ready to download.
// It carries the private key used to finalize so DownloadCertificate can
// package the two together.
type CertOrder struct {
	core       *api.Core
	order      acme.ExtendedOrder
	privateKey crypto.PrivateKey
}

// DownloadCertificate fetches the issued certificate chain and packages
// it with the PEM-encoded finalize key into a Resource.
func (o *CertOrder) DownloadCertificate(ctx context.Context) (*Resource, error) {
	if o.order.Status != acme.StatusValid {
		return nil, &acme.StateError{Msg: "order " + o.order.Location + " is not valid (status " + o.order.Status + ")"}
	}
	if o.order.Certificate == "" {
		return nil, &acme.ProtocolError{Msg: "order has no certificate URL"}
	}

	chain, err := o.core.Certificates.Get(ctx, o.order.Certificate)
	if err != nil {
		return nil, err
	}

	keyPEM, err := certcrypto.PEMEncode(o.privateKey)
	if err != nil {
		return nil, err
	}

	var domain string
	if len(o.order.Identifiers) > 0 {
		domain = o.order.Identifiers[0].Value
	}

	return &Resource{
		Domain:      domain,
		CertURL:     o.order.Certificate,
		PrivateKey:  keyPEM,
		Certificate: chain,
	}, nil
}
