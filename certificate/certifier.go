package certificate

import (
	"context"

	"github.com/go-acme/lego/v4/acme/api"
)

// Certifier is the account's certificate-ordering surface. It holds
// nothing but the transport; all order state lives in the façade chain
// returned by NewOrder.
type Certifier struct {
	core *api.Core
}

// NewCertifier builds a Certifier bound to core.
func NewCertifier(core *api.Core) *Certifier {
	return &Certifier{core: core}
}

// NewOrder creates an order covering primary and any altNames.
func (c *Certifier) NewOrder(ctx context.Context, primary string, altNames ...string) (*NewOrder, error) {
	domains := append([]string{primary}, altNames...)

	order, err := c.core.Orders.New(ctx, domains)
	if err != nil {
		return nil, err
	}

	return newOrder(c.core, order), nil
}
