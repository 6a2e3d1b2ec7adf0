package api

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/go-acme/lego/v4/acme"
)

// OrderService implements the order lifecycle operations: creation,
// POST-as-GET refresh, and CSR submission. None of these carry
// the order's status guards themselves — that typestate belongs to
// package certificate, which is the only caller of this service.
type OrderService service

// New creates an order for domains.
func (o *OrderService) New(ctx context.Context, domains []string) (acme.ExtendedOrder, error) {
	identifiers := make([]acme.Identifier, 0, len(domains))
	for _, domain := range domains {
		identifiers = append(identifiers, acme.Identifier{Type: "dns", Value: domain})
	}

	orderReq := acme.Order{Identifiers: identifiers}

	var order acme.Order
	resp, err := o.core.post(ctx, o.core.GetDirectory().NewOrderURL, orderReq, &order)
	if err != nil {
		return acme.ExtendedOrder{}, err
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return acme.ExtendedOrder{}, &acme.ProtocolError{Msg: "newOrder response carried no Location header"}
	}

	return acme.ExtendedOrder{Order: order, Location: location}, nil
}

// Get refreshes an order via POST-as-GET. The order's own URL is not part
// of its wire body, so it is threaded through from orderURL rather than
// from any response header.
func (o *OrderService) Get(ctx context.Context, orderURL string) (acme.ExtendedOrder, *http.Response, error) {
	if orderURL == "" {
		return acme.ExtendedOrder{}, nil, &acme.ProtocolError{Msg: "order[get]: empty URL"}
	}

	var order acme.Order
	resp, err := o.core.postAsGet(ctx, orderURL, &order)
	if err != nil {
		return acme.ExtendedOrder{}, resp, err
	}

	return acme.ExtendedOrder{Order: order, Location: orderURL}, resp, nil
}

// UpdateForCSR submits the finalize request.
func (o *OrderService) UpdateForCSR(ctx context.Context, finalizeURL string, csrDER []byte) (acme.ExtendedOrder, error) {
	csrMsg := acme.CSRMessage{Csr: base64.RawURLEncoding.EncodeToString(csrDER)}

	var order acme.Order
	_, err := o.core.post(ctx, finalizeURL, csrMsg, &order)
	if err != nil {
		return acme.ExtendedOrder{}, err
	}

	if order.Status == acme.StatusInvalid {
		if order.Error != nil {
			return acme.ExtendedOrder{}, order.Error
		}
		return acme.ExtendedOrder{}, &acme.ProtocolError{Msg: "order is invalid"}
	}

	return acme.ExtendedOrder{Order: order}, nil
}
