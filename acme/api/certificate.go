package api

import (
	"context"
	"io"

	"github.com/go-acme/lego/v4/acme"
)

// CertificateService implements certificate download. The response body
// is the raw PEM chain, not JSON, so it bypasses the usual JSON-decode
// path.
type CertificateService service

// Get downloads the issued certificate chain from certURL.
func (c *CertificateService) Get(ctx context.Context, certURL string) ([]byte, error) {
	if certURL == "" {
		return nil, &acme.ProtocolError{Msg: "certificate[get]: empty URL"}
	}

	resp, err := c.core.postAsGet(ctx, certURL, nil)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &acme.TransportError{Err: err}
	}

	return body, nil
}
