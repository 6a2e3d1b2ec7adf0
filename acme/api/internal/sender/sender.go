// Package sender is the HttpClient collaborator: it performs
// GET/HEAD/POST and exposes status/headers/body, plus the one piece of
// ACME-specific interpretation every caller needs — turning a
// problem+json error body into a typed error.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-acme/lego/v4/acme"
)

const problemContentType = "application/problem+json"

// Doer wraps an *http.Client with the User-Agent the library was
// configured with, and JSON (de)serialization of request/response bodies.
type Doer struct {
	httpClient *http.Client
	userAgent  string
}

// NewDoer builds a Doer. A nil httpClient falls back to http.DefaultClient.
func NewDoer(httpClient *http.Client, userAgent string) *Doer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Doer{httpClient: httpClient, userAgent: userAgent}
}

// Get performs an HTTP GET and decodes the JSON response body into out
// (out may be nil to skip decoding). ctx governs the in-flight request,
// not just the caller's surrounding retry/poll loop.
func (d *Doer) Get(ctx context.Context, uri string, out interface{}) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &acme.TransportError{Err: err}
	}
	return d.do(req, out)
}

// Head performs an HTTP HEAD, exposing only status/headers.
func (d *Doer) Head(ctx context.Context, uri string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return nil, &acme.TransportError{Err: err}
	}
	return d.do(req, nil)
}

// Post performs an HTTP POST with the given content type and body, and
// decodes the JSON response body into out (out may be nil).
func (d *Doer) Post(ctx context.Context, uri string, body io.Reader, bodyType string, out interface{}) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, body)
	if err != nil {
		return nil, &acme.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", bodyType)
	return d.do(req, out)
}

func (d *Doer) do(req *http.Request, out interface{}) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &acme.TransportError{Err: err}
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	// The caller may still want to read the raw body (e.g. a certificate
	// download, which is not JSON); restore it so they can.
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return resp, &acme.TransportError{Err: err}
	}

	if protoErr := checkError(resp, raw); protoErr != nil {
		return resp, protoErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, fmt.Errorf("acme: failed to unmarshal %T: %w", out, err)
		}
	}

	return resp, nil
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, problemContentType) {
		var prob acme.ProblemDetails
		if err := json.Unmarshal(body, &prob); err == nil {
			prob.HTTPStatus = resp.StatusCode
			return acme.AsProtocolError(&prob)
		}
	}

	return &acme.ProtocolError{Msg: fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, string(body))}
}
