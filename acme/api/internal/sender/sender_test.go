package sender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-acme/lego/v4/acme"
)

func TestDoer_Get_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"valid"}`))
	}))
	defer srv.Close()

	doer := NewDoer(nil, "lego-test/1.0")

	var out struct {
		Status string `json:"status"`
	}
	resp, err := doer.Get(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "valid", out.Status)
}

func TestDoer_Get_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	doer := NewDoer(nil, "lego-test/1.0")
	_, err := doer.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "lego-test/1.0", gotUA)
}

func TestDoer_Post_ProblemJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"urn:ietf:params:acme:error:malformed","detail":"bad request"}`))
	}))
	defer srv.Close()

	doer := NewDoer(nil, "")
	_, err := doer.Post(context.Background(), srv.URL, nil, "application/jose+json", nil)
	require.Error(t, err)

	var prob *acme.ProblemDetails
	require.ErrorAs(t, err, &prob)
	assert.Equal(t, "urn:ietf:params:acme:error:malformed", prob.Type)
	assert.Equal(t, http.StatusBadRequest, prob.HTTPStatus)
}

func TestDoer_Post_BadNonceBecomesNonceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"urn:ietf:params:acme:error:badNonce"}`))
	}))
	defer srv.Close()

	doer := NewDoer(nil, "")
	_, err := doer.Post(context.Background(), srv.URL, nil, "application/jose+json", nil)

	var nonceErr *acme.NonceError
	require.ErrorAs(t, err, &nonceErr)
}

func TestDoer_Get_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream is on fire"))
	}))
	defer srv.Close()

	doer := NewDoer(nil, "")
	_, err := doer.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var protoErr *acme.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, protoErr.Error(), "500")
}

func TestDoer_Get_RestoresBodyForCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("-----BEGIN CERTIFICATE-----\nnot-really-a-cert\n-----END CERTIFICATE-----\n"))
	}))
	defer srv.Close()

	doer := NewDoer(nil, "")
	resp, err := doer.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BEGIN CERTIFICATE")
}

func TestDoer_Head(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Replay-Nonce", "abc123")
	}))
	defer srv.Close()

	doer := NewDoer(nil, "")
	resp, err := doer.Head(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Header.Get("Replay-Nonce"))
}

func TestDoer_Get_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doer := NewDoer(nil, "")
	_, err := doer.Get(ctx, srv.URL, nil)
	require.Error(t, err)

	var transportErr *acme.TransportError
	require.ErrorAs(t, err, &transportErr)
}
