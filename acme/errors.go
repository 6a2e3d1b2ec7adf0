package acme

import (
	"fmt"
	"strings"
)

const badNonceErrorType = "urn:ietf:params:acme:error:badNonce"

// SubProblem is one entry of a problem document's "subproblems" array.
type SubProblem struct {
	Type       string     `json:"type"`
	Detail     string     `json:"detail"`
	Identifier Identifier `json:"identifier,omitempty"`
}

// ProblemDetails models an RFC 7807 problem document as returned by the
// ACME server for any request that fails (status >= 400,
// application/problem+json body). It is the wire-level flavor of the
// ProtocolError kind from the error taxonomy.
type ProblemDetails struct {
	Type        string       `json:"type"`
	Detail      string       `json:"detail"`
	Instance    string       `json:"instance,omitempty"`
	SubProblems []SubProblem `json:"subproblems,omitempty"`

	// HTTPStatus is not part of the JSON body; it is filled in from the
	// response status line by the transport.
	HTTPStatus int `json:"-"`
}

func (p *ProblemDetails) Error() string {
	msg := fmt.Sprintf("acme: error: %d, %s", p.HTTPStatus, p.Type)
	if p.Detail != "" {
		msg += ": " + p.Detail
	}
	if len(p.SubProblems) > 0 {
		msg += fmt.Sprintf(" (%d subproblems)", len(p.SubProblems))
	}
	return msg
}

// isBadNonce reports whether the problem type is the badNonce variant
// (RFC 8555 section 6.7), regardless of which base URI the server prefixes
// its urn with.
func (p *ProblemDetails) isBadNonce() bool {
	return strings.HasSuffix(p.Type, ":badNonce") || p.Type == badNonceErrorType
}

// NonceError wraps a badNonce ProblemDetails. The transport recognizes
// this type to trigger its bounded retry; it is never surfaced to the
// caller of a successful retry.
type NonceError struct {
	*ProblemDetails
}

func (e *NonceError) Error() string {
	return "acme: nonce rejected: " + e.ProblemDetails.Error()
}

func (e *NonceError) Unwrap() error {
	return e.ProblemDetails
}

// AsProtocolError classifies a raw problem document, returning a
// *NonceError when the server is complaining about replay-nonce reuse so
// Transport can recover internally, and the plain *ProblemDetails
// otherwise.
func AsProtocolError(p *ProblemDetails) error {
	if p.isBadNonce() {
		return &NonceError{ProblemDetails: p}
	}
	return p
}

// ConfigError indicates a malformed directory or missing required
// endpoint.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "acme: config: " + e.Msg }

// CryptoError wraps a failure from the CryptoProvider collaborator (key
// generation/parsing, signing, CSR construction).
type CryptoError struct {
	Msg string
	Err error
}

func (e *CryptoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acme: crypto: %s: %v", e.Msg, e.Err)
	}
	return "acme: crypto: " + e.Msg
}

func (e *CryptoError) Unwrap() error { return e.Err }

// TransportError wraps a network/TLS failure surfaced unchanged from the
// HttpClient collaborator.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("acme: transport: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError covers ACME-level failures that are not a server problem
// document: a missing required header, an unexpected status code, or a
// terminal invalid order/authorization.
type ProtocolError struct {
	Msg string
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acme: protocol: %s: %v", e.Msg, e.Err)
	}
	return "acme: protocol: " + e.Msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// StateError indicates an operation was attempted against an order or
// authorization in a status that does not allow it. The typestate façades
// in package certificate avoid this at compile time for the happy path;
// StateError is the runtime fallback for a refresh that reveals an
// unexpected transition.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return "acme: state: " + e.Msg }
