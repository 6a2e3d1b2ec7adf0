// Package nonces implements a small, concurrency-safe buffer of replay
// nonces keyed to a single newNonce URL.
package nonces

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-acme/lego/v4/acme/api/internal/sender"
)

// maxNonces is the pool's soft cap; once exceeded, the oldest buffered
// nonce is dropped.
const maxNonces = 10

// Manager is the NoncePool. It is safe to share across concurrent
// Transports: every dispense/deposit is serialized by mu.
type Manager struct {
	mu          sync.Mutex
	pool        []string
	doer        *sender.Doer
	newNonceURL string
}

// NewManager creates a Manager that falls back to a HEAD against
// newNonceURL when its buffer is empty.
func NewManager(doer *sender.Doer, newNonceURL string) *Manager {
	return &Manager{doer: doer, newNonceURL: newNonceURL}
}

// Pop removes and returns a buffered nonce, if any. Each nonce is
// returned by Pop at most once; the caller must discard it after use
// regardless of outcome.
func (m *Manager) Pop() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pool) == 0 {
		return "", false
	}

	nonce := m.pool[0]
	m.pool = m.pool[1:]
	return nonce, true
}

// Push deposits a nonce observed on a Replay-Nonce response header.
func (m *Manager) Push(nonce string) {
	if nonce == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pool = append(m.pool, nonce)
	if len(m.pool) > maxNonces {
		m.pool = m.pool[len(m.pool)-maxNonces:]
	}
}

// Nonce dispenses a nonce for a signed request, serializing dispensing so
// two concurrent requests never observe the same one. On a pool miss it
// issues a HEAD against newNonceURL bound to ctx, so the fetch is itself
// a cancellable suspension point rather than one hidden inside signing.
func (m *Manager) Nonce(ctx context.Context) (string, error) {
	if nonce, ok := m.Pop(); ok {
		return nonce, nil
	}

	resp, err := m.doer.Head(ctx, m.newNonceURL)
	if err != nil {
		return "", err
	}

	return GetFromResponse(resp)
}

// GetFromResponse extracts the Replay-Nonce header from resp. Called
// after every ACME response to opportunistically refill the pool.
func GetFromResponse(resp *http.Response) (string, error) {
	if resp == nil {
		return "", errors.New("nonces: no response to read a nonce from")
	}

	nonce := resp.Header.Get("Replay-Nonce")
	if nonce == "" {
		return "", errors.New("nonces: server did not provide a Replay-Nonce header")
	}

	return nonce, nil
}
