// Package identity provides the stable per-installation identifier that names
// the user's favorites document.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/five82/pantry/internal/apperr"
)

// StorageKey is the local key the identifier is persisted under.
const StorageKey = "user_id"

// KV is the local persistence the provider needs.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Provider resolves the installation identifier once and memoizes it.
type Provider struct {
	kv    KV
	newID func() (string, error)

	group singleflight.Group
	mu    sync.RWMutex
	id    string
}

// NewProvider builds a Provider over kv.
func NewProvider(kv KV) *Provider {
	return &Provider{kv: kv, newID: newRandomID}
}

// Identifier returns the persisted identifier, generating and persisting one
// on first use. Concurrent first calls share a single resolution.
func (p *Provider) Identifier(ctx context.Context) (string, error) {
	if p == nil {
		return "", fmt.Errorf("identity provider is nil")
	}
	p.mu.RLock()
	id := p.id
	p.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	ch := p.group.DoChan(StorageKey, func() (any, error) {
		return p.resolve()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (p *Provider) resolve() (string, error) {
	p.mu.RLock()
	id := p.id
	p.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	stored, ok, err := p.kv.Get(StorageKey)
	if err != nil {
		return "", apperr.Storage("read identifier", err)
	}
	if ok && strings.TrimSpace(stored) != "" {
		p.remember(stored)
		return stored, nil
	}

	generated, err := p.newID()
	if err != nil {
		return "", fmt.Errorf("generate identifier: %w", err)
	}
	if err := p.kv.Set(StorageKey, generated); err != nil {
		return "", apperr.Storage("persist identifier", err)
	}
	p.remember(generated)
	return generated, nil
}

func (p *Provider) remember(id string) {
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
}

func newRandomID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
