// Package storage provides the key/value port the account service persists
// through, with afero-backed file and SQLite implementations.
package storage

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a store operation is given an empty key.
var ErrEmptyKey = errors.New("storage: key must not be empty")

// Store is the narrow key/value port the account logic persists through. It
// plays the role browser local storage plays for a web client: string keys,
// string values, no schema.
type Store interface {
	// Get returns the value stored under key. The boolean is false when the
	// key is absent; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// namespaced prefixes every key with a namespace so several devices can
// share one backend without seeing each other's entries.
type namespaced struct {
	store  Store
	prefix string
}

// Namespace scopes store to ns. Keys are stored as "<ns>/<key>".
func Namespace(store Store, ns string) Store {
	return &namespaced{store: store, prefix: ns + "/"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.store.Remove(ctx, n.prefix+key)
}
