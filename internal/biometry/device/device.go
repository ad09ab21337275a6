// Package device implements biometry.Manager for the command line: the OS
// keyring is the vault and a terminal prompt stands in for the biometric
// check.
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/nfrund/starbeam/internal/biometry"
)

// Service is the keyring service name secrets are stored under.
const Service = "starbeam"

// Keyring is the subset of the OS keyring the vault needs.
type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

// OSKeyring is the system keyring via zalando/go-keyring.
type OSKeyring struct{}

func (OSKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }

func (OSKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

func (OSKeyring) Delete(service, user string) error { return keyring.Delete(service, user) }

// Prompter asks the person at the terminal to approve an operation.
type Prompter interface {
	// Interactive reports whether anyone can answer prompts.
	Interactive() bool
	// Confirm asks a yes/no question.
	Confirm(reason string) (bool, error)
	// Verify asks the user to type expected back without echo.
	Verify(reason, expected string) (bool, error)
}

// Manager is a biometry.Manager whose vault entry is keyed by namespace.
type Manager struct {
	namespace string
	keyring   Keyring
	prompter  Prompter
}

var _ biometry.Manager = (*Manager)(nil)

// New returns a Manager for namespace.
func New(namespace string, kr Keyring, prompter Prompter) *Manager {
	return &Manager{namespace: namespace, keyring: kr, prompter: prompter}
}

// Supports implements biometry.Manager. Prompts need a terminal, so access
// and authentication are unavailable when nobody can answer.
func (m *Manager) Supports(op biometry.Operation) bool {
	switch op {
	case biometry.OpMount, biometry.OpUpdateToken:
		return true
	case biometry.OpRequestAccess, biometry.OpAuthenticate:
		return m.prompter.Interactive()
	}
	return false
}

// Mount checks that the keyring answers.
func (m *Manager) Mount(context.Context) error {
	if _, err := m.keyring.Get(Service, m.namespace); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring unavailable: %w", err)
	}
	return nil
}

// RequestAccess implements biometry.Manager.
func (m *Manager) RequestAccess(_ context.Context, reason string) (bool, error) {
	return m.prompter.Confirm(reason)
}

// Authenticate asks the user to type the namespace back.
func (m *Manager) Authenticate(_ context.Context, reason string) (biometry.AuthResult, error) {
	ok, err := m.prompter.Verify(reason, m.namespace)
	if err != nil {
		return biometry.AuthResult{}, err
	}
	if !ok {
		return biometry.AuthResult{Status: "failed"}, nil
	}
	return biometry.AuthResult{Status: biometry.StatusAuthorized}, nil
}

// UpdateToken stores token in the keyring, or deletes the entry when token
// is nil. Deleting an absent entry is not an error.
func (m *Manager) UpdateToken(_ context.Context, token *string) error {
	if token == nil {
		if err := m.keyring.Delete(Service, m.namespace); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("delete keyring entry: %w", err)
		}
		return nil
	}
	if err := m.keyring.Set(Service, m.namespace, *token); err != nil {
		return fmt.Errorf("write keyring entry: %w", err)
	}
	return nil
}

// HasToken reports whether the vault holds a secret for the namespace.
func (m *Manager) HasToken() (bool, error) {
	_, err := m.keyring.Get(Service, m.namespace)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
