// Package biometry defines the port to a platform biometry vault and the
// gate that must pass before a secret may be stored in it.
//
// A platform may expose only some biometry operations. Every optional
// operation is therefore probed through Manager.Supports before it is called,
// and an unsupported step is skipped rather than treated as a failure.
package biometry

import (
	"context"
	"errors"
)

// Operation names one capability a Manager may expose.
type Operation string

const (
	OpMount         Operation = "mount"
	OpRequestAccess Operation = "request_access"
	OpAuthenticate  Operation = "authenticate"
	OpUpdateToken   Operation = "update_token"
)

// Operations lists every known operation in gate order.
var Operations = []Operation{OpMount, OpRequestAccess, OpAuthenticate, OpUpdateToken}

// StatusAuthorized is the only authentication status that passes the gate.
const StatusAuthorized = "authorized"

// AuthResult is what the platform reports after a biometric prompt.
type AuthResult struct {
	Status string
}

// Authorized reports whether the prompt succeeded.
func (r AuthResult) Authorized() bool {
	return r.Status == StatusAuthorized
}

// Manager is a platform biometry subsystem together with its secure token
// store. Callers must check Supports before invoking an operation.
type Manager interface {
	Supports(op Operation) bool
	Mount(ctx context.Context) error
	RequestAccess(ctx context.Context, reason string) (bool, error)
	Authenticate(ctx context.Context, reason string) (AuthResult, error)
	// UpdateToken stores token in the vault. A nil token erases it.
	UpdateToken(ctx context.Context, token *string) error
}

// Sentinel errors for the gate outcomes that carry their own user-facing
// message; see Message.
var (
	ErrUnavailable  = errors.New("biometry: not available on this device")
	ErrAccessDenied = errors.New("biometry: access denied")
	ErrAuthFailed   = errors.New("biometry: authentication failed")
	// ErrUnsupported is returned by a Manager asked to run an operation it
	// does not support.
	ErrUnsupported = errors.New("biometry: operation not supported")
)

// Message returns the user-facing text for a gate error, or "" if err is not
// one of the gate outcomes.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "Biometry is not available on your device"
	case errors.Is(err, ErrAccessDenied):
		return "Biometry access denied"
	case errors.Is(err, ErrAuthFailed):
		return "Authentication failed"
	}
	return ""
}

// Capabilities is a static capability set, handy for adapters whose
// supported operations are known up front.
type Capabilities map[Operation]bool

// Supports reports whether op is in the set.
func (c Capabilities) Supports(op Operation) bool {
	return c[op]
}

// CapabilitiesOf collects the operations m supports.
func CapabilitiesOf(m Manager) Capabilities {
	caps := Capabilities{}
	for _, op := range Operations {
		if m.Supports(op) {
			caps[op] = true
		}
	}
	return caps
}

// Unsupported is a Manager for devices with no biometry at all.
type Unsupported struct{}

func (Unsupported) Supports(Operation) bool { return false }

func (Unsupported) Mount(context.Context) error { return ErrUnsupported }

func (Unsupported) RequestAccess(context.Context, string) (bool, error) {
	return false, ErrUnsupported
}

func (Unsupported) Authenticate(context.Context, string) (AuthResult, error) {
	return AuthResult{}, ErrUnsupported
}

func (Unsupported) UpdateToken(context.Context, *string) error { return ErrUnsupported }
