package testutils

import (
	"context"
	"sync"

	"github.com/nfrund/starbeam/internal/biometry"
)

// FakeBiometry is a scriptable biometry.Manager. The zero value supports
// nothing; use NewFakeBiometry for a device that supports everything and
// authorizes every prompt.
type FakeBiometry struct {
	mu sync.Mutex

	Caps       biometry.Capabilities
	MountErr   error
	Granted    bool
	AccessErr  error
	AuthStatus string
	AuthErr    error
	// UpdateErrs is consumed one entry per UpdateToken call; a nil entry or
	// an exhausted slice means success.
	UpdateErrs []error

	// Calls records operations in the order they were invoked.
	Calls []biometry.Operation
	// Tokens records every token passed to UpdateToken; nil means erase.
	Tokens  []*string
	Reasons []string
	// Stored is the vault content after the last successful UpdateToken.
	Stored *string
}

// NewFakeBiometry returns a fully capable device that grants access and
// authorizes.
func NewFakeBiometry() *FakeBiometry {
	caps := biometry.Capabilities{}
	for _, op := range biometry.Operations {
		caps[op] = true
	}
	return &FakeBiometry{
		Caps:       caps,
		Granted:    true,
		AuthStatus: biometry.StatusAuthorized,
	}
}

// Without returns f with op removed from its capabilities.
func (f *FakeBiometry) Without(op biometry.Operation) *FakeBiometry {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Caps, op)
	return f
}

func (f *FakeBiometry) record(op biometry.Operation) {
	f.Calls = append(f.Calls, op)
}

func (f *FakeBiometry) Supports(op biometry.Operation) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Caps.Supports(op)
}

func (f *FakeBiometry) Mount(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(biometry.OpMount)
	return f.MountErr
}

func (f *FakeBiometry) RequestAccess(ctx context.Context, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(biometry.OpRequestAccess)
	f.Reasons = append(f.Reasons, reason)
	return f.Granted, f.AccessErr
}

func (f *FakeBiometry) Authenticate(ctx context.Context, reason string) (biometry.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(biometry.OpAuthenticate)
	f.Reasons = append(f.Reasons, reason)
	return biometry.AuthResult{Status: f.AuthStatus}, f.AuthErr
}

func (f *FakeBiometry) UpdateToken(ctx context.Context, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(biometry.OpUpdateToken)
	f.Tokens = append(f.Tokens, token)

	var err error
	if len(f.UpdateErrs) > 0 {
		err, f.UpdateErrs = f.UpdateErrs[0], f.UpdateErrs[1:]
	}
	if err == nil {
		f.Stored = token
	}
	return err
}

// CallCount returns how many times op was invoked.
func (f *FakeBiometry) CallCount(op biometry.Operation) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}
