// Package keypair generates the account keypairs Starbeam hands out.
//
// Keys are ed25519 encoded as Stellar strkeys by the Stellar Go SDK. Public
// keys start with 'G', secret seeds with 'S'.
package keypair

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	stellar "github.com/stellar/go/keypair"
)

// SeedSize is the length of a raw ed25519 seed.
const SeedSize = 32

// ErrInvalidSeed is returned for raw seeds of the wrong length.
var ErrInvalidSeed = errors.New("keypair: seed must be 32 bytes")

// Pair is a freshly generated account keypair. Secret must go straight to the
// vault and never be persisted or logged by the caller.
type Pair struct {
	PublicKey string
	Secret    string
}

// Generator produces keypairs on demand.
type Generator interface {
	Generate() (Pair, error)
}

// Stellar generates Stellar account keypairs.
type Stellar struct {
	rand io.Reader
}

// NewStellar returns a generator reading entropy from crypto/rand.
func NewStellar() *Stellar {
	return &Stellar{rand: rand.Reader}
}

// NewStellarFromReader is NewStellar with an explicit entropy source, for
// deterministic tests.
func NewStellarFromReader(r io.Reader) *Stellar {
	return &Stellar{rand: r}
}

// Generate implements Generator.
func (s *Stellar) Generate() (Pair, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(s.rand, seed); err != nil {
		return Pair{}, fmt.Errorf("read seed entropy: %w", err)
	}
	return FromSeed(seed)
}

// FromSeed derives the keypair for a raw 32-byte ed25519 seed.
func FromSeed(seed []byte) (Pair, error) {
	if len(seed) != SeedSize {
		return Pair{}, fmt.Errorf("%w: got %d", ErrInvalidSeed, len(seed))
	}
	var raw [SeedSize]byte
	copy(raw[:], seed)

	full, err := stellar.FromRawSeed(raw)
	if err != nil {
		return Pair{}, fmt.Errorf("derive keypair: %w", err)
	}
	return Pair{PublicKey: full.Address(), Secret: full.Seed()}, nil
}

// PublicKeyFromSecret re-derives the public strkey for an S... secret.
func PublicKeyFromSecret(secret string) (string, error) {
	full, err := stellar.ParseFull(secret)
	if err != nil {
		return "", fmt.Errorf("parse secret: %w", err)
	}
	return full.Address(), nil
}
