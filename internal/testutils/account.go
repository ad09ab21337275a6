package testutils

import (
	"context"
	"sync"

	"github.com/nfrund/starbeam/internal/keypair"
	"github.com/nfrund/starbeam/internal/storage"
)

// FakeGenerator returns a fixed pair, or Err.
type FakeGenerator struct {
	mu    sync.Mutex
	Pair  keypair.Pair
	Err   error
	Calls int
}

// NewFakeGenerator returns a generator yielding a real, valid pair derived
// from a fixed seed.
func NewFakeGenerator() *FakeGenerator {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	pair, err := keypair.FromSeed(seed)
	if err != nil {
		panic(err)
	}
	return &FakeGenerator{Pair: pair}
}

func (g *FakeGenerator) Generate() (keypair.Pair, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.Err != nil {
		return keypair.Pair{}, g.Err
	}
	return g.Pair, nil
}

// SpyStore wraps a storage.Store, counting writes and optionally failing
// them.
type SpyStore struct {
	storage.Store

	mu        sync.Mutex
	SetErr    error
	RemoveErr error
	Writes    int
	// Values records every value passed to Set, in order.
	Values []string
}

// NewSpyStore wraps inner.
func NewSpyStore(inner storage.Store) *SpyStore {
	return &SpyStore{Store: inner}
}

func (s *SpyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.Writes++
	s.Values = append(s.Values, value)
	err := s.SetErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, value)
}

func (s *SpyStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	s.Writes++
	err := s.RemoveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Remove(ctx, key)
}

// WriteCount returns the number of Set and Remove calls seen so far.
func (s *SpyStore) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Writes
}
