// Package account creates and deletes the device's single wallet account.
//
// An account is a public key recorded in the device's storage namespace. Its
// secret lives only in the platform biometry vault, and is only handed there
// after the biometry gate authorizes the user.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/starbeam/internal/biometry"
	"github.com/nfrund/starbeam/internal/keypair"
	"github.com/nfrund/starbeam/internal/pubsub"
	"github.com/nfrund/starbeam/internal/storage"
)

// PublicKeyStorageKey is the storage key whose presence means "has account".
const PublicKeyStorageKey = "accountPublicKey"

var (
	// ErrBusy is returned when a create or delete is already running for the
	// same namespace.
	ErrBusy = errors.New("account: another operation is in progress")
	// ErrAlreadyExists is returned by Create when the namespace already holds
	// an account.
	ErrAlreadyExists = errors.New("account: account already exists")
)

// Record is the persisted part of an account.
type Record struct {
	PublicKey string `json:"public_key"`
}

// Service orchestrates the account lifecycle for any number of device
// namespaces sharing one storage backend.
type Service struct {
	store     storage.Store
	generator keypair.Generator
	publisher pubsub.Publisher
	logger    *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher announces account changes on p.
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// NewService creates a Service persisting through store.
func NewService(store storage.Store, generator keypair.Generator, opts ...Option) *Service {
	s := &Service{
		store:     store,
		generator: generator,
		logger:    slog.Default().With("service", "account"),
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire claims namespace for one mutating operation. The returned func
// releases it.
func (s *Service) acquire(namespace string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[namespace]; busy {
		return nil, ErrBusy
	}
	s.inflight[namespace] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, namespace)
		s.mu.Unlock()
	}, nil
}

// Busy reports whether a mutating operation is running for namespace.
func (s *Service) Busy(namespace string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[namespace]
	return busy
}

// Status reads the account record of namespace, if any.
func (s *Service) Status(ctx context.Context, namespace string) (Record, bool, error) {
	publicKey, ok, err := storage.Namespace(s.store, namespace).Get(ctx, PublicKeyStorageKey)
	if err != nil {
		return Record{}, false, fmt.Errorf("read account: %w", err)
	}
	if !ok {
		return Record{}, false, nil
	}
	return Record{PublicKey: publicKey}, true, nil
}

// Create runs the biometry gate on manager and, once authorized, generates a
// keypair, hands the secret to the vault and records the public key.
//
// Nothing is written to storage unless the gate authorizes and the vault
// accepts the secret. If the storage write fails after the vault stored the
// secret, the vault is cleared again.
func (s *Service) Create(ctx context.Context, namespace string, manager biometry.Manager) (Record, error) {
	release, err := s.acquire(namespace)
	if err != nil {
		return Record{}, err
	}
	defer release()

	logger := s.logger.With("namespace", namespace)
	store := storage.Namespace(s.store, namespace)

	if _, exists, err := store.Get(ctx, PublicKeyStorageKey); err != nil {
		return Record{}, fmt.Errorf("read account: %w", err)
	} else if exists {
		return Record{}, ErrAlreadyExists
	}

	outcome, err := biometry.NewGate(manager).Run(ctx)
	if err != nil {
		logger.InfoContext(ctx, "biometry gate refused account creation", "state", outcome.State.String(), "error", err)
		return Record{}, err
	}

	pair, err := s.generator.Generate()
	if err != nil {
		return Record{}, fmt.Errorf("generate keypair: %w", err)
	}

	vaulted := false
	if manager.Supports(biometry.OpUpdateToken) {
		secret := pair.Secret
		if err := manager.UpdateToken(ctx, &secret); err != nil {
			return Record{}, fmt.Errorf("store secret: %w", err)
		}
		vaulted = true
	} else {
		logger.WarnContext(ctx, "biometry vault cannot store tokens, secret not persisted")
	}
	pair.Secret = ""

	if err := store.Set(ctx, PublicKeyStorageKey, pair.PublicKey); err != nil {
		if vaulted {
			if rbErr := manager.UpdateToken(ctx, nil); rbErr != nil {
				logger.ErrorContext(ctx, "failed to roll back vault after storage error", "error", rbErr)
			}
		}
		return Record{}, fmt.Errorf("record public key: %w", err)
	}

	logger.InfoContext(ctx, "Account created successfully", "public_key", pair.PublicKey)
	record := Record{PublicKey: pair.PublicKey}
	s.publish(ctx, Created, namespace, Event{Namespace: namespace, PublicKey: record.PublicKey})
	return record, nil
}

// Delete erases the vault secret and the recorded public key.
func (s *Service) Delete(ctx context.Context, namespace string, manager biometry.Manager) error {
	release, err := s.acquire(namespace)
	if err != nil {
		return err
	}
	defer release()

	logger := s.logger.With("namespace", namespace)

	if manager.Supports(biometry.OpUpdateToken) {
		if err := manager.UpdateToken(ctx, nil); err != nil {
			return fmt.Errorf("clear secret: %w", err)
		}
	}

	if err := storage.Namespace(s.store, namespace).Remove(ctx, PublicKeyStorageKey); err != nil {
		return fmt.Errorf("remove public key: %w", err)
	}

	logger.InfoContext(ctx, "Account deleted successfully")
	s.publish(ctx, Deleted, namespace, Event{Namespace: namespace})
	return nil
}

func (s *Service) publish(ctx context.Context, event pubsub.Event[Event], namespace string, payload Event) {
	if s.publisher == nil {
		return
	}
	if err := pubsub.Publish(ctx, s.publisher, event, namespace, payload); err != nil {
		s.logger.WarnContext(ctx, "failed to publish account event", "topic", event.Name(), "error", err)
	}
}
