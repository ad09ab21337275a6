package app

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/nfrund/starbeam/internal/account"
	"github.com/nfrund/starbeam/internal/biometry/bridge"
	"github.com/nfrund/starbeam/internal/config"
	"github.com/nfrund/starbeam/internal/keypair"
	"github.com/nfrund/starbeam/internal/pubsub"
	"github.com/nfrund/starbeam/internal/rendering"
	"github.com/nfrund/starbeam/internal/storage"
)

// Resources are the long-lived handles the server must release on shutdown.
type Resources struct {
	Store      storage.Store
	CloseStore func() error
	Bus        pubsub.Bus
}

// NewInjector opens the store and provides the core services every module
// may depend on.
func NewInjector(ctx context.Context, cfg *config.Config) (do.Injector, *Resources, error) {
	store, closeStore, err := storage.Open(ctx, cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	res := &Resources{
		Store:      store,
		CloseStore: closeStore,
		Bus:        pubsub.NewWatermillBridge(),
	}

	i := do.New()
	do.ProvideValue(i, cfg)
	do.ProvideValue(i, res.Store)
	do.ProvideValue(i, res.Bus)
	do.Provide(i, func(do.Injector) (keypair.Generator, error) {
		return keypair.NewStellar(), nil
	})
	do.Provide(i, func(i do.Injector) (*account.Service, error) {
		return account.NewService(
			do.MustInvoke[storage.Store](i),
			do.MustInvoke[keypair.Generator](i),
			account.WithPublisher(do.MustInvoke[pubsub.Bus](i)),
		), nil
	})
	do.Provide(i, func(i do.Injector) (*bridge.Registry, error) {
		return bridge.NewRegistry(do.MustInvoke[*config.Config](i).BridgeCallTimeout), nil
	})
	do.Provide(i, func(do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})
	return i, res, nil
}

// Close releases the bus and the store.
func (r *Resources) Close() error {
	return errors.Join(r.Bus.Close(), r.CloseStore())
}
