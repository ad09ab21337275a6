package storage

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
)

// Backend names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Open returns the store for driver at path together with a function that
// releases it.
func Open(ctx context.Context, driver, path string) (Store, func() error, error) {
	switch driver {
	case DriverSQLite:
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverFile:
		return NewFileStore(afero.NewOsFs(), path), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
