package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Options selects and configures a Store backend.
type Options struct {
	Driver      string
	Path        string // file driver
	DatabaseURL string // postgres driver
	// Migrate applies pending schema migrations before connecting.
	Migrate bool
}

// Open returns the Store backend named by opts.Driver.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("file store: path is required")
		}
		logger.Debug().Str("path", opts.Path).Msg("opening file store")
		return OpenFileStore(opts.Path)
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store: database URL is required")
		}
		if opts.Migrate {
			if err := RunMigrations(ctx, opts.DatabaseURL, logger); err != nil {
				return nil, err
			}
		}
		logger.Debug().Msg("connecting to postgres store")
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q; valid values: memory, file, postgres", opts.Driver)
	}
}
