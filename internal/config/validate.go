package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Validate reports every invalid setting in c.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case "memory", "file", "postgres":
	default:
		errs = append(errs, fmt.Errorf("store.driver: invalid value %q; valid values: memory, file, postgres", c.Store.Driver))
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		errs = append(errs, errors.New("store.database_url: required for the postgres driver (or set DATABASE_URL)"))
	}
	if c.Store.Driver == "file" && c.Store.Path == "" {
		errs = append(errs, errors.New("store.path: required for the file driver"))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: invalid value %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: invalid value %q; valid values: json, console", c.Log.Format))
	}

	if c.AWS.DaysBack <= 0 || c.AWS.DaysBack > 365 {
		errs = append(errs, fmt.Errorf("aws.days_back: must lie in [1,365], got %d", c.AWS.DaysBack))
	}

	return errors.Join(errs...)
}
