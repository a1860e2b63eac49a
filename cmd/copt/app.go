package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/config"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/engine"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/health"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/logging"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/rulepacks/optimization"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/store"
)

// skipConfigAnnotation marks commands that run without loading config.
const skipConfigAnnotation = "copt/skip-config"

// globalFlags are the persistent flags shared by every command. Non-empty
// values override the config file and environment.
type globalFlags struct {
	configPath  string
	policyPath  string
	storeDriver string
	logLevel    string
}

// app carries the state resolved once per invocation by the root command.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	logger zerolog.Logger
}

// load resolves configuration and builds a logger writing to logOut.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.NewFileLoader(a.flags.configPath).Load()
	if err != nil {
		return err
	}
	if a.flags.storeDriver != "" {
		cfg.Store.Driver = a.flags.storeDriver
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.policyPath != "" {
		cfg.Policy.Path = a.flags.policyPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cfg.Log, logOut)
	return nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, store.Options{
		Driver:      a.cfg.Store.Driver,
		Path:        a.cfg.Store.Path,
		DatabaseURL: a.cfg.Store.DatabaseURL,
		Migrate:     a.cfg.Store.AutoMigrate,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Driver, err)
	}
	return s, nil
}

// loadPolicy returns the configured policy, or nil when none is set.
func (a *app) loadPolicy() (*policy.PolicyConfig, error) {
	if a.cfg.Policy.Path == "" {
		return nil, nil
	}
	return loadAndValidatePolicy(a.cfg.Policy.Path)
}

func (a *app) engine(pol *policy.PolicyConfig) *engine.OptimizationEngine {
	return engine.NewOptimizationEngine(optimization.NewRegistry(), pol)
}

// loadAndValidatePolicy loads path and rejects it when any validation error
// is found.
func loadAndValidatePolicy(path string) (*policy.PolicyConfig, error) {
	pol, err := policy.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	if errs := policy.Validate(pol, knownRuleIDs()); len(errs) > 0 {
		return nil, fmt.Errorf("invalid policy %s: %w", path, errors.Join(errs...))
	}
	return pol, nil
}

// knownRuleIDs lists every key accepted under rules: in a policy file.
func knownRuleIDs() []string {
	return append(optimization.NewRegistry().IDs(), health.PolicyKey)
}

// parseFormat accepts the two report formats.
func parseFormat(s string) (engine.ReportFormat, error) {
	switch f := engine.ReportFormat(s); f {
	case engine.ReportFormatTable, engine.ReportFormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q; valid values: table, json", s)
}
