// Package app wires the kitchen pipeline: storage, constraint engine,
// executor, and view invalidation.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/harvestline/kitchenops/internal/kitchen/command"
	"github.com/harvestline/kitchenops/internal/kitchen/constraint"
	"github.com/harvestline/kitchenops/internal/kitchen/executor"
	"github.com/harvestline/kitchenops/internal/kitchen/storage/sqlite"
)

// RuntimeConfig holds the dependencies the kitchen runtime needs.
type RuntimeConfig struct {
	DBPath string
	Logger *log.Logger
}

// Runtime bundles an open store with a ready executor.
type Runtime struct {
	Store    *sqlite.Store
	Executor *executor.Executor
	logger   *log.Logger
}

// NewRuntime opens the store, runs migrations, and builds the executor with
// the default constraint catalog.
func NewRuntime(cfg RuntimeConfig) (*Runtime, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open kitchen store: %w", err)
	}

	logger := cfg.Logger
	exec, err := executor.New(executor.Config{
		Store:  store,
		Engine: constraint.NewEngine(constraint.DefaultRules()...),
		Logger: logger,
		Invalidator: executor.ViewInvalidatorFunc(func(_ context.Context, tenantID string, aggregateType command.AggregateType, aggregateID string) {
			logger.Printf("invalidate views tenant=%s %s=%s", tenantID, aggregateType, aggregateID)
		}),
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build executor: %w", err)
	}

	return &Runtime{Store: store, Executor: exec, logger: logger}, nil
}

// Close releases the runtime's store.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}
