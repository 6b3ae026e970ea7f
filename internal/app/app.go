// Package app provides application-level wiring for masksync: it loads the
// policy documents and assembles the reconciliation engine from the
// externally-provided database handle, config, and logger.
package app

import (
	"fmt"
	"log/slog"

	"masksync/internal/config"
	"masksync/internal/db"
	"masksync/internal/maskconfig"
	"masksync/internal/reconcile"
)

// Deps holds the external dependencies that main() must provide: the
// warehouse handle, runtime config, and the logger.
type Deps struct {
	Cfg    *config.Config
	DB     db.Queryer
	Logger *slog.Logger
}

// App is the fully-wired reconciliation engine.
type App struct {
	MaskConfig *maskconfig.Config
	Reconciler *reconcile.Reconciler
	Scheduler  *reconcile.Scheduler
}

// New loads the two configuration documents and wires the engine.
func New(deps Deps) (*App, error) {
	masking, err := maskconfig.LoadMaskingDoc(deps.Cfg.MaskingPath)
	if err != nil {
		return nil, fmt.Errorf("load masking config: %w", err)
	}
	directory, err := maskconfig.LoadDirectoryDoc(deps.Cfg.DirectoryPath)
	if err != nil {
		return nil, fmt.Errorf("load user directory: %w", err)
	}

	cfg := maskconfig.New(masking, directory, deps.Cfg.Environment)
	queries := db.NewQueries(deps.DB, deps.Logger)
	executor := db.NewPolicyExecutor(deps.DB, deps.Logger)
	reconciler := reconcile.New(cfg, queries, executor, deps.Logger)

	return &App{
		MaskConfig: cfg,
		Reconciler: reconciler,
		Scheduler:  reconcile.NewScheduler(reconciler, deps.Logger),
	}, nil
}
