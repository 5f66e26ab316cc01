package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/logger"
	"dailyfocus/internal/storage"
)

// runtime holds what every command needs once flags are applied.
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.Storage
	loc   *time.Location
}

// setup loads configuration, applies the global flags, builds the logger and
// opens storage. Scripted commands log warnings to stderr; the dashboard
// owns the terminal and logs to the configured file.
func setup(scripted bool) (*runtime, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	} else if scripted {
		cfg.Log.Level = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	output := cfg.LogPath()
	if scripted && cfg.Log.Output == "" {
		output = "stderr"
	}
	log, err := logger.New(cfg.Log, output)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(storage.Options{
		Backend:    cfg.Storage.Backend,
		DataDir:    cfg.GetDataDir(),
		SQLitePath: cfg.SQLitePath(),
	}, log.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	store.SetOnSave(func(key string) {
		log.Debug("collection saved", zap.String("key", key))
	})

	log.Debug("runtime ready",
		zap.String("data_dir", cfg.GetDataDir()),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("timezone", loc.String()),
	)
	return &runtime{cfg: cfg, log: log, store: store, loc: loc}, nil
}

// controller loads the state through the application controller.
func (rt *runtime) controller() (*app.Controller, error) {
	ctrl, err := app.Load(rt.store, app.DefaultEnv(rt.loc), rt.log.Named("app"))
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}
	return ctrl, nil
}

func (rt *runtime) close() {
	if err := rt.store.Close(); err != nil {
		rt.log.Warn("close storage", zap.Error(err))
	}
	logger.Sync(rt.log)
}

// printWarnings reports recovered data problems before command output.
func (rt *runtime) printWarnings() {
	for _, w := range rt.store.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}
