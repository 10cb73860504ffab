package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sheetsync/internal/config"
	"sheetsync/internal/logger"
	"sheetsync/internal/normalizer"
	"sheetsync/internal/output"
	"sheetsync/internal/sheets"
	"sheetsync/internal/syncer"
	"sheetsync/internal/syncstate"
)

const defaultConfigHint = config.DefaultConfigPath + " if present"

// Deps holds the components a command works with.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	Source syncer.Source
	Store  syncstate.Store
}

// withDeps loads config and builds dependencies, then calls fn.
// The state store is closed afterwards.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	source, err := newSource(ctx, cfg.Source, log)
	if err != nil {
		return fmt.Errorf("creating source: %w", err)
	}

	store, err := syncstate.Open(ctx, cfg.State)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	return fn(&Deps{
		Config: cfg,
		Logger: log,
		Source: source,
		Store:  store,
	})
}

// withState opens only the state store.
func withState(ctx context.Context, fn func(*config.Config, syncstate.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := syncstate.Open(ctx, cfg.State)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	return fn(cfg, store)
}

// newSyncer wires the orchestrator from deps.
func (d *Deps) newSyncer() (*syncer.Syncer, error) {
	writer := output.NewWriter(output.Options{
		DataDir:      d.Config.Output.DataDir,
		ManifestPath: d.Config.Output.ManifestPath,
		PruneStale:   d.Config.Output.PruneStale,
	}, d.Logger)

	return syncer.New(syncer.Deps{
		Source:    d.Source,
		Store:     d.Store,
		Processor: normalizer.NewProcessor(),
		Writer:    writer,
		Logger:    d.Logger,
	})
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath(globalConfig)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if globalLogLevel != "" {
		cfg.Logging.Level = globalLogLevel

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}

	return cfg, nil
}

// resolveConfigPath returns the explicit path, or the default path when that
// file exists, or "" to run on defaults and environment alone.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	_, err := os.Stat(config.DefaultConfigPath)
	switch {
	case err == nil:
		return config.DefaultConfigPath, nil
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("checking default config: %w", err)
	}
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func newSource(ctx context.Context, cfg config.SourceConfig, log *logger.Logger) (syncer.Source, error) {
	switch cfg.Kind {
	case config.SourceKindCSV:
		return sheets.NewCSVSource(cfg.CSVFile), nil
	case config.SourceKindSheets:
		httpClient, err := sheets.NewHTTPClient(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return sheets.NewClient(ctx, sheets.Options{
			HTTPClient:     httpClient,
			BaseURL:        cfg.BaseURL,
			SheetID:        cfg.SheetID,
			WorksheetName:  cfg.WorksheetName,
			APIKey:         cfg.APIKey,
			WorksheetIndex: cfg.WorksheetIndex,
		}, log)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSourceKind, cfg.Kind)
	}
}
