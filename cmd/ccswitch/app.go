package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/benaskins/ccswitch/internal/audit"
	"github.com/benaskins/ccswitch/internal/config"
	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/platform"
	"github.com/benaskins/ccswitch/internal/switcher"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg    *config.Config
	paths  config.Paths
	engine *switcher.Engine
	audit  *audit.Logger
}

// openApp loads configuration and wires the engine. actor names the
// front-end in audit entries.
func openApp(actor string) (*app, error) {
	baseDir, err := config.DefaultBaseDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.DefaultPath(baseDir))
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	paths, err := config.NewPaths(baseDir, cfg)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}

	backend := platform.BackendFor(platform.Current(), cfg.Backend())
	logger.Debug("credential backend selected", "backend", backend, "base_dir", baseDir)
	store := credential.New(backend, paths, cfg)

	var auditLog *audit.Logger
	if cfg.AuditEnabled() {
		auditLog, err = audit.NewLogger(paths.AuditLog())
		if err != nil {
			return nil, fmt.Errorf("opening audit log: %w", err)
		}
		store = credential.NewAuditedStore(store, auditLog, actor, logger)
	}

	engine := switcher.NewEngine(paths, store,
		switcher.WithAudit(auditLog),
		switcher.WithLogger(logger.With("component", "switcher")),
		switcher.WithActor(actor),
	)
	return &app{cfg: cfg, paths: paths, engine: engine, audit: auditLog}, nil
}

func (a *app) Close() {
	if err := a.audit.Close(); err != nil {
		slog.Warn("closing audit log", "error", err)
	}
}
