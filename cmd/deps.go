package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/config"
	"github.com/sproutcare/sprout/internal/fallback"
	"github.com/sproutcare/sprout/internal/lifecycle"
	"github.com/sproutcare/sprout/internal/llm"
	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/session"
	"github.com/sproutcare/sprout/internal/store"
	"github.com/sproutcare/sprout/internal/suggest"
)

// deps are the collaborators shared by every command. Build them with
// openDeps and release them with Close.
type deps struct {
	cfg   *config.Config
	log   *logging.Logger
	store *store.Store

	closers []func() error
}

// openDeps loads configuration, builds the logger and opens the store.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	return &deps{cfg: cfg, log: log, store: st, closers: []func() error{st.Close}}, nil
}

// Close releases everything in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.log.Warn("close failed", "error", err)
		}
	}
	d.log.Sync()
}

// lifecycle returns the activity lifecycle store.
func (d *deps) lifecycle() *lifecycle.Store {
	return lifecycle.New(d.store.Activities(), d.store.Students(), lifecycle.WithLogger(d.log))
}

// sessions returns a session manager backed by Redis when configured.
func (d *deps) sessions(ctx context.Context) (*session.Manager, error) {
	if d.cfg.Redis.Addr == "" {
		return session.NewManager(nil), nil
	}
	b, err := session.NewRedisBackend(ctx, d.cfg.Redis.Addr, d.cfg.Redis.Password, d.cfg.Redis.DB, d.cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("connect session backend: %w", err)
	}
	d.closers = append(d.closers, b.Close)
	return session.NewManager(b), nil
}

// suggester builds the suggestion service. A provider that cannot be
// built is reported and the service runs on the fallback engine alone.
func (d *deps) suggester(ctx context.Context) *suggest.Service {
	provider, err := llm.NewProvider(ctx, d.cfg.LLM, d.store.EventRepo(), d.log)
	if err != nil {
		d.log.Warn("AI provider unavailable, using built-in templates", "provider", d.cfg.LLM.Provider, "error", err)
		provider = nil
	}
	return suggest.NewService(suggest.Deps{
		Provider: provider,
		Engine:   fallback.New(),
		Students: d.store.Students(),
		History:  d.store.Activities(),
		Log:      d.log,
	}, d.cfg.Suggest)
}
