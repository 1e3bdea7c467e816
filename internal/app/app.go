package app

import (
	"context"
	"log/slog"

	postgres "github.com/heartmarshall/wordwise/internal/adapter/postgres"
	"github.com/heartmarshall/wordwise/internal/allowlist"
	"github.com/heartmarshall/wordwise/internal/config"
	"github.com/heartmarshall/wordwise/internal/progress"
)

// Run wires the configured allow-list source and runs the given pipeline
// phases. It returns the per-phase results even when a phase fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, notifier *progress.Notifier, phases []string) (map[string]PhaseResult, error) {
	logger.Info("starting wordwise",
		slog.String("version", BuildVersion()),
		slog.String("lang", cfg.Lexicon.Language),
	)

	var allow allowlist.Source
	if containsPhase(phases, PhaseExtract) {
		src, closeFn, err := NewAllowListSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		allow = src
	}

	p := NewPipeline(logger, cfg, allow, notifier)
	err := p.Run(ctx, phases)
	return p.Results(), err
}

// NewAllowListSource builds the allow-list source selected by cfg, or nil
// when none is configured. The returned func releases its resources.
func NewAllowListSource(ctx context.Context, cfg *config.Config) (allowlist.Source, func(), error) {
	switch {
	case cfg.AllowList.FromCatalog:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		src, err := allowlist.NewCatalogSource(pool, cfg.AllowList.Table, cfg.AllowList.Column, cfg.AllowList.CoreOnly)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return src, pool.Close, nil
	case cfg.AllowList.Path != "":
		return allowlist.FileSource{Path: cfg.AllowList.Path}, func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

func containsPhase(phases []string, phase string) bool {
	if len(phases) == 0 {
		return true
	}
	for _, ph := range phases {
		if ph == phase {
			return true
		}
	}
	return false
}
