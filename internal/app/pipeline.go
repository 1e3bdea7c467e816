package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/wordwise/internal/allowlist"
	"github.com/heartmarshall/wordwise/internal/config"
	"github.com/heartmarshall/wordwise/internal/lexicon"
	"github.com/heartmarshall/wordwise/internal/lexicon/wiktionary"
	"github.com/heartmarshall/wordwise/internal/matcher"
	"github.com/heartmarshall/wordwise/internal/progress"
	"github.com/heartmarshall/wordwise/pkg/ctxutil"
)

// Phase names in canonical execution order.
const (
	PhaseExtract = "extract"
	PhaseCompile = "compile"
)

var allPhases = []string{PhaseExtract, PhaseCompile}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Entries  int
	Enabled  int
	Patterns int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Pipeline runs extraction and compilation for one language.
type Pipeline struct {
	log      *slog.Logger
	cfg      *config.Config
	allow    allowlist.Source
	notifier *progress.Notifier
	results  map[string]PhaseResult
}

// NewPipeline creates a new Pipeline. allow and notifier may be nil.
func NewPipeline(log *slog.Logger, cfg *config.Config, allow allowlist.Source, notifier *progress.Notifier) *Pipeline {
	return &Pipeline{
		log:      log,
		cfg:      cfg,
		allow:    allow,
		notifier: notifier,
		results:  make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, still in canonical order. The first failing phase stops the run.
// Log lines carry the context's run ID, generated when absent.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun, err := selectPhases(phases)
	if err != nil {
		return err
	}

	ctx, runID := ctxutil.EnsureRunID(ctx)
	p.log = p.log.With(slog.String("run_id", runID.String()))

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case PhaseExtract:
			result = p.runExtract(ctx)
		case PhaseCompile:
			result = p.runCompile()
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Error("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			return fmt.Errorf("%s: %w", phase, result.Err)
		}

		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("entries", result.Entries),
			slog.Int("enabled", result.Enabled),
			slog.Int("patterns", result.Patterns),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration),
		)
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func selectPhases(phases []string) ([]string, error) {
	if len(phases) == 0 {
		return allPhases, nil
	}

	filter := make(map[string]bool, len(phases))
	for _, ph := range phases {
		if ph != PhaseExtract && ph != PhaseCompile {
			return nil, fmt.Errorf("unknown phase %q", ph)
		}
		filter[ph] = true
	}

	var filtered []string
	for _, ph := range allPhases {
		if filter[ph] {
			filtered = append(filtered, ph)
		}
	}
	return filtered, nil
}

// runExtract filters the dump into a lexicon store and removes the dump
// unless it is configured to be kept.
func (p *Pipeline) runExtract(ctx context.Context) PhaseResult {
	profile, err := p.cfg.Profile()
	if err != nil {
		return PhaseResult{Err: err}
	}

	allow, err := p.loadAllowList(ctx)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("load allow-list: %w", err)}
	}

	dumpPath := p.cfg.DumpPath(profile)
	entries, stats, err := wiktionary.ExtractFile(dumpPath, wiktionary.Options{
		Profile:          profile,
		AllowList:        allow,
		Notifier:         p.notifier,
		ProgressInterval: p.cfg.Progress.Interval,
		Logger:           p.log,
	})
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("extract %s: %w", dumpPath, err)}
	}

	p.log.Info("wiktionary extracted",
		slog.String("lang", profile.Code),
		slog.Int("total_lines", stats.TotalLines),
		slog.Int("malformed_lines", stats.MalformedLines),
		slog.Int("missing_fields", stats.MissingFields),
		slog.Int("rejected_records", stats.RejectedRecords),
		slog.Int("dropped_senses", stats.DroppedSenses),
		slog.Int("demoted_entries", stats.DemotedEntries),
		slog.Int("pruned_forms", stats.PrunedForms),
	)

	storePath := p.cfg.StorePath(profile)
	if err := lexicon.NewStore(entries).Save(storePath); err != nil {
		return PhaseResult{Err: fmt.Errorf("save store: %w", err)}
	}
	p.log.Info("lexicon store saved", slog.String("path", storePath))

	if !p.cfg.Lexicon.KeepDump {
		if err := os.Remove(dumpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.log.Warn("could not delete dump", slog.String("path", dumpPath), slog.String("error", err.Error()))
		}
	}

	return PhaseResult{
		Entries: stats.Entries,
		Enabled: stats.EnabledEntries,
		Skipped: stats.MalformedLines + stats.MissingFields + stats.RejectedRecords,
	}
}

func (p *Pipeline) loadAllowList(ctx context.Context) (map[string]bool, error) {
	if p.allow == nil {
		return nil, nil
	}

	if p.cfg.AllowList.FromCatalog && p.cfg.Database.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Database.QueryTimeout)
		defer cancel()
	}

	allow, err := p.allow.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.log.Info("allow-list loaded", slog.Int("words", len(allow)))
	return allow, nil
}

// runCompile builds the matcher from the store and writes the artifact.
func (p *Pipeline) runCompile() PhaseResult {
	profile, err := p.cfg.Profile()
	if err != nil {
		return PhaseResult{Err: err}
	}

	compression, err := matcher.ParseCompression(p.cfg.Matcher.Compression)
	if err != nil {
		return PhaseResult{Err: err}
	}

	store, err := lexicon.Load(p.cfg.StorePath(profile))
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("load store: %w", err)}
	}

	m, stats, err := matcher.Compile(store, profile.Strategy, p.notifier)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("compile: %w", err)}
	}

	path := p.cfg.MatcherPath(profile)
	h, err := matcher.Save(path, m, compression)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("save matcher: %w", err)}
	}

	p.log.Info("matcher saved",
		slog.String("path", path),
		slog.String("build_id", h.ID().String()),
		slog.String("compression", matcher.Compression(h.Compression).String()),
		slog.Uint64("body_bytes", h.BodyLength),
		slog.Int("payloads", stats.Payloads),
		slog.Int("forms", stats.Forms),
	)

	return PhaseResult{
		Entries:  stats.Entries,
		Enabled:  stats.Entries,
		Patterns: stats.Patterns,
		Skipped:  stats.Duplicates,
	}
}
