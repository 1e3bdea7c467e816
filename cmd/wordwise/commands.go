package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/heartmarshall/wordwise/internal/app"
	"github.com/heartmarshall/wordwise/internal/config"
	"github.com/heartmarshall/wordwise/internal/domain"
	"github.com/heartmarshall/wordwise/internal/lexicon"
	"github.com/heartmarshall/wordwise/internal/matcher"
	"github.com/heartmarshall/wordwise/internal/progress"
	"github.com/heartmarshall/wordwise/internal/textsource"
)

// Flag constructors return fresh values so commands never share flag state.
func langFlag() cli.Flag {
	return &cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "ISO 639 language code"}
}

func dataDirFlag() cli.Flag {
	return &cli.StringFlag{Name: "data-dir", Usage: "directory for default dump, store and matcher paths"}
}

func dumpFlag() cli.Flag {
	return &cli.StringFlag{Name: "dump", Usage: "Kaikki JSONL dump path"}
}

func storeFlag() cli.Flag {
	return &cli.StringFlag{Name: "store", Usage: "lexicon store path"}
}

func matcherFlag() cli.Flag {
	return &cli.StringFlag{Name: "matcher", Aliases: []string{"m"}, Usage: "matcher artifact path"}
}

func allowListFlag() cli.Flag {
	return &cli.StringFlag{Name: "allowlist", Usage: "word list restricting enabled entries"}
}

func keepDumpFlag() cli.Flag {
	return &cli.BoolFlag{Name: "keep-dump", Usage: "do not delete the dump after extraction"}
}

func compressionFlag() cli.Flag {
	return &cli.StringFlag{Name: "compression", Usage: "artifact compression: zstd, lz4 or none"}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "wordwise",
		Usage:   "build and query Wiktionary lexicon matchers",
		Version: app.BuildVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"CONFIG_PATH"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.BoolFlag{Name: "progress", Usage: "print progress to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "filter a Kaikki JSONL dump into a lexicon store",
				Flags:  []cli.Flag{langFlag(), dataDirFlag(), dumpFlag(), storeFlag(), allowListFlag(), keepDumpFlag()},
				Action: phaseAction(app.PhaseExtract),
			},
			{
				Name:   "compile",
				Usage:  "compile a lexicon store into a matcher artifact",
				Flags:  []cli.Flag{langFlag(), dataDirFlag(), storeFlag(), matcherFlag(), compressionFlag()},
				Action: phaseAction(app.PhaseCompile),
			},
			{
				Name:   "build",
				Usage:  "extract then compile",
				Flags:  []cli.Flag{langFlag(), dataDirFlag(), dumpFlag(), storeFlag(), matcherFlag(), allowListFlag(), keepDumpFlag(), compressionFlag()},
				Action: phaseAction(app.PhaseExtract, app.PhaseCompile),
			},
			{
				Name:      "scan",
				Usage:     "find lexicon words in text",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					langFlag(), dataDirFlag(), matcherFlag(),
					&cli.BoolFlag{Name: "html", Usage: "input is HTML; scan its visible text"},
				},
				Action: scanAction,
			},
			{
				Name:   "inspect",
				Usage:  "print lexicon store statistics",
				Flags:  []cli.Flag{langFlag(), dataDirFlag(), storeFlag()},
				Action: inspectAction,
			},
		},
	}
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"log-level", &cfg.Log.Level},
		{"lang", &cfg.Lexicon.Language},
		{"data-dir", &cfg.Lexicon.DataDir},
		{"dump", &cfg.Lexicon.DumpPath},
		{"store", &cfg.Lexicon.StorePath},
		{"matcher", &cfg.Matcher.Path},
		{"allowlist", &cfg.AllowList.Path},
		{"compression", &cfg.Matcher.Compression},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.dst = c.String(o.flag)
		}
	}
	if c.IsSet("allowlist") {
		cfg.AllowList.FromCatalog = false
	}
	if c.IsSet("keep-dump") {
		cfg.Lexicon.KeepDump = c.Bool("keep-dump")
	}
	if c.IsSet("progress") {
		cfg.Progress.Enabled = c.Bool("progress")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func phaseAction(phases ...string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		logger := app.NewLogger(c.App.ErrWriter, cfg.Log)

		var notifier *progress.Notifier
		var wg sync.WaitGroup
		if cfg.Progress.Enabled {
			notifier = progress.New(64)
			wg.Add(1)
			go func() {
				defer wg.Done()
				printProgress(c.App.ErrWriter, notifier.Events())
			}()
		}

		results, err := app.Run(c.Context, cfg, logger, notifier, phases)
		notifier.Close()
		wg.Wait()

		if out := phaseReport(phases, results); len(out) > 0 {
			if werr := writeYAML(c.App.Writer, out); werr != nil && err == nil {
				err = werr
			}
		}
		if err != nil {
			logger.Error("pipeline failed", slog.String("error", err.Error()))
		}
		return err
	}
}

func printProgress(w io.Writer, events <-chan progress.Event) {
	last := ""
	for ev := range events {
		if ev.Message != last && last != "" {
			fmt.Fprintln(w)
		}
		last = ev.Message
		fmt.Fprintf(w, "\r%s: %3.0f%%", ev.Message, ev.Fraction*100)
	}
	if last != "" {
		fmt.Fprintln(w)
	}
}

func scanAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	app.NewLogger(c.App.ErrWriter, cfg.Log)

	profile, err := cfg.Profile()
	if err != nil {
		return err
	}

	m, h, err := matcher.Load(cfg.MatcherPath(profile))
	if err != nil {
		return err
	}
	slog.Debug("matcher loaded", slog.String("build_id", h.ID().String()), slog.Int("patterns", m.Len()))

	var in io.Reader = os.Stdin
	if c.Args().Len() > 0 {
		f, err := os.Open(c.Args().First())
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	text, err := textsource.Read(in, c.Bool("html"))
	if err != nil {
		return err
	}

	return writeYAML(c.App.Writer, matchReport(m.Scan(text)))
}

func inspectAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	app.NewLogger(c.App.ErrWriter, cfg.Log)

	profile, err := cfg.Profile()
	if err != nil {
		return err
	}

	store, err := lexicon.Load(cfg.StorePath(profile))
	if err != nil {
		return err
	}

	summary := store.Summarize(profile.MinLength)
	if err := writeYAML(c.App.Writer, summary); err != nil {
		return err
	}
	if len(summary.Problems) > 0 {
		return fmt.Errorf("%w: %d problems", domain.ErrCorruptStore, len(summary.Problems))
	}
	return nil
}
