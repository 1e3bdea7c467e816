package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartmarshall/wordwise/internal/domain"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// chdirEmpty moves into a temp dir without config.yaml for the test's duration.
func chdirEmpty(t *testing.T) {
	t.Helper()
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

const validYAML = `
log:
  level: "debug"
  format: "json"

lexicon:
  language: "zh"
  data_dir: "/data"
  keep_dump: true
  keep_bare_of: true

matcher:
  compression: "lz4"

allowlist:
  from_catalog: true
  table: "ref_entries"
  column: "text"
  core_only: true

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 2

progress:
  enabled: true
  interval: "250ms"
`

func validConfig() *Config {
	return &Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		Lexicon:   LexiconConfig{Language: "en", DataDir: "."},
		Matcher:   MatcherConfig{Compression: "zstd"},
		AllowList: AllowListConfig{Table: "ref_entries", Column: "text"},
		Database:  DatabaseConfig{MaxConns: 4},
		Progress:  ProgressConfig{Interval: 500 * time.Millisecond},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want json", cfg.Log.Format)
	}
	if cfg.Lexicon.Language != "zh" {
		t.Errorf("lexicon.language = %q, want zh", cfg.Lexicon.Language)
	}
	if !cfg.Lexicon.KeepDump || !cfg.Lexicon.KeepBareOf {
		t.Error("lexicon keep flags should be true")
	}
	if cfg.Matcher.Compression != "lz4" {
		t.Errorf("matcher.compression = %q, want lz4", cfg.Matcher.Compression)
	}
	if !cfg.AllowList.FromCatalog || !cfg.AllowList.CoreOnly {
		t.Error("allowlist catalog flags should be true")
	}
	if cfg.Database.MaxConns != 2 {
		t.Errorf("database.max_conns = %d, want 2", cfg.Database.MaxConns)
	}
	if cfg.Database.QueryTimeout != 30*time.Second {
		t.Errorf("database.query_timeout = %v, want 30s (default)", cfg.Database.QueryTimeout)
	}
	if cfg.Progress.Interval != 250*time.Millisecond {
		t.Errorf("progress.interval = %v, want 250ms", cfg.Progress.Interval)
	}
}

func TestLoad_CONFIG_PATH(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeYAML(t, t.TempDir(), validYAML))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Lexicon.Language != "zh" {
		t.Errorf("lexicon.language = %q, want zh", cfg.Lexicon.Language)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("LEXICON_LANGUAGE", "ja")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Lexicon.Language != "ja" {
		t.Errorf("lexicon.language = %q, want ja (ENV override)", cfg.Lexicon.Language)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn (ENV override)", cfg.Log.Level)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	chdirEmpty(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Lexicon.Language != "en" {
		t.Errorf("lexicon.language = %q, want en (default)", cfg.Lexicon.Language)
	}
	if cfg.Matcher.Compression != "zstd" {
		t.Errorf("matcher.compression = %q, want zstd (default)", cfg.Matcher.Compression)
	}
	if cfg.Progress.Interval != 500*time.Millisecond {
		t.Errorf("progress.interval = %v, want 500ms (default)", cfg.Progress.Interval)
	}
	if cfg.AllowList.Enabled() {
		t.Error("allowlist should be disabled by default")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), `{{{invalid yaml`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeYAML(t, t.TempDir(), "lexicon:\n  language: \"english\"\n")

	_, err := Load(path)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad language", func(c *Config) { c.Lexicon.Language = "e1" }, "lexicon.language"},
		{"bad compression", func(c *Config) { c.Matcher.Compression = "gzip" }, "matcher.compression"},
		{"zero interval", func(c *Config) { c.Progress.Interval = 0 }, "progress.interval"},
		{"path and catalog", func(c *Config) {
			c.AllowList.Path = "words.csv"
			c.AllowList.FromCatalog = true
			c.Database.DSN = "postgres://x"
		}, "allowlist"},
		{"catalog without dsn", func(c *Config) { c.AllowList.FromCatalog = true }, "database.dsn"},
		{"catalog bad table", func(c *Config) {
			c.AllowList.FromCatalog = true
			c.Database.DSN = "postgres://x"
			c.AllowList.Table = "ref; drop table x"
		}, "allowlist.table"},
		{"catalog bad column", func(c *Config) {
			c.AllowList.FromCatalog = true
			c.Database.DSN = "postgres://x"
			c.AllowList.Column = "Text"
		}, "allowlist.column"},
		{"bad identifiers ignored without catalog", func(c *Config) { c.AllowList.Table = "!!" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *domain.ValidationError", err)
			}
			if ve.Errors[0].Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Errors[0].Field, tt.field)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Lexicon.DataDir = "/data"
	p, err := cfg.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	if got := cfg.DumpPath(p); got != "/data/kaikki.org-dictionary-English.json" {
		t.Errorf("DumpPath = %q", got)
	}
	if got := cfg.StorePath(p); got != "/data/wiktionary_en.json" {
		t.Errorf("StorePath = %q", got)
	}
	if got := cfg.MatcherPath(p); got != "/data/wiktionary_en.wwm" {
		t.Errorf("MatcherPath = %q", got)
	}

	cfg.Lexicon.StorePath = "/tmp/store.json"
	cfg.Matcher.Path = "/tmp/m.wwm"
	if got := cfg.StorePath(p); got != "/tmp/store.json" {
		t.Errorf("StorePath override = %q", got)
	}
	if got := cfg.MatcherPath(p); got != "/tmp/m.wwm" {
		t.Errorf("MatcherPath override = %q", got)
	}
}

func TestProfile_KeepBareOf(t *testing.T) {
	cfg := validConfig()
	p, _ := cfg.Profile()
	if !p.DropBareOf {
		t.Error("bare-of senses should be dropped by default")
	}

	cfg.Lexicon.KeepBareOf = true
	p, _ = cfg.Profile()
	if p.DropBareOf {
		t.Error("KeepBareOf should disable dropping")
	}
}
