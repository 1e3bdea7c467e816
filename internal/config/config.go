package config

import (
	"path/filepath"
	"time"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	AllowList AllowListConfig `yaml:"allowlist"`
	Database  DatabaseConfig  `yaml:"database"`
	Progress  ProgressConfig  `yaml:"progress"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// LexiconConfig holds extraction settings.
// Empty paths are derived from DataDir and the language.
// KeepBareOf retains senses whose short gloss is a bare "of".
type LexiconConfig struct {
	Language   string `yaml:"language"     env:"LEXICON_LANGUAGE"     env-default:"en"`
	DataDir    string `yaml:"data_dir"     env:"LEXICON_DATA_DIR"     env-default:"."`
	DumpPath   string `yaml:"dump_path"    env:"LEXICON_DUMP_PATH"`
	StorePath  string `yaml:"store_path"   env:"LEXICON_STORE_PATH"`
	KeepDump   bool   `yaml:"keep_dump"    env:"LEXICON_KEEP_DUMP"    env-default:"false"`
	KeepBareOf bool   `yaml:"keep_bare_of" env:"LEXICON_KEEP_BARE_OF" env-default:"false"`
}

// MatcherConfig holds compiled matcher settings.
type MatcherConfig struct {
	Path        string `yaml:"path"        env:"MATCHER_PATH"`
	Compression string `yaml:"compression" env:"MATCHER_COMPRESSION" env-default:"zstd"`
}

// AllowListConfig selects where the optional allow-list comes from: a word
// list file, or the text column of a reference catalog table.
type AllowListConfig struct {
	Path        string `yaml:"path"         env:"ALLOWLIST_PATH"`
	FromCatalog bool   `yaml:"from_catalog" env:"ALLOWLIST_FROM_CATALOG" env-default:"false"`
	Table       string `yaml:"table"        env:"ALLOWLIST_TABLE"        env-default:"ref_entries"`
	Column      string `yaml:"column"       env:"ALLOWLIST_COLUMN"       env-default:"text"`
	CoreOnly    bool   `yaml:"core_only"    env:"ALLOWLIST_CORE_ONLY"    env-default:"false"`
}

// Enabled reports whether an allow-list source is configured.
func (c AllowListConfig) Enabled() bool {
	return c.Path != "" || c.FromCatalog
}

// DatabaseConfig holds PostgreSQL connection settings for the catalog.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	QueryTimeout    time.Duration `yaml:"query_timeout"      env:"DATABASE_QUERY_TIMEOUT"      env-default:"30s"`
}

// ProgressConfig holds progress reporting settings.
type ProgressConfig struct {
	Enabled  bool          `yaml:"enabled"  env:"PROGRESS_ENABLED"  env-default:"false"`
	Interval time.Duration `yaml:"interval" env:"PROGRESS_INTERVAL" env-default:"500ms"`
}

// Profile returns the language profile with configured overrides applied.
func (c *Config) Profile() (domain.LanguageProfile, error) {
	p, err := domain.ProfileFor(c.Lexicon.Language)
	if err != nil {
		return p, err
	}
	p.DropBareOf = !c.Lexicon.KeepBareOf
	return p, nil
}

// DumpPath returns the configured dump path or the Kaikki file name in DataDir.
func (c *Config) DumpPath(p domain.LanguageProfile) string {
	if c.Lexicon.DumpPath != "" {
		return c.Lexicon.DumpPath
	}
	return filepath.Join(c.Lexicon.DataDir, p.DumpFileName())
}

// StorePath returns the configured store path or the default one in DataDir.
func (c *Config) StorePath(p domain.LanguageProfile) string {
	if c.Lexicon.StorePath != "" {
		return c.Lexicon.StorePath
	}
	return filepath.Join(c.Lexicon.DataDir, p.StoreFileName())
}

// MatcherPath returns the configured artifact path or the default one in DataDir.
func (c *Config) MatcherPath(p domain.LanguageProfile) string {
	if c.Matcher.Path != "" {
		return c.Matcher.Path
	}
	return filepath.Join(c.Lexicon.DataDir, p.MatcherFileName())
}
