package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/heartmarshall/wordwise/internal/domain"
)

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading and again after CLI overrides; Load calls
// it automatically.
func (c *Config) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ProfileFor(c.Lexicon.Language); err != nil {
		errs = append(errs, domain.FieldError{Field: "lexicon.language", Message: err.Error()})
	}

	switch strings.ToLower(c.Matcher.Compression) {
	case "zstd", "lz4", "none":
	default:
		errs = append(errs, domain.FieldError{
			Field:   "matcher.compression",
			Message: fmt.Sprintf("must be zstd, lz4 or none (got %q)", c.Matcher.Compression),
		})
	}

	errs = append(errs, c.AllowList.validate(c.Database)...)

	if c.Progress.Interval <= 0 {
		errs = append(errs, domain.FieldError{
			Field:   "progress.interval",
			Message: fmt.Sprintf("must be > 0 (got %v)", c.Progress.Interval),
		})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (a *AllowListConfig) validate(db DatabaseConfig) []domain.FieldError {
	var errs []domain.FieldError

	if a.Path != "" && a.FromCatalog {
		errs = append(errs, domain.FieldError{Field: "allowlist", Message: "path and from_catalog are mutually exclusive"})
	}
	if !a.FromCatalog {
		return errs
	}

	if db.DSN == "" {
		errs = append(errs, domain.FieldError{Field: "database.dsn", Message: "required when allowlist.from_catalog is set"})
	}
	if !identifierRe.MatchString(a.Table) {
		errs = append(errs, domain.FieldError{Field: "allowlist.table", Message: fmt.Sprintf("invalid identifier %q", a.Table)})
	}
	if !identifierRe.MatchString(a.Column) {
		errs = append(errs, domain.FieldError{Field: "allowlist.column", Message: fmt.Sprintf("invalid identifier %q", a.Column)})
	}
	if db.MaxConns < 1 {
		errs = append(errs, domain.FieldError{Field: "database.max_conns", Message: fmt.Sprintf("must be >= 1 (got %d)", db.MaxConns)})
	}

	return errs
}
