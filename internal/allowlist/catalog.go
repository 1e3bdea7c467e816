package allowlist

import (
	"context"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/wordwise/internal/adapter/postgres"
	"github.com/heartmarshall/wordwise/internal/domain"
)

const coreLexiconColumn = "is_core_lexicon"

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// CatalogSource reads the allow-list from a text column of the reference
// catalog, optionally restricted to core-lexicon rows.
type CatalogSource struct {
	q        postgres.Querier
	table    string
	column   string
	coreOnly bool
}

// NewCatalogSource creates a CatalogSource. Table and column are interpolated
// into SQL, so both must be plain lower-case identifiers.
func NewCatalogSource(q postgres.Querier, table, column string, coreOnly bool) (*CatalogSource, error) {
	if !identifierRe.MatchString(table) {
		return nil, domain.NewValidationError("allowlist.table", fmt.Sprintf("invalid identifier %q", table))
	}
	if !identifierRe.MatchString(column) {
		return nil, domain.NewValidationError("allowlist.column", fmt.Sprintf("invalid identifier %q", column))
	}
	return &CatalogSource{q: q, table: table, column: column, coreOnly: coreOnly}, nil
}

// Query returns the SQL statement Load runs.
func (s *CatalogSource) Query() (string, []any, error) {
	query := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(s.column).
		From(s.table).
		Where(sq.NotEq{s.column: nil})

	if s.coreOnly {
		query = query.Where(sq.Eq{coreLexiconColumn: true})
	}

	return query.ToSql()
}

// Load implements Source. The result is never nil.
func (s *CatalogSource) Load(ctx context.Context) (map[string]bool, error) {
	sql, args, err := s.Query()
	if err != nil {
		return nil, fmt.Errorf("build allow-list query: %w", err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "load allow-list")
	}

	texts, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, "scan allow-list")
	}

	words := make(map[string]bool, len(texts))
	for _, text := range texts {
		if word := domain.NormalizeHeadword(text); word != "" {
			words[word] = true
		}
	}
	return words, nil
}
