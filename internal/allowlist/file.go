package allowlist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// FileSource reads an allow-list from a word list: one headword per line, or
// a CSV whose first column is the headword. Lines starting with '#' are
// comments.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open allow-list: %w", err)
	}
	defer f.Close()

	words, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse allow-list %s: %w", s.Path, err)
	}
	return words, nil
}

// Parse reads a word list from r. The result is never nil.
func Parse(r io.Reader) (map[string]bool, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	words := make(map[string]bool)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if len(record) == 0 {
			continue
		}

		word := domain.NormalizeHeadword(record[0])
		if word == "" {
			continue
		}
		words[word] = true
	}

	return words, nil
}
