package lexicon

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/heartmarshall/wordwise/internal/domain"
)

const rowFields = 7

// Write encodes the store as a JSON array, one row per line.
func (s *Store) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if _, err := bw.WriteString("["); err != nil {
		return err
	}
	for i, e := range s.entries {
		buf.Reset()
		row := [rowFields]any{
			e.Enabled,
			e.Headword,
			e.ShortGloss,
			e.FullGloss,
			e.Example,
			e.JoinedForms(),
			e.Pronunciation,
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if i > 0 {
			if _, err := bw.WriteString(","); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
		if _, err := bw.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n]\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// Read decodes a store written by Write. Any structural problem is reported
// as a *domain.StoreError.
func Read(r io.Reader) (*Store, error) {
	dec := json.NewDecoder(bufio.NewReader(r))

	tok, err := dec.Token()
	if err != nil {
		return nil, &domain.StoreError{Row: -1, Reason: "read opening bracket: " + err.Error()}
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, &domain.StoreError{Row: -1, Reason: "not a JSON array"}
	}

	var entries []domain.LexiconEntry
	for row := 0; dec.More(); row++ {
		var fields []json.RawMessage
		if err := dec.Decode(&fields); err != nil {
			return nil, &domain.StoreError{Row: row, Reason: err.Error()}
		}
		e, err := decodeRow(fields)
		if err != nil {
			return nil, &domain.StoreError{Row: row, Reason: err.Error()}
		}
		entries = append(entries, e)
	}

	if _, err := dec.Token(); err != nil {
		return nil, &domain.StoreError{Row: -1, Reason: "read closing bracket: " + err.Error()}
	}

	return NewStore(entries), nil
}

func decodeRow(fields []json.RawMessage) (domain.LexiconEntry, error) {
	var e domain.LexiconEntry
	if len(fields) != rowFields {
		return e, fmt.Errorf("expected %d fields, got %d", rowFields, len(fields))
	}

	var forms string
	targets := []struct {
		name string
		dst  any
	}{
		{"enabled", &e.Enabled},
		{"headword", &e.Headword},
		{"short_gloss", &e.ShortGloss},
		{"full_gloss", &e.FullGloss},
		{"example", &e.Example},
		{"forms", &forms},
		{"pronunciation", &e.Pronunciation},
	}
	for i, t := range targets {
		if err := json.Unmarshal(fields[i], t.dst); err != nil {
			return e, fmt.Errorf("%s: %w", t.name, err)
		}
	}

	if e.Headword == "" {
		return e, errors.New("empty headword")
	}
	e.Forms = domain.SplitForms(forms)

	return e, nil
}

// Save writes the store to path through a temporary file in the same
// directory, so readers never observe a partial store.
func (s *Store) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename store: %w", err)
	}
	return nil
}

// Load reads the store at path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w: %w", domain.ErrCorruptStore, err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}
	return s, nil
}
