package wiktionary

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/wordwise/internal/domain"
	"github.com/heartmarshall/wordwise/internal/progress"
)

const (
	// readBufferSize is the bufio.Reader buffer size. Lines longer than
	// this are still read whole.
	readBufferSize = 1 << 20

	defaultProgressInterval = 500 * time.Millisecond
)

// Options configures an extraction run.
type Options struct {
	Profile domain.LanguageProfile
	// AllowList restricts enabled entries to its keys when non-nil.
	AllowList map[string]bool
	// Notifier receives byte-based progress; nil disables reporting.
	Notifier         *progress.Notifier
	ProgressInterval time.Duration
	Logger           *slog.Logger
}

// ExtractFile opens a Kaikki JSONL dump and extracts lexicon entries from it.
// The file is left in place; removing it is up to the caller.
func ExtractFile(path string, opts Options) ([]domain.LexiconEntry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open dump: %w: %w", domain.ErrDumpUnavailable, err)
	}
	defer f.Close()

	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}

	return Extract(f, size, opts)
}

// Extract streams one JSON record per line from r. size is the expected
// number of bytes and only drives progress; zero disables fractions.
// Malformed lines and records missing word or pos are counted and skipped.
func Extract(r io.Reader, size int64, opts Options) ([]domain.LexiconEntry, Stats, error) {
	var stats Stats

	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	sometimes := rate.Sometimes{First: 1, Interval: interval}
	message := "Extracting Wiktionary file"
	opts.Notifier.Report(0, message)

	cr := &countingReader{r: r}
	br := bufio.NewReaderSize(cr, readBufferSize)
	dedup := NewDeduplicator(opts.Profile, opts.AllowList)

	for {
		line, readErr := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			stats.TotalLines++
			extractLine(line, dedup, opts, &stats)
		}

		if size > 0 && opts.Notifier != nil {
			sometimes.Do(func() {
				opts.Notifier.Report(float64(cr.n)/float64(size), message)
			})
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, stats, fmt.Errorf("read dump at line %d: %w", stats.TotalLines+1, readErr)
		}
	}

	entries := dedup.Finish()
	stats.Entries = len(entries)
	stats.DemotedEntries = dedup.Demoted()
	stats.PrunedForms = dedup.Pruned()
	for i := range entries {
		if entries[i].Enabled {
			stats.EnabledEntries++
		}
	}

	opts.Notifier.Report(1, message)
	return entries, stats, nil
}

func extractLine(line []byte, dedup *Deduplicator, opts Options, stats *Stats) {
	var entry kaikkiEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		stats.MalformedLines++
		if opts.Logger != nil {
			opts.Logger.Debug("skip malformed line",
				slog.Int("line", stats.TotalLines),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	word := domain.ComposeNFC(entry.Word)
	if word == "" || entry.POS == "" {
		stats.MissingFields++
		return
	}

	if checkHeadword(word, entry.POS, opts.Profile) != keep {
		stats.RejectedRecords++
		return
	}
	stats.AcceptedRecords++

	senses := make([]candidateSense, 0, len(entry.Senses))
	for i := range entry.Senses {
		s, reason := checkSense(&entry.Senses[i], opts.Profile)
		switch reason {
		case keep:
			senses = append(senses, s)
		case rejectBareOf:
			stats.DroppedOfSenses++
		default:
			stats.DroppedSenses++
		}
	}
	if len(senses) == 0 {
		return
	}

	pron := ExtractPronunciation(opts.Profile.Pronunciation, entry.Sounds)
	dedup.Add(word, rawForms(entry.Forms), senses, pron)
}

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
