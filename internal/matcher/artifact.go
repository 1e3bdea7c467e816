package matcher

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// Artifact layout: a 64-byte little-endian Header followed by the body, a
// gob-encoded snapshot compressed as the header says. HeaderChecksum covers
// the first headerSumSize bytes of the header.
const (
	// FormatVersion is the current artifact format version.
	FormatVersion = 2
	headerSize    = 64
	headerSumSize = 56

	// maxRawLength bounds the decompressed body size.
	maxRawLength = 1 << 32
	// lz4 cannot expand a block by more than this factor.
	maxLZ4Ratio = 255
)

// Magic identifies compiled matcher artifacts.
var Magic = [4]byte{'W', 'W', 'M', '1'}

var (
	ErrInvalidMagic       = fmt.Errorf("%w: invalid magic number", domain.ErrCorruptArtifact)
	ErrInvalidVersion     = fmt.Errorf("%w: unsupported version", domain.ErrCorruptArtifact)
	ErrUnknownCompression = fmt.Errorf("%w: unknown compression", domain.ErrCorruptArtifact)
	ErrTruncated          = fmt.Errorf("%w: truncated file", domain.ErrCorruptArtifact)
	ErrHeaderChecksum     = fmt.Errorf("%w: header checksum mismatch", domain.ErrCorruptArtifact)
	ErrInvalidLength      = fmt.Errorf("%w: invalid body length", domain.ErrCorruptArtifact)
)

// ChecksumMismatchError is returned when the body CRC32 does not match the
// header.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

func (e *ChecksumMismatchError) Unwrap() error { return domain.ErrCorruptArtifact }

// Compression selects the body codec.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

// Header is the fixed-size artifact header.
type Header struct {
	Magic       [4]byte
	Version     uint16
	Strategy    uint8
	Compression uint8
	BuildID     [16]byte
	CreatedAt   int64
	BodyLength  uint64
	RawLength   uint64
	Checksum    uint32
	Patterns    uint32

	HeaderChecksum uint32
	Reserved       [4]byte
}

// ID returns the build ID as a UUID.
func (h Header) ID() uuid.UUID { return uuid.UUID(h.BuildID) }

// headerSum returns the CRC32 of the encoded header up to HeaderChecksum.
func (h Header) headerSum() uint32 {
	var buf bytes.Buffer
	buf.Grow(headerSize)
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return crc32.ChecksumIEEE(buf.Bytes()[:headerSumSize])
}

// snapshot is the gob-encoded body.
type snapshot struct {
	Patterns       []string
	PatternPayload []int32
	Payloads       []Payload
	Nodes          []FlatNode
	Edges          []FlatEdge
}

// validate checks every table index so a decoded snapshot can be scanned
// without going out of range. Fail and output links must point to earlier
// nodes and edges to later ones, as buildTrie numbers them breadth-first.
func (s snapshot) validate() error {
	if len(s.Patterns) != len(s.PatternPayload) {
		return fmt.Errorf("%d patterns, %d payload refs", len(s.Patterns), len(s.PatternPayload))
	}
	if len(s.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, id := range s.PatternPayload {
		if id < 0 || int(id) >= len(s.Payloads) {
			return fmt.Errorf("pattern %d: payload %d out of range", i, id)
		}
	}
	for i, n := range s.Nodes {
		if uint64(n.EdgeStart)+uint64(n.EdgeCount) > uint64(len(s.Edges)) {
			return fmt.Errorf("node %d: edges out of range", i)
		}
		if n.Fail < 0 || (i > 0 && int(n.Fail) >= i) || (i == 0 && n.Fail != 0) {
			return fmt.Errorf("node %d: fail %d out of range", i, n.Fail)
		}
		if n.Output != noPattern && (n.Output <= 0 || int(n.Output) >= i) {
			return fmt.Errorf("node %d: output %d out of range", i, n.Output)
		}
		if n.Pattern != noPattern && (n.Pattern < 0 || int(n.Pattern) >= len(s.Patterns)) {
			return fmt.Errorf("node %d: pattern %d out of range", i, n.Pattern)
		}
		edges := s.Edges[n.EdgeStart : n.EdgeStart+n.EdgeCount]
		for j, e := range edges {
			if int(e.Target) <= i || int(e.Target) >= len(s.Nodes) {
				return fmt.Errorf("node %d: edge target %d out of range", i, e.Target)
			}
			if j > 0 && edges[j-1].Rune >= e.Rune {
				return fmt.Errorf("node %d: edges not sorted", i)
			}
		}
	}
	return nil
}

func coreOf(m Matcher) (*core, error) {
	switch mm := m.(type) {
	case *KeywordMatcher:
		return &mm.core, nil
	case *AhoCorasick:
		return &mm.core, nil
	default:
		return nil, fmt.Errorf("matcher: cannot serialize %T", m)
	}
}

// Save finalizes m and writes it to path through a temporary file.
func Save(path string, m Matcher, c Compression) (Header, error) {
	co, err := coreOf(m)
	if err != nil {
		return Header{}, err
	}
	m.Finalize()

	h, body, err := encode(m.Strategy(), snapshot{
		Patterns:       co.patterns,
		PatternPayload: co.patternPayload,
		Payloads:       co.payloads,
		Nodes:          co.nodes,
		Edges:          co.edges,
	}, c)
	if err != nil {
		return Header{}, err
	}

	if err := writeFile(path, h, body); err != nil {
		return Header{}, err
	}
	return h, nil
}

func encode(strategy domain.MatchStrategy, snap snapshot, c Compression) (Header, []byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return Header{}, nil, fmt.Errorf("encode snapshot: %w", err)
	}

	body, c, err := compress(raw.Bytes(), c)
	if err != nil {
		return Header{}, nil, fmt.Errorf("compress snapshot: %w", err)
	}

	h := Header{
		Magic:       Magic,
		Version:     FormatVersion,
		Strategy:    uint8(strategy),
		Compression: uint8(c),
		BuildID:     uuid.New(),
		CreatedAt:   time.Now().Unix(),
		BodyLength:  uint64(len(body)),
		RawLength:   uint64(raw.Len()),
		Checksum:    crc32.ChecksumIEEE(body),
		Patterns:    uint32(len(snap.Patterns)),
	}
	h.HeaderChecksum = h.headerSum()
	return h, body, nil
}

func writeFile(path string, h Header, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := binary.Write(tmp, binary.LittleEndian, h); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Load maps the artifact at path, verifies it and restores the matcher
// without rebuilding the automaton.
func Load(path string) (Matcher, Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, Header{}, fmt.Errorf("stat artifact: %w", err)
	}
	if fi.Size() < headerSize {
		return nil, Header{}, ErrTruncated
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, Header{}, fmt.Errorf("mmap artifact: %w", err)
	}
	defer data.Unmap()

	return decode(data)
}

func decode(data []byte) (Matcher, Header, error) {
	var h Header
	if len(data) < headerSize {
		return nil, h, ErrTruncated
	}
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &h); err != nil {
		return nil, h, fmt.Errorf("read header: %w", err)
	}
	if h.Magic != Magic {
		return nil, h, ErrInvalidMagic
	}
	if h.Version != FormatVersion {
		return nil, h, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	if h.headerSum() != h.HeaderChecksum {
		return nil, h, ErrHeaderChecksum
	}

	if uint64(len(data)-headerSize) < h.BodyLength {
		return nil, h, ErrTruncated
	}
	if err := checkLengths(h); err != nil {
		return nil, h, err
	}
	body := data[headerSize : headerSize+int(h.BodyLength)]
	if sum := crc32.ChecksumIEEE(body); sum != h.Checksum {
		return nil, h, &ChecksumMismatchError{Expected: h.Checksum, Actual: sum}
	}

	raw, err := decompress(body, Compression(h.Compression), h.RawLength)
	if err != nil {
		return nil, h, err
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, h, fmt.Errorf("%w: decode snapshot: %w", domain.ErrCorruptArtifact, err)
	}
	if err := snap.validate(); err != nil {
		return nil, h, fmt.Errorf("%w: inconsistent snapshot: %w", domain.ErrCorruptArtifact, err)
	}

	m, err := New(domain.MatchStrategy(h.Strategy))
	if err != nil {
		return nil, h, fmt.Errorf("%w: %w", domain.ErrCorruptArtifact, err)
	}
	co, _ := coreOf(m)
	co.patterns = snap.Patterns
	co.patternPayload = snap.PatternPayload
	co.payloads = snap.Payloads
	co.nodes = snap.Nodes
	co.edges = snap.Edges
	co.rebuildIndex()
	co.finalized = true

	return m, h, nil
}

// checkLengths bounds RawLength before anything is allocated from it.
func checkLengths(h Header) error {
	if h.RawLength == 0 || h.RawLength > maxRawLength {
		return fmt.Errorf("%w: raw length %d", ErrInvalidLength, h.RawLength)
	}
	switch Compression(h.Compression) {
	case CompressionNone:
		if h.RawLength != h.BodyLength {
			return fmt.Errorf("%w: raw length %d != body length %d", ErrInvalidLength, h.RawLength, h.BodyLength)
		}
	case CompressionLZ4:
		if h.RawLength > h.BodyLength*maxLZ4Ratio {
			return fmt.Errorf("%w: raw length %d exceeds lz4 bound", ErrInvalidLength, h.RawLength)
		}
	}
	return nil
}

func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return raw, c, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, c, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), c, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, c, err
		}
		if n == 0 {
			// incompressible
			return raw, CompressionNone, nil
		}
		return buf[:n], c, nil
	default:
		return nil, c, fmt.Errorf("unknown compression %v", c)
	}
}

func decompress(body []byte, c Compression, rawLength uint64) ([]byte, error) {
	switch c {
	case CompressionNone:
		return body, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(rawLength))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", domain.ErrCorruptArtifact, err)
		}
		if uint64(len(raw)) != rawLength {
			return nil, fmt.Errorf("%w: zstd: decompressed size mismatch", domain.ErrCorruptArtifact)
		}
		return raw, nil
	case CompressionLZ4:
		raw := make([]byte, rawLength)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", domain.ErrCorruptArtifact, err)
		}
		if uint64(n) != rawLength {
			return nil, fmt.Errorf("%w: lz4: decompressed size mismatch", domain.ErrCorruptArtifact)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

// IsChecksumMismatch reports whether err is a checksum mismatch.
func IsChecksumMismatch(err error) bool {
	var ce *ChecksumMismatchError
	return errors.As(err, &ce)
}
