// Package snapshot persists a grid's population to disk and restores it.
// The serialized layout is little-endian int32s (the four bounds, the
// active cell count, then one (x, y, state) triple per cell) compressed
// through the huffman package. Files carry no magic number or version;
// the format favors simplicity over cross-version negotiation.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"casim/internal/core"
	"casim/internal/grid"
	"casim/internal/huffman"
)

// Ext is appended to snapshot paths that do not already carry it.
const Ext = ".snapshot"

// ErrMalformed wraps every deserialization failure.
var ErrMalformed = errors.New("snapshot: malformed data")

// Grid is the view of the cell store the codec serializes.
type Grid interface {
	Cells() map[core.Point]int32
	Bounds() (minBounds, maxBounds core.Point, ok bool)
}

// Codec reads and writes snapshot files.
type Codec struct {
	logger *slog.Logger
}

// NewCodec constructs a Codec. A nil logger falls back to slog.Default.
func NewCodec(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{logger: logger.With(slog.String("component", "snapshot"))}
}

// Marshal serializes the grid's bounds and active cells. Invalid bounds
// (an empty grid) serialize as zeros. Cell order follows map iteration;
// the format does not promise an ordering.
func (c *Codec) Marshal(g Grid) []byte {
	cells := g.Cells()
	minBounds, maxBounds, ok := g.Bounds()
	if !ok {
		minBounds, maxBounds = core.Point{}, core.Point{}
	}

	out := make([]byte, 0, 20+12*len(cells))
	out = appendInt32(out, minBounds.X)
	out = appendInt32(out, minBounds.Y)
	out = appendInt32(out, maxBounds.X)
	out = appendInt32(out, maxBounds.Y)
	out = appendInt32(out, int32(len(cells)))
	for p, state := range cells {
		out = appendInt32(out, p.X)
		out = appendInt32(out, p.Y)
		out = appendInt32(out, state)
	}
	return out
}

// Unmarshal parses serialized grid state. Reads past the end of the buffer
// fail hard; trailing bytes after the declared cell count are tolerated
// with a warning.
func (c *Codec) Unmarshal(data []byte) (map[core.Point]int32, core.Point, core.Point, error) {
	r := reader{buf: data}
	var minBounds, maxBounds core.Point
	var fail = func(what string) (map[core.Point]int32, core.Point, core.Point, error) {
		return nil, core.Point{}, core.Point{}, fmt.Errorf("%w: %s", ErrMalformed, what)
	}

	var ok bool
	if minBounds.X, ok = r.int32(); !ok {
		return fail("truncated bounds")
	}
	if minBounds.Y, ok = r.int32(); !ok {
		return fail("truncated bounds")
	}
	if maxBounds.X, ok = r.int32(); !ok {
		return fail("truncated bounds")
	}
	if maxBounds.Y, ok = r.int32(); !ok {
		return fail("truncated bounds")
	}

	count, ok := r.int32()
	if !ok {
		return fail("truncated cell count")
	}
	if count < 0 {
		return fail(fmt.Sprintf("negative cell count %d", count))
	}

	cells := make(map[core.Point]int32, count)
	for i := int32(0); i < count; i++ {
		x, ok := r.int32()
		if !ok {
			return fail(fmt.Sprintf("truncated cell %d of %d", i, count))
		}
		y, ok := r.int32()
		if !ok {
			return fail(fmt.Sprintf("truncated cell %d of %d", i, count))
		}
		state, ok := r.int32()
		if !ok {
			return fail(fmt.Sprintf("truncated cell %d of %d", i, count))
		}
		cells[core.Pt(x, y)] = state
	}

	if extra := r.remaining(); extra > 0 {
		c.logger.Warn("ignoring trailing bytes after cell data", slog.Int("bytes", extra))
	}
	return cells, minBounds, maxBounds, nil
}

// Save serializes, compresses, and writes the grid to path, appending the
// snapshot extension when missing. The file appears atomically: data goes
// to a temporary file in the same directory first, then renames over path.
func (c *Codec) Save(path string, g Grid) error {
	path = withExt(path)
	data := huffman.Compress(c.Marshal(g))

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: replace %s: %w", path, err)
	}

	c.logger.Info("snapshot saved",
		slog.String("path", path),
		slog.Int("cells", len(g.Cells())),
		slog.Int("bytes", len(data)))
	return nil
}

// Load reads, decompresses, and parses a snapshot file, resolving the path
// the same way Save does.
func (c *Codec) Load(path string) (map[core.Point]int32, core.Point, core.Point, error) {
	path = withExt(path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, core.Point{}, core.Point{}, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	data, err := huffman.Decompress(raw)
	if err != nil {
		return nil, core.Point{}, core.Point{}, fmt.Errorf("snapshot: decompress %s: %w", path, err)
	}
	cells, minBounds, maxBounds, err := c.Unmarshal(data)
	if err != nil {
		return nil, core.Point{}, core.Point{}, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return cells, minBounds, maxBounds, nil
}

// Restore loads path into the grid. The live grid is replaced only after
// every stage has succeeded; on error it is left untouched.
func (c *Codec) Restore(path string, g *grid.Space) error {
	cells, minBounds, maxBounds, err := c.Load(path)
	if err != nil {
		return err
	}
	g.LoadCells(cells, minBounds, maxBounds)
	c.logger.Info("snapshot restored",
		slog.String("path", withExt(path)),
		slog.Int("cells", len(cells)))
	return nil
}

func withExt(path string) string {
	if strings.HasSuffix(path, Ext) {
		return path
	}
	return path + Ext
}

func appendInt32(buf []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(v))
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) int32() (int32, bool) {
	if r.off+4 > len(r.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return int32(v), true
}

func (r *reader) remaining() int { return len(r.buf) - r.off }
