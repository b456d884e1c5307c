// Package huffman implements the byte-stream compressor behind the
// snapshot format. The container carries the original length and the byte
// frequency table; both sides rebuild the same code tree from those
// frequencies, so no codes travel on the wire. The layout is little-endian
// throughout:
//
//	originalSize  uint64
//	entryCount    uint32
//	entries       entryCount × (value uint8, frequency uint32)
//	paddingBits   uint8
//	bitstream     packed MSB-first, zero-padded to a whole byte
//
// Tree construction is deterministic within this package (leaves enter the
// queue in ascending byte order, frequency ties break by queue arrival);
// compatibility with other Huffman implementations is not a goal.
package huffman

import (
	"bytes"
	"container/heap"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorrupt wraps every decode failure so callers can test for the class
// with errors.Is. Decompress never returns partial output.
var ErrCorrupt = errors.New("huffman: corrupt stream")

type node struct {
	left  *node
	right *node
	value byte
	freq  uint32
	leaf  bool
}

type heapItem struct {
	n   *node
	seq int
}

// nodeHeap is a min-heap by frequency; ties resolve by insertion sequence
// so compress and decompress grow identical trees.
type nodeHeap []heapItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].n.freq != h[j].n.freq {
		return h[i].n.freq < h[j].n.freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(heapItem)) }

func (h *nodeHeap) Pop() any {
	old := *h
	item := old[len(old)-1]
	*h = old[:len(old)-1]
	return item
}

// buildTree grows the code tree from a frequency table. A single distinct
// value gets a synthesized two-node tree (the real leaf on the left, a
// zero-frequency dummy of the same value on the right) so its code is the
// single bit "0" rather than nothing at all.
func buildTree(freqs *[256]uint32) *node {
	h := &nodeHeap{}
	seq := 0
	for v := 0; v < 256; v++ {
		if freqs[v] == 0 {
			continue
		}
		heap.Push(h, heapItem{n: &node{value: byte(v), freq: freqs[v], leaf: true}, seq: seq})
		seq++
	}

	switch h.Len() {
	case 0:
		return nil
	case 1:
		real := heap.Pop(h).(heapItem).n
		dummy := &node{value: real.value, freq: 0, leaf: true}
		return &node{left: real, right: dummy, freq: real.freq}
	}

	for h.Len() > 1 {
		a := heap.Pop(h).(heapItem).n
		b := heap.Pop(h).(heapItem).n
		heap.Push(h, heapItem{n: &node{left: a, right: b, freq: a.freq + b.freq}, seq: seq})
		seq++
	}
	return heap.Pop(h).(heapItem).n
}

// assignCodes walks the tree, appending '0' per left edge and '1' per
// right. The first code wins, which keeps the synthesized dummy leaf from
// overwriting its twin.
func assignCodes(n *node, prefix string, codes *[256]string) {
	if n == nil {
		return
	}
	if n.leaf {
		if codes[n.value] == "" {
			codes[n.value] = prefix
		}
		return
	}
	assignCodes(n.left, prefix+"0", codes)
	assignCodes(n.right, prefix+"1", codes)
}

// Compress encodes data into the container format. Empty input produces
// exactly the 8-byte zero header.
func Compress(data []byte) []byte {
	out := binary.LittleEndian.AppendUint64(nil, uint64(len(data)))
	if len(data) == 0 {
		return out
	}

	var freqs [256]uint32
	for _, b := range data {
		freqs[b]++
	}
	entries := uint32(0)
	for _, f := range freqs {
		if f > 0 {
			entries++
		}
	}

	root := buildTree(&freqs)
	var codes [256]string
	assignCodes(root, "", &codes)

	out = binary.LittleEndian.AppendUint32(out, entries)
	for v := 0; v < 256; v++ {
		if freqs[v] == 0 {
			continue
		}
		out = append(out, byte(v))
		out = binary.LittleEndian.AppendUint32(out, freqs[v])
	}

	stream := make([]byte, 0, len(data)/2+1)
	var cur byte
	nbits := 0
	for _, b := range data {
		for _, c := range codes[b] {
			cur <<= 1
			if c == '1' {
				cur |= 1
			}
			nbits++
			if nbits == 8 {
				stream = append(stream, cur)
				cur, nbits = 0, 0
			}
		}
	}
	padding := 0
	if nbits > 0 {
		padding = 8 - nbits
		cur <<= uint(padding)
		stream = append(stream, cur)
	}

	out = append(out, byte(padding))
	return append(out, stream...)
}

// Decompress reverses Compress. Any structural inconsistency (truncated
// sections, impossible padding, a decoded length that misses originalSize,
// trailing bytes on an empty stream) fails hard with ErrCorrupt.
func Decompress(data []byte) ([]byte, error) {
	r := reader{buf: data}

	originalSize, ok := r.uint64()
	if !ok {
		return nil, fmt.Errorf("%w: missing size header", ErrCorrupt)
	}
	if originalSize == 0 {
		if r.remaining() != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes after empty-stream header", ErrCorrupt, r.remaining())
		}
		return []byte{}, nil
	}

	entryCount, ok := r.uint32()
	if !ok {
		return nil, fmt.Errorf("%w: missing frequency table size", ErrCorrupt)
	}
	if entryCount == 0 || entryCount > 256 {
		return nil, fmt.Errorf("%w: frequency table declares %d entries", ErrCorrupt, entryCount)
	}
	var freqs [256]uint32
	for i := uint32(0); i < entryCount; i++ {
		v, ok := r.uint8()
		if !ok {
			return nil, fmt.Errorf("%w: truncated frequency table", ErrCorrupt)
		}
		f, ok := r.uint32()
		if !ok {
			return nil, fmt.Errorf("%w: truncated frequency table", ErrCorrupt)
		}
		freqs[v] = f
	}

	padding, ok := r.uint8()
	if !ok {
		return nil, fmt.Errorf("%w: missing padding header", ErrCorrupt)
	}
	if padding > 7 {
		return nil, fmt.Errorf("%w: impossible padding of %d bits", ErrCorrupt, padding)
	}

	root := buildTree(&freqs)
	if root == nil {
		return nil, fmt.Errorf("%w: frequency table is all zeros", ErrCorrupt)
	}

	// The synthesized single-value tree needs no bit traversal.
	if root.left != nil && root.right != nil &&
		root.left.leaf && root.right.leaf &&
		root.right.freq == 0 && root.left.value == root.right.value {
		return bytes.Repeat([]byte{root.left.value}, int(originalSize)), nil
	}

	stream := r.rest()
	totalBits := len(stream)*8 - int(padding)

	out := make([]byte, 0, originalSize)
	n := root
	for i := 0; i < totalBits && uint64(len(out)) < originalSize; i++ {
		if (stream[i/8]>>(7-i%8))&1 == 0 {
			n = n.left
		} else {
			n = n.right
		}
		if n == nil {
			return nil, fmt.Errorf("%w: bit sequence walked off the tree", ErrCorrupt)
		}
		if n.leaf {
			out = append(out, n.value)
			n = root
		}
	}
	if uint64(len(out)) != originalSize {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrCorrupt, len(out), originalSize)
	}
	return out, nil
}

// reader is a little-endian cursor; every read is bounds-checked and a
// failed read reports false instead of panicking.
type reader struct {
	buf []byte
	off int
}

func (r *reader) uint64() (uint64, bool) {
	if r.off+8 > len(r.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, true
}

func (r *reader) uint32() (uint32, bool) {
	if r.off+4 > len(r.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, true
}

func (r *reader) uint8() (uint8, bool) {
	if r.off+1 > len(r.buf) {
		return 0, false
	}
	v := r.buf[r.off]
	r.off++
	return v, true
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) rest() []byte { return r.buf[r.off:] }
