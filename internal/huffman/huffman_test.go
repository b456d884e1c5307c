package huffman

import (
	"bytes"
	"errors"
	"testing"
)

func TestCompressEmptyIsZeroHeader(t *testing.T) {
	got := Compress(nil)
	want := make([]byte, 8)
	if !bytes.Equal(got, want) {
		t.Fatalf("Compress(nil) = %x, want eight zero bytes", got)
	}

	out, err := Decompress(got)
	if err != nil {
		t.Fatalf("Decompress(zero header): %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("Decompress(zero header) = %x, want empty", out)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"ascii", []byte("hello world")},
		{"single byte", []byte{42}},
		{"single distinct value repeated", bytes.Repeat([]byte{'a'}, 500)},
		{"two values", []byte("aab")},
		{"all byte values", allBytes()},
		{"pseudo random", pseudoRandom(10 * 1024)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comp := Compress(tc.data)
			got, err := Decompress(comp)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(tc.data))
			}
		})
	}
}

func allBytes() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// pseudoRandom produces a fixed byte sequence; a plain LCG keeps the test
// deterministic.
func pseudoRandom(n int) []byte {
	out := make([]byte, n)
	state := uint32(0x12345678)
	for i := range out {
		state = state*1664525 + 1013904223
		out[i] = byte(state >> 24)
	}
	return out
}

func TestWireLayout(t *testing.T) {
	got := Compress([]byte("aab"))
	want := []byte{
		3, 0, 0, 0, 0, 0, 0, 0, // originalSize
		2, 0, 0, 0, // entryCount
		'a', 2, 0, 0, 0, // entry a: freq 2
		'b', 1, 0, 0, 0, // entry b: freq 1
		5,    // padding bits
		0xc0, // bits 110 ('a'=1, 'a'=1, 'b'=0), zero padded
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestWireLayoutSingleDistinctValue(t *testing.T) {
	got := Compress([]byte("aaa"))
	want := []byte{
		3, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0,
		'a', 3, 0, 0, 0,
		5,    // three 1-bit codes, padded to a byte
		0x00, // code "0" repeated
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	valid := Compress([]byte("aab"))

	mutate := func(off int, b byte) []byte {
		out := append([]byte(nil), valid...)
		out[off] = b
		return out
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"truncated header", []byte{1, 2, 3}},
		{"trailing bytes after empty header", append(make([]byte, 8), 0xff)},
		{"truncated frequency table", valid[:10]},
		{"impossible padding", mutate(22, 9)},
		{"size larger than bitstream", mutate(0, 4)},
		{"zero entry count", mutate(8, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Decompress(tc.data)
			if err == nil {
				t.Fatalf("Decompress accepted corrupt input, returned %x", out)
			}
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("error %v does not wrap ErrCorrupt", err)
			}
			if len(out) != 0 {
				t.Fatalf("corrupt decode returned partial output %x", out)
			}
		})
	}
}

func TestDecompressStopsAtDeclaredSize(t *testing.T) {
	// Bits beyond originalSize are ignored rather than rejected.
	data := Compress([]byte("aab"))
	data[0] = 2
	out, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != "aa" {
		t.Fatalf("decoded %q, want %q", out, "aa")
	}
}
