package magic_test

import (
	"bytes"
	"errors"
	"math/bits"
	"math/rand"
	"testing"

	"chess-core/magic"

	"github.com/dylhunn/dragontoothmg"
)

func TestDefaultVerifies(t *testing.T) {
	if err := magic.Default().Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestRelevantMaskSizes(t *testing.T) {
	data := []struct {
		name string
		mask func(int) uint64
		sq   int
		want int
	}{
		{"rook a1", magic.RookRelevantMask, 0, 12},
		{"rook d4", magic.RookRelevantMask, 27, 10},
		{"rook h8", magic.RookRelevantMask, 63, 12},
		{"rook b2", magic.RookRelevantMask, 9, 10},
		{"bishop a1", magic.BishopRelevantMask, 0, 6},
		{"bishop d4", magic.BishopRelevantMask, 27, 9},
		{"bishop b1", magic.BishopRelevantMask, 1, 5},
	}
	for _, d := range data {
		if got := bits.OnesCount64(d.mask(d.sq)); got != d.want {
			t.Errorf("%s: got %d relevant squares, want %d", d.name, got, d.want)
		}
	}
}

func TestTableSizes(t *testing.T) {
	rook, bishop := magic.Default().Len()
	if rook != 102400 {
		t.Errorf("rook table has %d slots, want 102400", rook)
	}
	if bishop != 5248 {
		t.Errorf("bishop table has %d slots, want 5248", bishop)
	}
}

func TestRayAttacksKnownValues(t *testing.T) {
	// Rook on a1, empty board: the a-file and first rank.
	if got := magic.RookRayAttacks(0, 0); got != 0x01010101010101fe {
		t.Errorf("rook a1 empty board: got %#x", got)
	}
	// Blockers on a3 and c1 are included and stop the rays.
	if got, want := magic.RookRayAttacks(0, 1<<16|1<<2), uint64(1<<8|1<<16|1<<1|1<<2); got != want {
		t.Errorf("rook a1 blocked: got %#x, want %#x", got, want)
	}
	if got := magic.BishopRayAttacks(0, 0); got != 0x8040201008040200 {
		t.Errorf("bishop a1 empty board: got %#x", got)
	}
}

func TestLookupMatchesDragontooth(t *testing.T) {
	tables := magic.Default()
	rng := rand.New(rand.NewSource(0xC0DE))
	for sq := 0; sq < 64; sq++ {
		for i := 0; i < 200; i++ {
			occ := rng.Uint64() & rng.Uint64()
			if got, want := tables.RookAttacks(sq, occ), dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ); got != want {
				t.Fatalf("rook sq %d occ %#x: got %#x, want %#x", sq, occ, got, want)
			}
			if got, want := tables.BishopAttacks(sq, occ), dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ); got != want {
				t.Fatalf("bishop sq %d occ %#x: got %#x, want %#x", sq, occ, got, want)
			}
		}
	}
}

func TestQueenIsUnion(t *testing.T) {
	tables := magic.Default()
	occ := uint64(0xffff00000010efff) // after 1.e3
	for sq := 0; sq < 64; sq++ {
		want := magic.RookRayAttacks(sq, occ) | magic.BishopRayAttacks(sq, occ)
		if got := tables.QueenAttacks(sq, occ); got != want {
			t.Errorf("queen sq %d: got %#x, want %#x", sq, got, want)
		}
	}
}

func TestSubsets(t *testing.T) {
	mask := uint64(1<<3 | 1<<17 | 1<<40)
	subsets := magic.Subsets(mask)
	if len(subsets) != 8 {
		t.Fatalf("got %d subsets, want 8", len(subsets))
	}
	seen := map[uint64]bool{}
	for _, s := range subsets {
		if s&^mask != 0 {
			t.Errorf("subset %#x escapes mask", s)
		}
		if seen[s] {
			t.Errorf("subset %#x repeated", s)
		}
		seen[s] = true
	}
	if subsets[0] != 0 {
		t.Errorf("first subset is %#x, want 0", subsets[0])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := magic.Generate(7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := magic.Generate(7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for sq := 0; sq < 64; sq++ {
		if a.RookEntry(sq) != b.RookEntry(sq) || a.BishopEntry(sq) != b.BishopEntry(sq) {
			t.Fatalf("square %d differs between runs with the same seed", sq)
		}
	}
	if err := a.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	src := magic.Default()
	var buf bytes.Buffer
	n, err := src.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, buffer holds %d", n, buf.Len())
	}

	got, err := magic.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for sq := 0; sq < 64; sq++ {
		if got.RookEntry(sq) != src.RookEntry(sq) {
			t.Errorf("rook entry %d: got %+v, want %+v", sq, got.RookEntry(sq), src.RookEntry(sq))
		}
		if got.BishopEntry(sq) != src.BishopEntry(sq) {
			t.Errorf("bishop entry %d: got %+v, want %+v", sq, got.BishopEntry(sq), src.BishopEntry(sq))
		}
	}
	if err := got.Verify(); err != nil {
		t.Fatalf("Verify after round trip: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := t.TempDir() + "/magics.bin"
	if err := magic.Default().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := magic.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := got.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, err := magic.Load(path + ".missing"); err == nil {
		t.Fatalf("Load of a missing file succeeded")
	}
}

// Byte offsets into the encoded dataset.
const (
	headerSize   = 16
	entrySize    = 21
	firstShift   = headerSize + 16
	firstOffset  = headerSize + 17
	firstAttacks = headerSize + 128*entrySize
)

func TestReadRejectsCorruption(t *testing.T) {
	var clean bytes.Buffer
	if _, err := magic.Default().WriteTo(&clean); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	data := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"bad header", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad version", func(b []byte) []byte { b[4] = 9; return b }},
		{"huge table", func(b []byte) []byte { b[11] = 0xff; return b }},
		{"bad shift", func(b []byte) []byte { b[firstShift] = 3; return b }},
		{"offset past end", func(b []byte) []byte {
			copy(b[firstOffset:], []byte{0xff, 0xff, 0xff, 0x7f})
			return b
		}},
		{"truncated records", func(b []byte) []byte { return b[:headerSize+100] }},
		{"truncated attacks", func(b []byte) []byte { return b[:len(b)-1] }},
		{"empty", func(b []byte) []byte { return b[:0] }},
	}
	for _, d := range data {
		b := d.mutate(append([]byte(nil), clean.Bytes()...))
		if _, err := magic.Read(bytes.NewReader(b)); !errors.Is(err, magic.ErrCorruptDataset) {
			t.Errorf("%s: got %v, want ErrCorruptDataset", d.name, err)
		}
	}
}

func TestVerifyDetectsTamperedAttacks(t *testing.T) {
	var buf bytes.Buffer
	if _, err := magic.Default().WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	b := buf.Bytes()
	// Slot 0 of a1 holds the attacks for an empty board.
	b[firstAttacks] ^= 0x02

	tables, err := magic.Read(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := tables.Verify(); !errors.Is(err, magic.ErrMismatch) {
		t.Fatalf("Verify: got %v, want ErrMismatch", err)
	}
}

func BenchmarkRookAttacks(b *testing.B) {
	tables := magic.Default()
	occ := uint64(0xffff00000010efff)
	b.ReportAllocs()
	b.ResetTimer()
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink ^= tables.RookAttacks(i&63, occ)
	}
	_ = sink
}
