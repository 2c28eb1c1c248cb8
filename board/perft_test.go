package board_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"chess-core/board"
	"chess-core/magic"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
)

// Reference counts. Depths are kept below the first promotion.
var perftCases = []struct {
	name  string
	fen   string
	depth int
	nodes uint64
	long  bool
}{
	{"start", board.StartFEN, 1, 20, false},
	{"start", board.StartFEN, 2, 400, false},
	{"start", board.StartFEN, 3, 8902, false},
	{"start", board.StartFEN, 4, 197281, true},
	{"kiwipete", kiwipeteFEN, 1, 48, false},
	{"kiwipete", kiwipeteFEN, 2, 2039, false},
	{"kiwipete", kiwipeteFEN, 3, 97862, true},
	{"position3", position3FEN, 1, 14, false},
	{"position3", position3FEN, 2, 191, false},
	{"position3", position3FEN, 3, 2812, false},
	{"position3", position3FEN, 4, 43238, true},
}

func TestPerft(t *testing.T) {
	for _, c := range perftCases {
		if c.long && testing.Short() {
			continue
		}
		p := mustFEN(t, c.fen)
		got, err := board.Perft(&p, c.depth)
		if err != nil {
			t.Fatalf("%s depth %d: %v", c.name, c.depth, err)
		}
		if got != c.nodes {
			t.Errorf("%s depth %d: got %d want %d", c.name, c.depth, got, c.nodes)
		}
	}
}

func TestPerftDepthZero(t *testing.T) {
	p := board.StartPosition()
	if got, err := board.Perft(&p, 0); err != nil || got != 1 {
		t.Fatalf("perft 0 = %d, %v want 1", got, err)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p := mustFEN(t, kiwipeteFEN)
	div, err := board.PerftDivide(&p, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(div) != 48 {
		t.Fatalf("divide has %d root moves want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d want 2039", sum)
	}
	if n := div[board.NewMove(board.E1, board.G1)]; n == 0 {
		t.Fatalf("castling e1g1 missing from divide")
	}
}

func TestPerftParallelMatchesSerial(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipeteFEN, position3FEN} {
		p := mustFEN(t, fen)
		want, err := board.Perft(&p, 3)
		if err != nil {
			t.Fatal(err)
		}
		for _, workers := range []int{0, 1, 4} {
			got, err := board.PerftParallel(context.Background(), &p, 3, workers)
			if err != nil {
				t.Fatalf("%s workers=%d: %v", fen, workers, err)
			}
			if got != want {
				t.Errorf("%s workers=%d: got %d want %d", fen, workers, got, want)
			}
		}
	}
}

func TestPerftParallelCancelled(t *testing.T) {
	p := board.StartPosition()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := board.PerftParallel(ctx, &p, 3, 2); err == nil {
		t.Fatalf("cancelled context should stop the walk")
	}
}

func TestSetAttackTables(t *testing.T) {
	alt, err := magic.Generate(12345)
	if err != nil {
		t.Fatal(err)
	}
	if err := board.SetAttackTables(alt); err != nil {
		t.Fatalf("SetAttackTables: %v", err)
	}
	defer board.SetAttackTables(nil)

	p := mustFEN(t, kiwipeteFEN)
	if got, err := board.Perft(&p, 2); err != nil || got != 2039 {
		t.Fatalf("kiwipete depth 2 with alternate tables: %d, %v", got, err)
	}
}

func TestSetAttackTablesRejectsBadDataset(t *testing.T) {
	alt, err := magic.Generate(12345)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := alt.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	b[16+128*21] ^= 0x02 // first rook attack word
	bad, err := magic.Read(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := board.SetAttackTables(bad); !errors.Is(err, magic.ErrMismatch) {
		t.Fatalf("got %v want ErrMismatch", err)
	}

	// The built-in tables stay in use.
	p := board.StartPosition()
	if got, err := board.Perft(&p, 3); err != nil || got != 8902 {
		t.Fatalf("start depth 3 after rejected install: %d, %v", got, err)
	}
}
