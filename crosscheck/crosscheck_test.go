package crosscheck_test

import (
	"context"
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"golang.org/x/exp/slices"

	"chess-core/board"
	"chess-core/crosscheck"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	// A white pawn one step from promotion.
	promotionFEN = "8/P7/8/8/8/8/8/k6K w - - 0 1"
)

func captureLogs(t *testing.T) *memory.Handler {
	t.Helper()
	h := memory.New()
	prev := crosscheck.Logger
	crosscheck.Logger = &log.Logger{Handler: h, Level: log.DebugLevel}
	t.Cleanup(func() { crosscheck.Logger = prev })
	return h
}

func TestRunAgrees(t *testing.T) {
	data := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		{board.StartFEN, 3, 8902},
		{kiwipeteFEN, 2, 2039},
		{position3FEN, 3, 2812},
	}
	for _, d := range data {
		r, err := crosscheck.Run(context.Background(), d.fen, d.depth)
		if err != nil {
			t.Fatalf("Run(%s, %d): %v", d.fen, d.depth, err)
		}
		if !r.OK() {
			t.Errorf("%s", r)
		}
		for _, name := range crosscheck.Engines {
			if r.Counts[name] != d.nodes {
				t.Errorf("%s depth %d %s: got %d want %d", d.fen, d.depth, name, r.Counts[name], d.nodes)
			}
		}
	}
}

func TestRunReportsPromotionMismatch(t *testing.T) {
	h := captureLogs(t)
	r, err := crosscheck.Run(context.Background(), promotionFEN, 1)
	if err != nil {
		t.Fatal(err)
	}
	// a7a8 stays a pawn here, the other engines count four promotions.
	if r.Counts[crosscheck.Board] != 4 {
		t.Fatalf("board count: got %d want 4", r.Counts[crosscheck.Board])
	}
	want := []string{crosscheck.Dragontooth, crosscheck.Goose, crosscheck.Notnil}
	slices.Sort(want)
	if got := r.Mismatches(); !slices.Equal(got, want) {
		t.Fatalf("mismatches: got %v want %v", got, want)
	}

	warnings := 0
	for _, e := range h.Entries {
		if e.Level == log.WarnLevel {
			warnings++
		}
	}
	if warnings != 3 {
		t.Fatalf("got %d mismatch warnings want 3", warnings)
	}

	if err := crosscheck.Check(context.Background(), promotionFEN, 1); !errors.Is(err, crosscheck.ErrMismatch) {
		t.Fatalf("Check: got %v want ErrMismatch", err)
	}
}

func TestRunRejectsBadFEN(t *testing.T) {
	if _, err := crosscheck.Run(context.Background(), "8/8/8 w - - 0 1", 1); !errors.Is(err, board.ErrInvalidFEN) {
		t.Fatalf("got %v want ErrInvalidFEN", err)
	}
}

func TestReportMismatches(t *testing.T) {
	r := crosscheck.Report{Counts: map[string]uint64{
		crosscheck.Board:       20,
		crosscheck.Dragontooth: 20,
		crosscheck.Goose:       21,
		crosscheck.Notnil:      19,
	}}
	got := r.Mismatches()
	want := []string{crosscheck.Goose, crosscheck.Notnil}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if r.OK() {
		t.Fatalf("report with mismatches is OK")
	}
}

func TestDragontoothBridge(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipeteFEN, position3FEN, "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1"} {
		p := board.MustParseFEN(fen)
		b := crosscheck.ToDragontooth(p)
		if b.Wtomove != (p.SideToMove() == board.White) {
			t.Fatalf("%s: side to move lost", fen)
		}
		if b.White.All != uint64(p.ColorBB(board.White)) || b.Black.All != uint64(p.ColorBB(board.Black)) {
			t.Fatalf("%s: occupancy differs", fen)
		}
		if b.White.Pawns != uint64(p.PiecesBB(board.White, board.Pawn)) || b.Black.Kings != uint64(p.PiecesBB(board.Black, board.King)) {
			t.Fatalf("%s: piece bitboards differ", fen)
		}
		back, err := crosscheck.FromDragontooth(&b)
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		if back.Hash() != p.Hash() {
			t.Fatalf("%s: round trip gave %s", fen, back.FEN())
		}
	}
}
