package board_test

import (
	"context"
	"testing"

	"chess-core/board"
)

func benchPerft(b *testing.B, fen string, depth int) {
	p := board.MustParseFEN(fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := board.Perft(&p, depth); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPerftStartD3(b *testing.B)    { benchPerft(b, board.StartFEN, 3) }
func BenchmarkPerftStartD4(b *testing.B)    { benchPerft(b, board.StartFEN, 4) }
func BenchmarkPerftKiwipeteD2(b *testing.B) { benchPerft(b, kiwipeteFEN, 2) }
func BenchmarkPerftPos3D4(b *testing.B)     { benchPerft(b, position3FEN, 4) }

func BenchmarkPerftParallelStartD4(b *testing.B) {
	p := board.StartPosition()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := board.PerftParallel(context.Background(), &p, 4, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLegalMoves(b *testing.B) {
	p := board.MustParseFEN(kiwipeteFEN)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.LegalMoves(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApplyMove(b *testing.B) {
	start := board.StartPosition()
	m := board.NewMove(board.E2, board.E4)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := start
		if err := p.ApplyMove(m); err != nil {
			b.Fatal(err)
		}
	}
}
