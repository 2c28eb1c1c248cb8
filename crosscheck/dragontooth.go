package crosscheck

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"

	"chess-core/board"
)

// ToDragontooth converts a position to the board type used by the search
// engine. Both sides go through FEN, so the move counters survive.
func ToDragontooth(p board.Position) dragontoothmg.Board {
	return dragontoothmg.ParseFen(p.FEN())
}

// FromDragontooth converts a dragontoothmg board back to a Position.
func FromDragontooth(b *dragontoothmg.Board) (board.Position, error) {
	p, err := board.ParseFEN(b.ToFen())
	if err != nil {
		return board.Position{}, fmt.Errorf("from dragontoothmg: %w", err)
	}
	return p, nil
}

// dragontoothPerft parses fen through board first, since ParseFen panics on
// malformed input.
func dragontoothPerft(fen string, depth int) (uint64, error) {
	p, err := board.ParseFEN(fen)
	if err != nil {
		return 0, err
	}
	b := ToDragontooth(p)
	return dragontoothCount(&b, depth), nil
}

func dragontoothCount(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothCount(b, depth-1)
		undo()
	}
	return nodes
}
