package board

import "fmt"

// ApplyMove plays m on the position. It is the only operation that changes a
// position during play and does not check whether m is legal for the piece;
// callers that need that filter through LegalMoves.
//
// The move is rejected with ErrIllegalMove, leaving p untouched, when the
// origin is empty or holds a piece of the side not to move, the destination
// holds a piece of the mover's color, or it is a castle whose rook is missing
// or whose path is blocked.
//
// A king moving two squares from its home square is a castle and the rook
// moves with it. A pawn moving diagonally onto the en passant target removes
// the pawn behind the target. Castling rights vanish when the king or a rook
// leaves its home square or a rook is captured there. The halfmove clock
// resets on pawn moves and captures, the fullmove number advances after
// black moves, the en passant target is set after a double pawn push and
// cleared after anything else, and the side to move passes to the opponent.
func (p *Position) ApplyMove(m Move) error {
	if m>>12 != 0 {
		return fmt.Errorf("%w: %#04x is not a valid move encoding", ErrIllegalMove, uint16(m))
	}
	from, to := m.From(), m.To()
	if from == to {
		return fmt.Errorf("%w: %s does not move", ErrIllegalMove, m)
	}
	kind, ok := p.PieceKindAt(from)
	if !ok {
		return fmt.Errorf("%w: %s: %s is empty", ErrIllegalMove, m, from)
	}
	mover, _ := p.ColorAt(from)
	if mover != p.sideToMove {
		return fmt.Errorf("%w: %s: %s to move", ErrIllegalMove, m, p.sideToMove)
	}
	if p.colors[mover].Has(to) {
		return fmt.Errorf("%w: %s: %s holds a %s piece", ErrIllegalMove, m, to, mover)
	}
	castle, isCastle := castleFor(mover, from, to)
	isCastle = isCastle && kind == King
	if isCastle {
		if !p.PiecesBB(mover, Rook).Has(castle.rookFrom) {
			return fmt.Errorf("%w: %s: no rook on %s", ErrIllegalMove, m, castle.rookFrom)
		}
		if p.Occupancy()&castle.between != 0 {
			return fmt.Errorf("%w: %s: castling path is blocked", ErrIllegalMove, m)
		}
	}

	// Everything below works on a scratch copy committed at the end.
	next := *p
	captured := false

	if isCastle {
		next.relocate(castle.rookFrom, castle.rookTo, mover, Rook)
	}

	if p.IsEnPassant(m) {
		victim, _ := enPassantVictim(to, mover)
		next.remove(victim, mover.Other(), Pawn)
		captured = true
	} else if victimKind, ok := p.PieceKindAt(to); ok {
		next.remove(to, mover.Other(), victimKind)
		captured = true
	}

	next.relocate(from, to, mover, kind)
	next.castling &^= rightsLost[from] | rightsLost[to]

	if kind == Pawn || captured {
		next.halfmoveClock = 0
	} else {
		next.halfmoveClock++
	}
	if p.sideToMove == Black {
		next.fullmoveNumber++
	}

	next.enPassant = NoSquare
	if kind == Pawn && (to-from == 16 || from-to == 16) {
		next.enPassant = (from + to) / 2
	}
	next.sideToMove = p.sideToMove.Other()

	*p = next
	return nil
}
