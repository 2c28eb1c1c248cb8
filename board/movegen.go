package board

import "fmt"

// ==========================
// Per-piece destination queries
// ==========================

// PawnMoves returns the squares the pawn on sq can reach: one step forward
// onto an empty square, two from its home rank when both squares are empty,
// and diagonal captures of opposing pieces or onto the en passant target
// when an opposing pawn stands behind it.
func (p *Position) PawnMoves(sq Square) (Bitboard, error) {
	c, err := p.ownerOf(sq, Pawn)
	if err != nil {
		return 0, err
	}
	empty := ^p.Occupancy()
	dir, home := 1, 1
	if c == Black {
		dir, home = -1, 6
	}

	var moves Bitboard
	if one, ok := sq.Offset(0, dir); ok && empty.Has(one) {
		moves.Set(one)
		if sq.Rank() == home {
			if two, ok := one.Offset(0, dir); ok && empty.Has(two) {
				moves.Set(two)
			}
		}
	}

	targets := p.colors[c.Other()]
	if p.enPassant != NoSquare && c == p.sideToMove {
		if victim, ok := enPassantVictim(p.enPassant, c); ok && p.PiecesBB(c.Other(), Pawn).Has(victim) {
			targets.Set(p.enPassant)
		}
	}
	return moves | pawnAttacks[c][sq]&targets, nil
}

// KnightMoves returns the step pattern of the knight on sq minus squares held
// by its own color.
func (p *Position) KnightMoves(sq Square) (Bitboard, error) {
	c, err := p.ownerOf(sq, Knight)
	if err != nil {
		return 0, err
	}
	return knightAttacks[sq] &^ p.colors[c], nil
}

// SliderAttacks returns the rays of the bishop, rook or queen on sq up to and
// including the first blocker of either color.
func (p *Position) SliderAttacks(sq Square) (Bitboard, error) {
	k, ok := p.PieceKindAt(sq)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	occ := p.Occupancy()
	switch k {
	case Rook:
		return rookAttacks(sq, occ), nil
	case Bishop:
		return bishopAttacks(sq, occ), nil
	case Queen:
		return rookAttacks(sq, occ) | bishopAttacks(sq, occ), nil
	}
	return 0, fmt.Errorf("%w: %s on %s", ErrNotSlider, k, sq)
}

// SliderMoves is SliderAttacks without the squares held by the slider's own color.
func (p *Position) SliderMoves(sq Square) (Bitboard, error) {
	att, err := p.SliderAttacks(sq)
	if err != nil {
		return 0, err
	}
	c, _ := p.ColorAt(sq)
	return att &^ p.colors[c], nil
}

// KingMoves returns the destinations of the king of color c, castling
// included. A castle is offered only when the king is not in check, the right
// is held, king and rook stand on their home squares, every square between
// them is empty, and neither the square the king crosses nor its destination
// is attacked.
func (p *Position) KingMoves(c Color) (Bitboard, error) {
	ks, err := p.KingSquare(c)
	if err != nil {
		return 0, err
	}
	moves := kingAttacks[ks] &^ p.colors[c]

	them := c.Other()
	if p.castling == NoCastling || p.IsAttackedBy(them, ks) {
		return moves, nil
	}
	occ := p.Occupancy()
	for _, cs := range castles {
		if cs.color != c || p.castling&cs.right == 0 || ks != cs.kingFrom {
			continue
		}
		if !p.PiecesBB(c, Rook).Has(cs.rookFrom) || occ&cs.between != 0 {
			continue
		}
		if p.IsAttackedBy(them, cs.transit) || p.IsAttackedBy(them, cs.kingTo) {
			continue
		}
		moves.Set(cs.kingTo)
	}
	return moves, nil
}

// ownerOf returns the color of the piece on sq after checking it has kind want.
func (p *Position) ownerOf(sq Square, want PieceKind) (Color, error) {
	k, ok := p.PieceKindAt(sq)
	if !ok {
		return White, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	if k != want {
		return White, fmt.Errorf("%w: %s on %s, want %s", ErrWrongPiece, k, sq, want)
	}
	c, _ := p.ColorAt(sq)
	return c, nil
}

// ==========================
// Move lists
// ==========================

// PseudoLegalMoves lists every move of the side to move that obeys piece
// movement, without regard to the safety of its own king. Moves come out
// ordered by origin square, then destination square.
func (p *Position) PseudoLegalMoves() ([]Move, error) {
	return p.pseudoLegalMovesInto(make([]Move, 0, 64))
}

func (p *Position) pseudoLegalMovesInto(dst []Move) ([]Move, error) {
	us := p.sideToMove
	if p.PiecesBB(us, King) == 0 {
		return nil, fmt.Errorf("%w: no %s king", ErrInvalidPosition, us)
	}
	moves := dst[:0]
	own := p.colors[us]
	for own != 0 {
		from := own.PopLSB()
		k, _ := p.PieceKindAt(from)
		var dests Bitboard
		var err error
		switch k {
		case Pawn:
			dests, err = p.PawnMoves(from)
		case Knight:
			dests, err = p.KnightMoves(from)
		case Bishop, Rook, Queen:
			dests, err = p.SliderMoves(from)
		case King:
			dests, err = p.KingMoves(us)
		}
		if err != nil {
			return nil, err
		}
		for dests != 0 {
			moves = append(moves, NewMove(from, dests.PopLSB()))
		}
	}
	return moves, nil
}

// LegalMoves lists the moves of the side to move that do not leave its own
// king attacked, in the same order as PseudoLegalMoves. Each candidate is
// tried on a copy of the position, so p is never modified.
func (p *Position) LegalMoves() ([]Move, error) {
	return p.legalMovesInto(make([]Move, 0, 64))
}

func (p *Position) legalMovesInto(dst []Move) ([]Move, error) {
	moves, err := p.pseudoLegalMovesInto(dst)
	if err != nil {
		return nil, err
	}
	legal := moves[:0]
	for _, m := range moves {
		if p.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal, nil
}

// isLegal applies a pseudo-legal move to a copy and tests the mover's king.
func (p *Position) isLegal(m Move) bool {
	us := p.sideToMove
	next := *p
	if err := next.ApplyMove(m); err != nil {
		return false
	}
	ks, err := next.KingSquare(us)
	if err != nil {
		return false
	}
	return !next.IsAttackedBy(us.Other(), ks)
}

// IsLegal reports whether m is among the legal moves of the side to move.
func (p *Position) IsLegal(m Move) (bool, error) {
	moves, err := p.LegalMoves()
	if err != nil {
		return false, err
	}
	for _, lm := range moves {
		if lm == m {
			return true, nil
		}
	}
	return false, nil
}

// ==========================
// Game status
// ==========================

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() (bool, error) {
	moves, err := p.pseudoLegalMovesInto(make([]Move, 0, 64))
	if err != nil {
		return false, err
	}
	for _, m := range moves {
		if p.isLegal(m) {
			return true, nil
		}
	}
	return false, nil
}

// IsCheckmate reports whether the side to move is in check with no legal move.
func (p *Position) IsCheckmate() (bool, error) {
	return p.mateOrStalemate(true)
}

// IsStalemate reports whether the side to move is not in check and has no legal move.
func (p *Position) IsStalemate() (bool, error) {
	return p.mateOrStalemate(false)
}

func (p *Position) mateOrStalemate(wantCheck bool) (bool, error) {
	inCheck, err := p.InCheck(p.sideToMove)
	if err != nil {
		return false, err
	}
	if inCheck != wantCheck {
		return false, nil
	}
	has, err := p.HasLegalMoves()
	return err == nil && !has, err
}

// IsDrawBy50 reports a fifty-move rule draw; the halfmove clock counts plies.
func (p *Position) IsDrawBy50() bool { return p.halfmoveClock >= 100 }
