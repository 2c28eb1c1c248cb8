package board

import (
	"fmt"
	"sync/atomic"

	"chess-core/magic"
)

// Step patterns for knights and kings, indexed by origin square.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard

// pawnAttacks[c][sq] holds the squares a pawn of color c on sq attacks.
var pawnAttacks [2][64]Bitboard

func init() {
	initStepTables()
}

// initStepTables builds the fixed knight, king and pawn patterns from offset
// lists. Off-board targets are dropped, never wrapped.
func initStepTables() {
	knightOffsets := [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := A1; sq <= H8; sq++ {
		for _, off := range knightOffsets {
			if t, ok := sq.Offset(off[0], off[1]); ok {
				knightAttacks[sq].Set(t)
			}
		}
		for _, off := range kingOffsets {
			if t, ok := sq.Offset(off[0], off[1]); ok {
				kingAttacks[sq].Set(t)
			}
		}
		for _, df := range []int{-1, 1} {
			if t, ok := sq.Offset(df, 1); ok {
				pawnAttacks[White][sq].Set(t)
			}
			if t, ok := sq.Offset(df, -1); ok {
				pawnAttacks[Black][sq].Set(t)
			}
		}
	}
}

// KnightAttacks returns the knight step pattern from sq, ignoring the board.
// Off-board squares have no pattern.
func KnightAttacks(sq Square) Bitboard {
	if !sq.Valid() {
		return 0
	}
	return knightAttacks[sq]
}

// KingAttacks returns the king step pattern from sq, ignoring the board.
func KingAttacks(sq Square) Bitboard {
	if !sq.Valid() {
		return 0
	}
	return kingAttacks[sq]
}

// PawnAttacks returns the two diagonal squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	if !sq.Valid() {
		return 0
	}
	return pawnAttacks[c&1][sq]
}

// ==========================
// Slider tables
// ==========================

var sliderTables atomic.Pointer[magic.Tables]

func tables() *magic.Tables {
	if t := sliderTables.Load(); t != nil {
		return t
	}
	return magic.Default()
}

// SetAttackTables replaces the sliding-attack dataset used by move
// generation, typically with one loaded from disk by magic.Load. The dataset
// is verified first and left uninstalled if any lookup is wrong. Passing nil
// restores the built-in tables.
func SetAttackTables(t *magic.Tables) error {
	if t == nil {
		sliderTables.Store(nil)
		return nil
	}
	if err := t.Verify(); err != nil {
		return fmt.Errorf("install attack tables: %w", err)
	}
	sliderTables.Store(t)
	return nil
}

func rookAttacks(sq Square, occ Bitboard) Bitboard {
	return Bitboard(tables().RookAttacks(int(sq), uint64(occ)))
}

func bishopAttacks(sq Square, occ Bitboard) Bitboard {
	return Bitboard(tables().BishopAttacks(int(sq), uint64(occ)))
}

// ==========================
// Attack queries
// ==========================

// IsAttackedBy reports whether any piece of color c attacks sq. The square's
// own occupant is irrelevant; only attackers and blockers count. Off-board
// squares are never attacked.
func (p *Position) IsAttackedBy(c Color, sq Square) bool {
	if !sq.Valid() {
		return false
	}
	them := p.colors[c]
	// A pawn of c attacks sq iff a pawn of the other color on sq would attack it.
	if pawnAttacks[c.Other()][sq]&them&p.pieces[Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&them&p.pieces[Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&them&p.pieces[King] != 0 {
		return true
	}
	occ := p.Occupancy()
	queens := p.pieces[Queen]
	if rookAttacks(sq, occ)&them&(p.pieces[Rook]|queens) != 0 {
		return true
	}
	return bishopAttacks(sq, occ)&them&(p.pieces[Bishop]|queens) != 0
}

// Attackers returns every piece of color c that attacks sq.
func (p *Position) Attackers(c Color, sq Square) Bitboard {
	if !sq.Valid() {
		return 0
	}
	occ := p.Occupancy()
	queens := p.pieces[Queen]
	att := pawnAttacks[c.Other()][sq] & p.pieces[Pawn]
	att |= knightAttacks[sq] & p.pieces[Knight]
	att |= kingAttacks[sq] & p.pieces[King]
	att |= rookAttacks(sq, occ) & (p.pieces[Rook] | queens)
	att |= bishopAttacks(sq, occ) & (p.pieces[Bishop] | queens)
	return att & p.colors[c]
}

// InCheck reports whether the king of color c is attacked.
func (p *Position) InCheck(c Color) (bool, error) {
	ks, err := p.KingSquare(c)
	if err != nil {
		return false, err
	}
	return p.IsAttackedBy(c.Other(), ks), nil
}
