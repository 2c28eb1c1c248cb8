package board

import (
	"fmt"
	"strings"
)

// Position is the complete state of a chess position. It holds no pointers,
// so assignment copies it.
type Position struct {
	// colors[c] holds every square occupied by color c.
	colors [2]Bitboard
	// pieces[k] holds every square occupied by kind k, either color.
	pieces [6]Bitboard

	sideToMove Color
	castling   CastlingRights
	// enPassant is the square a pawn passed over on the previous ply, or NoSquare.
	enPassant Square

	halfmoveClock  int
	fullmoveNumber int
}

// NewPosition returns an empty board with white to move and no rights.
func NewPosition() Position {
	return Position{enPassant: NoSquare, fullmoveNumber: 1}
}

// StartPosition returns the standard initial arrangement.
func StartPosition() Position {
	p := NewPosition()
	back := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, k := range back {
		p.put(SquareAt(file, 0), White, k)
		p.put(SquareAt(file, 1), White, Pawn)
		p.put(SquareAt(file, 6), Black, Pawn)
		p.put(SquareAt(file, 7), Black, k)
	}
	p.castling = AllCastling
	return p
}

// ==========================
// Low-level placement
// ==========================

func (p *Position) put(sq Square, c Color, k PieceKind) {
	bb := SquareBB(sq)
	p.colors[c] |= bb
	p.pieces[k] |= bb
}

func (p *Position) remove(sq Square, c Color, k PieceKind) {
	bb := SquareBB(sq)
	p.colors[c] &^= bb
	p.pieces[k] &^= bb
}

// relocate moves a piece of color c and kind k. The destination must be empty.
func (p *Position) relocate(from, to Square, c Color, k PieceKind) {
	mask := SquareBB(from) | SquareBB(to)
	p.colors[c] ^= mask
	p.pieces[k] ^= mask
}

// ==========================
// Setters for position builders
// ==========================

// SetPiece places a piece on sq, replacing whatever stood there.
func (p *Position) SetPiece(sq Square, c Color, k PieceKind) {
	p.ClearSquare(sq)
	p.put(sq, c, k)
}

// ClearSquare removes any piece from sq.
func (p *Position) ClearSquare(sq Square) {
	mask := ^SquareBB(sq)
	p.colors[White] &= mask
	p.colors[Black] &= mask
	for k := range p.pieces {
		p.pieces[k] &= mask
	}
}

func (p *Position) SetSideToMove(c Color)               { p.sideToMove = c }
func (p *Position) SetCastlingRights(cr CastlingRights) { p.castling = cr & AllCastling }
func (p *Position) SetHalfmoveClock(n int)              { p.halfmoveClock = n }
func (p *Position) SetFullmoveNumber(n int)             { p.fullmoveNumber = n }

// SetEnPassantSquare sets the en passant target; an off-board square clears it.
func (p *Position) SetEnPassantSquare(sq Square) {
	if !sq.Valid() {
		sq = NoSquare
	}
	p.enPassant = sq
}

// ==========================
// Accessors
// ==========================

// ColorBB returns the squares occupied by color c.
func (p *Position) ColorBB(c Color) Bitboard { return p.colors[c] }

// KindBB returns the squares occupied by kind k of either color.
func (p *Position) KindBB(k PieceKind) Bitboard { return p.pieces[k] }

// PiecesBB returns the squares holding pieces of color c and kind k.
func (p *Position) PiecesBB(c Color, k PieceKind) Bitboard { return p.colors[c] & p.pieces[k] }

func (p *Position) SideToMove() Color              { return p.sideToMove }
func (p *Position) CastlingRights() CastlingRights { return p.castling }
func (p *Position) EnPassantSquare() Square        { return p.enPassant }
func (p *Position) HalfmoveClock() int             { return p.halfmoveClock }
func (p *Position) FullmoveNumber() int            { return p.fullmoveNumber }

// Occupancy returns every occupied square.
func (p *Position) Occupancy() Bitboard { return p.colors[White] | p.colors[Black] }

// IsEmpty reports whether no piece stands on sq.
func (p *Position) IsEmpty(sq Square) bool { return !p.Occupancy().Has(sq) }

// PieceKindAt returns the kind on sq. The second result is false for an empty square.
func (p *Position) PieceKindAt(sq Square) (PieceKind, bool) {
	bb := SquareBB(sq)
	for k := Pawn; k <= King; k++ {
		if p.pieces[k]&bb != 0 {
			return k, true
		}
	}
	return NoPieceKind, false
}

// ColorAt returns the color on sq. The second result is false for an empty square.
func (p *Position) ColorAt(sq Square) (Color, bool) {
	switch bb := SquareBB(sq); {
	case p.colors[White]&bb != 0:
		return White, true
	case p.colors[Black]&bb != 0:
		return Black, true
	}
	return White, false
}

// KingSquare locates the king of color c.
func (p *Position) KingSquare(c Color) (Square, error) {
	kings := p.PiecesBB(c, King)
	if kings == 0 {
		return NoSquare, fmt.Errorf("%w: no %s king", ErrInvalidPosition, c)
	}
	return kings.LSB(), nil
}

// ==========================
// Move classification
// ==========================

// IsCapture reports whether m lands on a piece of the mover's opposite color.
// En passant captures land on an empty square and are reported by IsEnPassant.
func (p *Position) IsCapture(m Move) bool {
	mover, ok := p.ColorAt(m.From())
	if !ok {
		return false
	}
	return p.colors[mover.Other()].Has(m.To())
}

// IsCastle reports whether m is one of the four two-square king moves for a
// piece of kind k and color c.
func (p *Position) IsCastle(m Move, k PieceKind, c Color) bool {
	if k != King {
		return false
	}
	_, ok := castleFor(c, m.From(), m.To())
	return ok
}

// IsEnPassant reports whether m is a pawn capturing diagonally onto the en
// passant target with an opposing pawn directly behind the target.
func (p *Position) IsEnPassant(m Move) bool {
	if p.enPassant == NoSquare || m.To() != p.enPassant || m.From().File() == m.To().File() {
		return false
	}
	mover, ok := p.ColorAt(m.From())
	if !ok || !p.PiecesBB(mover, Pawn).Has(m.From()) {
		return false
	}
	victim, ok := enPassantVictim(m.To(), mover)
	return ok && p.PiecesBB(mover.Other(), Pawn).Has(victim)
}

// enPassantVictim is the square one rank behind to, seen from the mover.
func enPassantVictim(to Square, mover Color) (Square, bool) {
	if mover == White {
		return to.Offset(0, -1)
	}
	return to.Offset(0, 1)
}

// ==========================
// Consistency
// ==========================

// Validate checks the structural rules every position must satisfy: one kind
// and one color per occupied square, at most one king per color, castling
// rights only with king and rook at home, and an en passant target only
// directly behind a pawn that has just advanced two squares.
func (p *Position) Validate() error {
	if p.colors[White]&p.colors[Black] != 0 {
		return fmt.Errorf("%w: squares %v claimed by both colors", ErrInvalidPosition, (p.colors[White] & p.colors[Black]).Squares())
	}
	var union Bitboard
	for k, bb := range p.pieces {
		if union&bb != 0 {
			return fmt.Errorf("%w: %s overlaps another kind on %v", ErrInvalidPosition, PieceKind(k), (union & bb).Squares())
		}
		union |= bb
	}
	if union != p.Occupancy() {
		return fmt.Errorf("%w: kind and color occupancy disagree on %v", ErrInvalidPosition, (union ^ p.Occupancy()).Squares())
	}
	for _, c := range []Color{White, Black} {
		if n := p.PiecesBB(c, King).Count(); n > 1 {
			return fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, n, c)
		}
	}
	for _, cs := range castles {
		if p.castling&cs.right == 0 {
			continue
		}
		if !p.PiecesBB(cs.color, King).Has(cs.kingFrom) || !p.PiecesBB(cs.color, Rook).Has(cs.rookFrom) {
			return fmt.Errorf("%w: castling right %s without king and rook at home", ErrInvalidPosition, cs.right)
		}
	}
	if p.enPassant != NoSquare {
		if err := p.validateEnPassant(); err != nil {
			return err
		}
	}
	if p.halfmoveClock < 0 || p.fullmoveNumber < 1 {
		return fmt.Errorf("%w: move counters %d/%d", ErrInvalidPosition, p.halfmoveClock, p.fullmoveNumber)
	}
	return nil
}

func (p *Position) validateEnPassant() error {
	ep := p.enPassant
	if !ep.Valid() {
		return fmt.Errorf("%w: en passant square %d", ErrInvalidPosition, int(ep))
	}
	// The pawn that just advanced belongs to the side not on move.
	pusher := p.sideToMove.Other()
	wantRank, forward := 2, 1
	if pusher == Black {
		wantRank, forward = 5, -1
	}
	if ep.Rank() != wantRank {
		return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidPosition, ep)
	}
	pawnSq, _ := ep.Offset(0, forward)
	originSq, _ := ep.Offset(0, -forward)
	if !p.IsEmpty(ep) || !p.IsEmpty(originSq) || !p.PiecesBB(pusher, Pawn).Has(pawnSq) {
		return fmt.Errorf("%w: en passant square %s without a double-pushed pawn", ErrInvalidPosition, ep)
	}
	return nil
}

// String draws the board with FEN letters, rank 8 first.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := SquareAt(file, rank)
			k, ok := p.PieceKindAt(sq)
			if !ok {
				sb.WriteString(". ")
				continue
			}
			c, _ := p.ColorAt(sq)
			sb.WriteByte(pieceLetter(c, k))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
