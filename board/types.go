// Package board models a chess position as bitboards and generates moves for it.
//
// A Position is a fixed-size value: copying it with plain assignment yields an
// independent snapshot, which is how legality is tested (copy, apply, look at
// the king). Positions may therefore be simulated on separate goroutines
// without synchronization.
package board

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove reports a move that cannot be applied to the position.
	ErrIllegalMove = errors.New("board: illegal move")
	// ErrInvalidPosition reports a position that breaks a structural rule, such
	// as a side with no king when king-relative queries are made.
	ErrInvalidPosition = errors.New("board: invalid position")
	// ErrEmptySquare reports a piece query on an empty square.
	ErrEmptySquare = errors.New("board: empty square")
	// ErrNotSlider reports a slider query on a pawn, knight or king.
	ErrNotSlider = errors.New("board: piece is not a slider")
	// ErrWrongPiece reports a pawn or knight query on a square holding another kind.
	ErrWrongPiece = errors.New("board: unexpected piece kind")

	ErrInvalidFEN    = errors.New("board: invalid FEN")
	ErrInvalidSquare = errors.New("board: invalid square")
	ErrInvalidMove   = errors.New("board: invalid move notation")
)

// ==========================
// Squares
// ==========================

// Square addresses a board cell, a1=0 through h8=63.
type Square int

// NoSquare marks an absent square, such as no en passant target.
const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// SquareAt returns the square on the given file and rank, both in [0,8).
func SquareAt(file, rank int) Square { return Square(rank*8 + file) }

// File returns the file index, 0 for the a-file.
func (sq Square) File() int { return int(sq) % 8 }

// Rank returns the rank index, 0 for the first rank.
func (sq Square) Rank() int { return int(sq) / 8 }

// Valid reports whether sq lies on the board.
func (sq Square) Valid() bool { return sq >= A1 && sq <= H8 }

// Offset moves sq by df files and dr ranks. The second result is false when
// the target falls off the board; squares never wrap across an edge.
func (sq Square) Offset(df, dr int) (Square, bool) {
	f, r := sq.File()+df, sq.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return SquareAt(f, r), true
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses coordinate notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}

// ==========================
// Colors and pieces
// ==========================

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind is a colorless piece type usable as an array index.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceKind
)

// IsSlider reports whether the kind moves along rays.
func (k PieceKind) IsSlider() bool { return k == Bishop || k == Rook || k == Queen }

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// ==========================
// Castling
// ==========================

// CastlingRights is a set of castling flags.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// String renders the rights the way FEN does, "-" for none.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var b []byte
	for i, ch := range "KQkq" {
		if cr&(1<<uint(i)) != 0 {
			b = append(b, byte(ch))
		}
	}
	return string(b)
}

// castleSpec describes one of the four castling moves.
type castleSpec struct {
	right            CastlingRights
	color            Color
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	between          Bitboard // must be empty
	transit          Square   // square the king crosses
}

var castles = [4]castleSpec{
	{WhiteKingside, White, E1, G1, H1, F1, SquaresBB(F1, G1), F1},
	{WhiteQueenside, White, E1, C1, A1, D1, SquaresBB(B1, C1, D1), D1},
	{BlackKingside, Black, E8, G8, H8, F8, SquaresBB(F8, G8), F8},
	{BlackQueenside, Black, E8, C8, A8, D8, SquaresBB(B8, C8, D8), D8},
}

// castleFor returns the castling move a king of color c makes from -> to.
func castleFor(c Color, from, to Square) (castleSpec, bool) {
	for _, cs := range castles {
		if cs.color == c && cs.kingFrom == from && cs.kingTo == to {
			return cs, true
		}
	}
	return castleSpec{}, false
}

// rightsLost[sq] holds the rights that vanish once a piece leaves or is
// captured on sq.
var rightsLost = func() (t [64]CastlingRights) {
	t[E1] = WhiteKingside | WhiteQueenside
	t[H1] = WhiteKingside
	t[A1] = WhiteQueenside
	t[E8] = BlackKingside | BlackQueenside
	t[H8] = BlackKingside
	t[A8] = BlackQueenside
	return t
}()

// ==========================
// Moves
// ==========================

// Move packs an origin and destination square as from<<6 | to. Castling, en
// passant and double pushes are recognised from the board when the move is
// applied. Sorting moves numerically sorts them by origin, then destination.
type Move uint16

// NullMove is the zero value; it never names a playable move.
const NullMove Move = 0

// NewMove builds a move between two on-board squares.
func NewMove(from, to Square) Move { return Move(uint16(from&63)<<6 | uint16(to&63)) }

func (m Move) From() Square { return Square(m >> 6 & 63) }
func (m Move) To() Square   { return Square(m & 63) }

// String returns coordinate notation, e.g. "e2e4".
func (m Move) String() string { return m.From().String() + m.To().String() }

// ParseMove parses coordinate notation such as "g1f3". Promotion suffixes are
// rejected since pawns never promote in this model.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	return NewMove(from, to), nil
}
