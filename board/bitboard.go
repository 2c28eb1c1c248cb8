package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit i standing for square i.
// The Go operators & | ^ &^ work on it directly; the named forms below exist
// for callers that prefer method chains.
type Bitboard uint64

const (
	EmptyBB Bitboard = 0
	FullBB  Bitboard = ^Bitboard(0)

	Rank1BB Bitboard = 0xff
	Rank2BB Bitboard = Rank1BB << 8
	Rank7BB Bitboard = Rank1BB << 48
	Rank8BB Bitboard = Rank1BB << 56
	FileABB Bitboard = 0x0101010101010101
	FileHBB Bitboard = FileABB << 7
)

// SquareBB returns the set holding only sq.
func SquareBB(sq Square) Bitboard { return 1 << uint(sq) }

// SquaresBB returns the set holding every listed square.
func SquaresBB(sqs ...Square) Bitboard {
	var bb Bitboard
	for _, sq := range sqs {
		bb |= SquareBB(sq)
	}
	return bb
}

func (b Bitboard) And(o Bitboard) Bitboard { return b & o }
func (b Bitboard) Or(o Bitboard) Bitboard  { return b | o }
func (b Bitboard) Xor(o Bitboard) Bitboard { return b ^ o }
func (b Bitboard) Not() Bitboard           { return ^b }

// Set adds sq in place.
func (b *Bitboard) Set(sq Square) { *b |= SquareBB(sq) }

// Clear removes sq in place.
func (b *Bitboard) Clear(sq Square) { *b &^= SquareBB(sq) }

// Toggle flips sq in place.
func (b *Bitboard) Toggle(sq Square) { *b ^= SquareBB(sq) }

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool { return b&SquareBB(sq) != 0 }

func (b Bitboard) IsEmpty() bool { return b == 0 }

// Count returns the number of squares in the set.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// LSB returns the lowest square in the set, or NoSquare if it is empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// ClearLSB removes the lowest square in place.
func (b *Bitboard) ClearLSB() { *b &= *b - 1 }

// PopLSB removes the lowest square in place and returns it.
// It returns NoSquare on an empty set.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	b.ClearLSB()
	return sq
}

// Squares lists the members in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}

// String draws the set as an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.Has(SquareAt(file, rank)) {
				sb.WriteString("x ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
