package board

import "math/rand"

// Zobrist keys, indexed [color][kind][square], by castling rights set and by
// en passant file. zobristSide is mixed in when black is to move.
var (
	zobristPiece     [2][6][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed so hashes are stable across runs.
	rnd := rand.New(rand.NewSource(0xC0DE))
	for c := range zobristPiece {
		for k := range zobristPiece[c] {
			for sq := range zobristPiece[c][k] {
				zobristPiece[c][k][sq] = rnd.Uint64()
			}
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// Hash computes the Zobrist key of the position. Move counters are not part
// of the key, so positions that differ only in them hash equal.
func (p *Position) Hash() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for k := Pawn; k <= King; k++ {
			bb := p.PiecesBB(c, k)
			for bb != 0 {
				key ^= zobristPiece[c][k][bb.PopLSB()]
			}
		}
	}
	if p.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.castling&AllCastling]
	if p.enPassant.Valid() {
		key ^= zobristEnPassant[p.enPassant.File()]
	}
	return key
}
