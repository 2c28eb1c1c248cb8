package magic

// Rook directions: N, S, E, W. Bishop directions: NE, NW, SE, SW.
var (
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func bit(file, rank int) uint64 { return uint64(1) << uint(rank*8+file) }

// rayAttacks walks every direction from sq until it leaves the board or
// hits an occupied square, which is included.
func rayAttacks(sq int, occ uint64, dirs *[4][2]int) uint64 {
	var attacks uint64
	file, rank := sq%8, sq/8
	for _, d := range dirs {
		for f, r := file+d[0], rank+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
			b := bit(f, r)
			attacks |= b
			if occ&b != 0 {
				break
			}
		}
	}
	return attacks
}

// relevantMask collects the ray squares whose occupancy can change the
// attack set: the last square of each ray never blocks anything further.
func relevantMask(sq int, dirs *[4][2]int) uint64 {
	var mask uint64
	file, rank := sq%8, sq/8
	for _, d := range dirs {
		for f, r := file+d[0], rank+d[1]; onBoard(f, r) && onBoard(f+d[0], r+d[1]); f, r = f+d[0], r+d[1] {
			mask |= bit(f, r)
		}
	}
	return mask
}

// RookRayAttacks computes rook attacks by ray casting.
func RookRayAttacks(sq int, occ uint64) uint64 { return rayAttacks(sq, occ, &rookDirs) }

// BishopRayAttacks computes bishop attacks by ray casting.
func BishopRayAttacks(sq int, occ uint64) uint64 { return rayAttacks(sq, occ, &bishopDirs) }

// RookRelevantMask returns the blocker squares that matter to a rook on sq.
func RookRelevantMask(sq int) uint64 { return relevantMask(sq, &rookDirs) }

// BishopRelevantMask returns the blocker squares that matter to a bishop on sq.
func BishopRelevantMask(sq int) uint64 { return relevantMask(sq, &bishopDirs) }

// Subsets enumerates every subset of mask, starting with the empty set.
func Subsets(mask uint64) []uint64 {
	var subsets []uint64
	var s uint64
	for {
		subsets = append(subsets, s)
		s = (s - mask) & mask
		if s == 0 {
			return subsets
		}
	}
}
