// Package magic holds the sliding-piece attack tables used by move generation.
//
// For every square there is a record describing how to hash the blockers that
// are relevant to a rook or bishop on that square into a slot of a flattened
// attack table. A lookup masks the occupancy, multiplies it by the square's
// magic constant, shifts the product right and adds the square's offset.
// The magic constants are chosen so that two blocker sets only share a slot
// when their attack sets are identical.
package magic

import (
	"errors"
	"sync"
)

var (
	// ErrNoMagic is returned when the generator cannot find a collision free
	// multiplier for a square within its attempt budget.
	ErrNoMagic = errors.New("magic: no multiplier found")
	// ErrCorruptDataset is returned when a serialized dataset is malformed.
	ErrCorruptDataset = errors.New("magic: corrupt dataset")
	// ErrMismatch is returned by Verify when a lookup disagrees with ray casting.
	ErrMismatch = errors.New("magic: lookup mismatch")
)

// Entry is the per-square record of a magic table.
type Entry struct {
	Mask   uint64 // relevant blockers, edge squares excluded
	Magic  uint64
	Shift  uint8
	Offset uint32 // first slot of this square's block in the flattened table
}

// Index hashes occ into a slot of the flattened attack table.
func (e *Entry) Index(occ uint64) uint32 {
	return e.Offset + uint32(((occ&e.Mask)*e.Magic)>>e.Shift)
}

// size is the number of slots reserved for this square.
func (e *Entry) size() int { return 1 << (64 - uint(e.Shift)) }

// Tables is an immutable rook and bishop attack dataset.
// A *Tables may be shared between goroutines once built.
type Tables struct {
	rook   [64]Entry
	bishop [64]Entry

	rookAttacks   []uint64
	bishopAttacks []uint64
}

// RookAttacks returns the squares a rook on sq attacks given the board occupancy.
// The first blocker in every direction is included regardless of its color.
func (t *Tables) RookAttacks(sq int, occ uint64) uint64 {
	return t.rookAttacks[t.rook[sq].Index(occ)]
}

// BishopAttacks returns the squares a bishop on sq attacks given the board occupancy.
func (t *Tables) BishopAttacks(sq int, occ uint64) uint64 {
	return t.bishopAttacks[t.bishop[sq].Index(occ)]
}

// QueenAttacks is the union of the rook and bishop attacks from sq.
func (t *Tables) QueenAttacks(sq int, occ uint64) uint64 {
	return t.RookAttacks(sq, occ) | t.BishopAttacks(sq, occ)
}

// RookEntry returns the rook record for sq.
func (t *Tables) RookEntry(sq int) Entry { return t.rook[sq] }

// BishopEntry returns the bishop record for sq.
func (t *Tables) BishopEntry(sq int) Entry { return t.bishop[sq] }

// Len reports the number of slots in the rook and bishop attack tables.
func (t *Tables) Len() (rook, bishop int) {
	return len(t.rookAttacks), len(t.bishopAttacks)
}

// DefaultSeed seeds the generator behind Default.
const DefaultSeed uint64 = 0x2545F4914F6CDD1D

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the process-wide dataset generated from DefaultSeed.
// The tables are built on first use.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Generate(DefaultSeed)
		if err != nil {
			panic("magic: building default tables: " + err.Error())
		}
		defaultTables = t
	})
	return defaultTables
}
