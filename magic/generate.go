package magic

import (
	"fmt"
	"math/bits"
)

// maxAttempts bounds the candidate multipliers tried per square.
const maxAttempts = 1 << 24

// prng is a xorshift64* generator. Sparse candidates (few set bits) make
// good magic multipliers, so candidates are the AND of three draws.
type prng struct{ s uint64 }

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &prng{s: seed}
}

func (p *prng) next() uint64 {
	p.s ^= p.s >> 12
	p.s ^= p.s << 25
	p.s ^= p.s >> 27
	return p.s * 2685821657736338717
}

func (p *prng) sparse() uint64 { return p.next() & p.next() & p.next() }

// Generate searches multipliers for every square and builds the flattened
// attack tables. The same seed always yields the same dataset.
func Generate(seed uint64) (*Tables, error) {
	rng := newPRNG(seed)
	t := &Tables{}
	var err error
	if t.rookAttacks, err = build(&t.rook, RookRelevantMask, RookRayAttacks, rng); err != nil {
		return nil, fmt.Errorf("rook tables: %w", err)
	}
	if t.bishopAttacks, err = build(&t.bishop, BishopRelevantMask, BishopRayAttacks, rng); err != nil {
		return nil, fmt.Errorf("bishop tables: %w", err)
	}
	return t, nil
}

func build(entries *[64]Entry, maskOf func(int) uint64, attacksOf func(int, uint64) uint64, rng *prng) ([]uint64, error) {
	var flat []uint64
	for sq := 0; sq < 64; sq++ {
		mask := maskOf(sq)
		magic, shift, block, err := findMagic(sq, mask, attacksOf, rng)
		if err != nil {
			return nil, err
		}
		entries[sq] = Entry{Mask: mask, Magic: magic, Shift: shift, Offset: uint32(len(flat))}
		flat = append(flat, block...)
	}
	return flat, nil
}

// findMagic returns a multiplier that maps every blocker subset of mask to a
// slot holding its attack set, together with the filled block.
func findMagic(sq int, mask uint64, attacksOf func(int, uint64) uint64, rng *prng) (uint64, uint8, []uint64, error) {
	occupancies := Subsets(mask)
	reference := make([]uint64, len(occupancies))
	for i, occ := range occupancies {
		reference[i] = attacksOf(sq, occ)
	}

	shift := uint8(64 - bits.OnesCount64(mask))
	block := make([]uint64, len(occupancies))
	// epoch[i] == attempt marks slot i as written during the current attempt,
	// so the block never needs clearing between candidates.
	epoch := make([]int, len(occupancies))

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		magic := rng.sparse()
		if bits.OnesCount64((mask*magic)>>56) < 6 {
			continue
		}
		ok := true
		for i, occ := range occupancies {
			idx := (occ * magic) >> shift
			if epoch[idx] != attempt {
				epoch[idx] = attempt
				block[idx] = reference[i]
			} else if block[idx] != reference[i] {
				ok = false
				break
			}
		}
		if ok {
			return magic, shift, block, nil
		}
	}
	return 0, 0, nil, fmt.Errorf("%w for square %d", ErrNoMagic, sq)
}

// Verify checks every record against ray casting: the mask must be the
// square's relevant blocker mask and every blocker subset must look up its
// exact attack set.
func (t *Tables) Verify() error {
	if err := verify("rook", &t.rook, t.rookAttacks, RookRelevantMask, RookRayAttacks); err != nil {
		return err
	}
	return verify("bishop", &t.bishop, t.bishopAttacks, BishopRelevantMask, BishopRayAttacks)
}

func verify(name string, entries *[64]Entry, flat []uint64, maskOf func(int) uint64, attacksOf func(int, uint64) uint64) error {
	for sq := 0; sq < 64; sq++ {
		e := &entries[sq]
		if want := maskOf(sq); e.Mask != want {
			return fmt.Errorf("%w: %s mask on square %d is %#x, want %#x", ErrMismatch, name, sq, e.Mask, want)
		}
		for _, occ := range Subsets(e.Mask) {
			idx := e.Index(occ)
			if int(idx) >= len(flat) {
				return fmt.Errorf("%w: %s index %d out of range on square %d", ErrMismatch, name, idx, sq)
			}
			if got, want := flat[idx], attacksOf(sq, occ); got != want {
				return fmt.Errorf("%w: %s on square %d with blockers %#x: got %#x, want %#x",
					ErrMismatch, name, sq, occ, got, want)
			}
		}
	}
	return nil
}
