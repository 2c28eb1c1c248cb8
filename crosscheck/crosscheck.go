// Package crosscheck runs perft on the same position with this module's move
// generator and with independent generators, and reports where node counts
// disagree.
//
// The other generators promote pawns, this one does not, so counts only
// agree while no promotion is reachable within the requested depth.
package crosscheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/apex/log"
	"github.com/notnil/chess"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"chess-core/board"
)

// Logger receives mismatch warnings and per-engine debug counts.
var Logger log.Interface = log.Log

// ErrMismatch is returned by Check when any engine disagrees with board.
var ErrMismatch = errors.New("perft mismatch")

// Engine names used as Report keys.
const (
	Board       = "board"
	Dragontooth = "dragontoothmg"
	Goose       = "goosemg"
	Notnil      = "notnil/chess"
)

// Engines lists every engine Run consults, reference first.
var Engines = []string{Board, Dragontooth, Goose, Notnil}

// Report holds the perft node count each engine produced for one position.
type Report struct {
	FEN    string
	Depth  int
	Counts map[string]uint64
}

// Mismatches returns the engines whose count differs from board's, sorted.
func (r Report) Mismatches() []string {
	want := r.Counts[Board]
	var bad []string
	for name, n := range r.Counts {
		if name != Board && n != want {
			bad = append(bad, name)
		}
	}
	slices.Sort(bad)
	return bad
}

// OK reports whether every engine agreed.
func (r Report) OK() bool { return len(r.Mismatches()) == 0 }

func (r Report) String() string {
	s := fmt.Sprintf("depth %d %s:", r.Depth, r.FEN)
	for _, name := range Engines {
		if n, ok := r.Counts[name]; ok {
			s += fmt.Sprintf(" %s=%d", name, n)
		}
	}
	return s
}

// Run counts perft(depth) from fen with every engine, one goroutine each.
// Cancelling ctx abandons engines that have not started yet.
func Run(ctx context.Context, fen string, depth int) (Report, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return Report{}, err
	}
	counters := map[string]func() (uint64, error){
		Board:       func() (uint64, error) { return board.PerftParallel(ctx, &pos, depth, 0) },
		Dragontooth: func() (uint64, error) { return dragontoothPerft(fen, depth) },
		Goose:       func() (uint64, error) { return goosePerft(fen, depth) },
		Notnil:      func() (uint64, error) { return notnilPerft(fen, depth) },
	}

	counts := make([]uint64, len(Engines))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range Engines {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := counters[name]()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{FEN: fen, Depth: depth, Counts: make(map[string]uint64, len(Engines))}
	for i, name := range Engines {
		r.Counts[name] = counts[i]
		Logger.WithFields(log.Fields{"engine": name, "depth": depth, "nodes": counts[i]}).Debug("perft")
	}
	for _, name := range r.Mismatches() {
		Logger.WithFields(log.Fields{
			"engine": name,
			"fen":    fen,
			"depth":  depth,
			"got":    r.Counts[name],
			"want":   r.Counts[Board],
		}).Warn("perft mismatch")
	}
	return r, nil
}

// Check is Run for callers that only care about agreement: it returns an
// error wrapping ErrMismatch naming the engines that disagreed.
func Check(ctx context.Context, fen string, depth int) error {
	r, err := Run(ctx, fen, depth)
	if err != nil {
		return err
	}
	if bad := r.Mismatches(); len(bad) > 0 {
		return fmt.Errorf("%w: %v in %s", ErrMismatch, bad, r)
	}
	return nil
}

func goosePerft(fen string, depth int) (uint64, error) {
	b, err := goosemg.ParseFEN(fen)
	if err != nil {
		return 0, err
	}
	return goosemg.Perft(b, depth), nil
}

func notnilPerft(fen string, depth int) (uint64, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return 0, err
	}
	return notnilCount(chess.NewGame(opt).Position(), depth), nil
}

func notnilCount(pos *chess.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += notnilCount(pos.Update(m), depth-1)
	}
	return nodes
}
