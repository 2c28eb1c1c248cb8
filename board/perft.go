package board

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree of the given depth.
func Perft(p *Position, depth int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}
	pc := perftCtx{bufs: make([][]Move, depth+1)}
	return pc.count(p, depth)
}

// perftCtx reuses one move buffer per depth.
type perftCtx struct {
	bufs [][]Move
}

func (pc *perftCtx) bufFor(depth int) []Move {
	if pc.bufs[depth] == nil {
		pc.bufs[depth] = make([]Move, 0, 128)
	}
	return pc.bufs[depth][:0]
}

func (pc *perftCtx) count(p *Position, depth int) (uint64, error) {
	moves, err := p.legalMovesInto(pc.bufFor(depth))
	if err != nil {
		return 0, err
	}
	pc.bufs[depth] = moves
	if depth == 1 {
		return uint64(len(moves)), nil
	}
	var nodes uint64
	for _, m := range moves {
		next := *p
		if err := next.ApplyMove(m); err != nil {
			return 0, err
		}
		n, err := pc.count(&next, depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// PerftDivide returns the leaf count below each legal root move.
func PerftDivide(p *Position, depth int) (map[Move]uint64, error) {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result, nil
	}
	moves, err := p.LegalMoves()
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		next := *p
		if err := next.ApplyMove(m); err != nil {
			return nil, err
		}
		n, err := Perft(&next, depth-1)
		if err != nil {
			return nil, err
		}
		result[m] = n
	}
	return result, nil
}

// PerftParallel is Perft with the root moves spread over workers goroutines,
// each walking its own copy of the position. workers <= 0 means GOMAXPROCS.
// Cancelling ctx stops the walk before the next root move is started.
func PerftParallel(ctx context.Context, p *Position, depth, workers int) (uint64, error) {
	if depth <= 1 {
		return Perft(p, depth)
	}
	moves, err := p.LegalMoves()
	if err != nil {
		return 0, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	root := *p
	var total atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, m := range moves {
		m := m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			next := root
			if err := next.ApplyMove(m); err != nil {
				return err
			}
			n, err := Perft(&next, depth-1)
			if err != nil {
				return err
			}
			total.Add(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total.Load(), nil
}
