package board

import "fmt"

// Status is the outcome of a game position.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawFiftyMove
	DrawRepetition
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawFiftyMove:
		return "draw by fifty-move rule"
	case DrawRepetition:
		return "draw by repetition"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Game is a sequence of positions reached by legal moves. Every position is
// kept as a snapshot, so Pop restores the previous one exactly.
type Game struct {
	positions []Position
	hashes    []uint64
	moves     []Move
}

// NewGame starts a game at pos.
func NewGame(pos Position) *Game {
	return &Game{
		positions: []Position{pos},
		hashes:    []uint64{pos.Hash()},
	}
}

// Position returns a copy of the current position.
func (g *Game) Position() Position { return g.positions[len(g.positions)-1] }

// Ply returns the number of moves played.
func (g *Game) Ply() int { return len(g.moves) }

// Moves returns the moves played so far.
func (g *Game) Moves() []Move { return append([]Move(nil), g.moves...) }

// Push plays m if it is legal in the current position.
func (g *Game) Push(m Move) error {
	cur := g.Position()
	legal, err := cur.IsLegal(m)
	if err != nil {
		return err
	}
	if !legal {
		return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, cur.FEN())
	}
	if err := cur.ApplyMove(m); err != nil {
		return err
	}
	g.positions = append(g.positions, cur)
	g.hashes = append(g.hashes, cur.Hash())
	g.moves = append(g.moves, m)
	return nil
}

// PushString parses coordinate notation and plays the move.
func (g *Game) PushString(s string) error {
	m, err := ParseMove(s)
	if err != nil {
		return err
	}
	return g.Push(m)
}

// Pop takes back the last move. It returns false at the start of the game.
func (g *Game) Pop() bool {
	n := len(g.moves)
	if n == 0 {
		return false
	}
	g.positions = g.positions[:n]
	g.hashes = g.hashes[:n]
	g.moves = g.moves[:n-1]
	return true
}

// IsDrawByRepetition reports whether the current position has occurred three
// times. Only positions since the last capture or pawn move are compared,
// since nothing before that can recur.
func (g *Game) IsDrawByRepetition() bool {
	last := len(g.hashes) - 1
	target := g.hashes[last]
	window := g.positions[last].halfmoveClock
	matches := 1
	for i := last - 2; i >= 0 && last-i <= window; i -= 2 {
		if g.hashes[i] == target {
			matches++
			if matches >= 3 {
				return true
			}
		}
	}
	return false
}

// Status classifies the current position. Checkmate and stalemate take
// precedence over the draw rules.
func (g *Game) Status() (Status, error) {
	cur := g.Position()
	has, err := cur.HasLegalMoves()
	if err != nil {
		return Ongoing, err
	}
	if !has {
		inCheck, err := cur.InCheck(cur.SideToMove())
		if err != nil {
			return Ongoing, err
		}
		if inCheck {
			return Checkmate, nil
		}
		return Stalemate, nil
	}
	if cur.IsDrawBy50() {
		return DrawFiftyMove, nil
	}
	if g.IsDrawByRepetition() {
		return DrawRepetition, nil
	}
	return Ongoing, nil
}
