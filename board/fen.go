package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const pieceLetters = "pnbrqk"

func pieceLetter(c Color, k PieceKind) byte {
	ch := pieceLetters[k]
	if c == White {
		ch -= 'a' - 'A'
	}
	return ch
}

func pieceFromLetter(ch rune) (Color, PieceKind, bool) {
	c := Black
	if ch >= 'A' && ch <= 'Z' {
		c = White
		ch += 'a' - 'A'
	}
	i := strings.IndexRune(pieceLetters, ch)
	if i < 0 {
		return White, NoPieceKind, false
	}
	return c, PieceKind(i), true
}

// ParseFEN builds a position from Forsyth-Edwards Notation. The move counters
// may be omitted, in which case they default to 0 and 1. The result is
// checked with Validate; any problem is reported wrapped in ErrInvalidFEN.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	p := NewPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			c, k, ok := pieceFromLetter(ch)
			if !ok {
				return Position{}, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if file >= 8 {
				return Position{}, fmt.Errorf("%w: rank %d has more than 8 files", ErrInvalidFEN, rank+1)
			}
			p.put(SquareAt(file, rank), c, k)
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("%w: rank %d does not have 8 files", ErrInvalidFEN, rank+1)
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return Position{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			i := strings.IndexRune("KQkq", ch)
			if i < 0 {
				return Position{}, fmt.Errorf("%w: castling flag %q", ErrInvalidFEN, ch)
			}
			p.castling |= 1 << uint(i)
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		p.enPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return Position{}, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		p.halfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return Position{}, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		p.fullmoveNumber = n
	}

	if err := p.Validate(); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return p, nil
}

// MustParseFEN is ParseFEN for trusted constants; it panics on error.
func MustParseFEN(fen string) Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// FEN serializes the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := SquareAt(file, rank)
			k, ok := p.PieceKindAt(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			c, _ := p.ColorAt(sq)
			sb.WriteByte(pieceLetter(c, k))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	if p.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())
	fmt.Fprintf(&sb, " %d %d", p.halfmoveClock, p.fullmoveNumber)
	return sb.String()
}
