package domain

import "strings"

// Color identifies a side of the board.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return ""
	}
}

// Title returns the capitalised side name used in status lines.
func (c Color) Title() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return ""
	}
}

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// ParseColor accepts "white"/"w" and "black"/"b" in any case.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return NoColor, false
	}
}

// MoveRecord is one accepted ply. Notation is the canonical SAN returned by the rules engine.
type MoveRecord struct {
	Player   Color
	Notation string
}

type PieceKind uint8

const (
	NoPiece PieceKind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Letter returns the upper-case SAN letter for the kind ("P" for pawns).
func (k PieceKind) Letter() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	default:
		return ""
	}
}

// Cell is one square of the board projection; Kind == NoPiece means empty.
type Cell struct {
	Kind  PieceKind
	Color Color
}

func (c Cell) Empty() bool { return c.Kind == NoPiece }

// Code renders the cell as "wK", "bP" and so on, or "" for an empty square.
func (c Cell) Code() string {
	if c.Empty() {
		return ""
	}
	prefix := "w"
	if c.Color == Black {
		prefix = "b"
	}
	return prefix + c.Kind.Letter()
}

// Board is a read-only 8x8 projection indexed [rank][file], rank 0 = rank 1, file 0 = file a.
type Board [8][8]Cell

// At returns the cell for a square name such as "e4". Unknown names yield an empty cell.
func (b Board) At(square string) Cell {
	file, rank, ok := SquareIndex(square)
	if !ok {
		return Cell{}
	}
	return b[rank][file]
}

// SquareIndex converts "a1".."h8" to zero-based file and rank indexes.
func SquareIndex(square string) (file, rank int, ok bool) {
	if len(square) != 2 {
		return 0, 0, false
	}
	f, r := square[0], square[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return 0, 0, false
	}
	return int(f - 'a'), int(r - '1'), true
}
