// Package rules adapts github.com/corentings/chess/v2 to the session: move
// attempts come back as a Result value, and positions are never shared
// between the current game and a replay in progress.
package rules

import (
	"fmt"
	"slices"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/hotseat-chess/internal/domain"
)

// Rejection reasons. Callers surface all of them as one invalid-move error.
const (
	ReasonEmpty   = "empty input"
	ReasonFormat  = "invalid move format"
	ReasonIllegal = "illegal move"
	ReasonNoBoard = "no position"
	ReasonEngine  = "rules engine failure"
)

// Position is an opaque, immutable game position including repetition history.
type Position struct {
	game *nchess.Game
}

func (p Position) Valid() bool { return p.game != nil }

// Result is the outcome of AttemptMove. When Accepted is false only Reason is set.
type Result struct {
	Accepted bool
	Position Position
	Notation string
	Reason   string
}

type Adapter struct{}

func NewAdapter() *Adapter { return &Adapter{} }

// Start returns the standard initial position.
func (a *Adapter) Start() Position {
	return Position{game: nchess.NewGame()}
}

// FromFEN builds a position without prior history.
func (a *Adapter) FromFEN(fen string) (Position, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return Position{}, fmt.Errorf("parse fen: %w", err)
	}
	return Position{game: nchess.NewGame(opt)}, nil
}

// AttemptMove tries input against pos. pos is never modified; an accepted
// move yields a new Position. Engine panics are reported as rejections.
func (a *Adapter) AttemptMove(pos Position, input string) (res Result) {
	if !pos.Valid() {
		return Result{Reason: ReasonNoBoard}
	}
	defer func() {
		if r := recover(); r != nil {
			res = Result{Reason: ReasonEngine}
		}
	}()

	cands, reason := parseInput(input)
	if len(cands) == 0 {
		return Result{Reason: reason}
	}

	base := pos.game.Position()
	for _, c := range cands {
		mv, err := c.notation.Decode(base, c.text)
		if err != nil || mv == nil {
			continue
		}
		next := pos.game.Clone()
		if err := next.Move(mv, nil); err != nil {
			continue
		}
		return Result{
			Accepted: true,
			Position: Position{game: next},
			Notation: nchess.AlgebraicNotation{}.Encode(base, mv),
		}
	}
	return Result{Reason: ReasonIllegal}
}

func (a *Adapter) SideToMove(pos Position) domain.Color {
	if !pos.Valid() {
		return domain.NoColor
	}
	return fromColor(pos.game.Position().Turn())
}

// IsCheck reports whether the side to move is in check. It reads the board
// only, so positions built from a FEN answer the same as played ones.
func (a *Adapter) IsCheck(pos Position) bool {
	if !pos.Valid() {
		return false
	}
	return kingAttacked(a.Board(pos), a.SideToMove(pos))
}

func (a *Adapter) IsCheckmate(pos Position) bool {
	return pos.Valid() && pos.game.Method() == nchess.Checkmate
}

func (a *Adapter) IsStalemate(pos Position) bool {
	return pos.Valid() && pos.game.Method() == nchess.Stalemate
}

func (a *Adapter) IsInsufficientMaterial(pos Position) bool {
	return pos.Valid() && pos.game.Method() == nchess.InsufficientMaterial
}

// IsThreefoldRepetition covers both the claimable threefold and the automatic fivefold draw.
func (a *Adapter) IsThreefoldRepetition(pos Position) bool {
	if !pos.Valid() {
		return false
	}
	if pos.game.Method() == nchess.FivefoldRepetition {
		return true
	}
	return slices.Contains(pos.game.EligibleDraws(), nchess.ThreefoldRepetition)
}

// IsFiftyMoveDraw covers both the claimable fifty-move and the automatic seventy-five-move draw.
func (a *Adapter) IsFiftyMoveDraw(pos Position) bool {
	if !pos.Valid() {
		return false
	}
	if pos.game.Method() == nchess.SeventyFiveMoveRule {
		return true
	}
	return slices.Contains(pos.game.EligibleDraws(), nchess.FiftyMoveRule)
}

// Board projects pos onto a read-only grid.
func (a *Adapter) Board(pos Position) domain.Board {
	var grid domain.Board
	if !pos.Valid() {
		return grid
	}
	board := pos.game.Position().Board()
	for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
		for file := nchess.FileA; file <= nchess.FileH; file++ {
			piece := board.Piece(nchess.NewSquare(file, rank))
			if piece == nchess.NoPiece {
				continue
			}
			grid[int(rank)][int(file)] = domain.Cell{
				Kind:  fromPieceType(piece.Type()),
				Color: fromColor(piece.Color()),
			}
		}
	}
	return grid
}

func (a *Adapter) FEN(pos Position) string {
	if !pos.Valid() {
		return ""
	}
	return pos.game.FEN()
}

// LastMove returns the squares of the most recent ply, if any.
func (a *Adapter) LastMove(pos Position) (from, to string, ok bool) {
	last := lastMove(pos)
	if last == nil {
		return "", "", false
	}
	return last.S1().String(), last.S2().String(), true
}

func lastMove(pos Position) *nchess.Move {
	if !pos.Valid() {
		return nil
	}
	moves := pos.game.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

func fromColor(c nchess.Color) domain.Color {
	switch c {
	case nchess.White:
		return domain.White
	case nchess.Black:
		return domain.Black
	default:
		return domain.NoColor
	}
}

func fromPieceType(pt nchess.PieceType) domain.PieceKind {
	switch pt {
	case nchess.King:
		return domain.King
	case nchess.Queen:
		return domain.Queen
	case nchess.Rook:
		return domain.Rook
	case nchess.Bishop:
		return domain.Bishop
	case nchess.Knight:
		return domain.Knight
	case nchess.Pawn:
		return domain.Pawn
	default:
		return domain.NoPiece
	}
}
