package rules

import "github.com/park285/hotseat-chess/internal/domain"

var (
	knightSteps   = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	diagonalSteps = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightSteps = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// kingAttacked reports whether side's king stands on a square attacked by the opponent.
func kingAttacked(b domain.Board, side domain.Color) bool {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if b[rank][file] == (domain.Cell{Kind: domain.King, Color: side}) {
				return squareAttacked(b, file, rank, side.Opponent())
			}
		}
	}
	return false
}

func squareAttacked(b domain.Board, file, rank int, by domain.Color) bool {
	at := func(f, r int) (domain.Cell, bool) {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return domain.Cell{}, false
		}
		return b[r][f], true
	}
	is := func(f, r int, kinds ...domain.PieceKind) bool {
		c, ok := at(f, r)
		if !ok || c.Color != by {
			return false
		}
		for _, k := range kinds {
			if c.Kind == k {
				return true
			}
		}
		return false
	}

	// white pawns attack upwards, so they sit one rank below the target
	pawnRank := rank - 1
	if by == domain.Black {
		pawnRank = rank + 1
	}
	if is(file-1, pawnRank, domain.Pawn) || is(file+1, pawnRank, domain.Pawn) {
		return true
	}
	for _, s := range knightSteps {
		if is(file+s[0], rank+s[1], domain.Knight) {
			return true
		}
	}
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if (df != 0 || dr != 0) && is(file+df, rank+dr, domain.King) {
				return true
			}
		}
	}

	slide := func(steps [][2]int, kinds ...domain.PieceKind) bool {
		for _, s := range steps {
			f, r := file+s[0], rank+s[1]
			for {
				c, ok := at(f, r)
				if !ok {
					break
				}
				if !c.Empty() {
					if is(f, r, kinds...) {
						return true
					}
					break
				}
				f, r = f+s[0], r+s[1]
			}
		}
		return false
	}
	return slide(diagonalSteps, domain.Bishop, domain.Queen) ||
		slide(straightSteps, domain.Rook, domain.Queen)
}
