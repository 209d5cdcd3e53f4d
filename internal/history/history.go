// Package history keeps the per-player move log of a game.
//
// A Log is a value: Append and PopLast return a new Log and never touch the
// receiver's backing arrays, so snapshots handed to renderers stay valid.
package history

import (
	"errors"
	"iter"
	"slices"

	"github.com/park285/hotseat-chess/internal/domain"
)

var (
	ErrTurnMismatch = errors.New("move does not match the white/black interleaving")
	ErrEmptyHistory = errors.New("no moves to undo")
)

type Log struct {
	white []domain.MoveRecord
	black []domain.MoveRecord
}

// Append adds rec to its player's sequence. White may append only when both
// sequences have equal length, Black only when White is exactly one ahead.
func (l Log) Append(rec domain.MoveRecord) (Log, error) {
	switch rec.Player {
	case domain.White:
		if len(l.white) != len(l.black) {
			return l, ErrTurnMismatch
		}
		return Log{white: appendCopy(l.white, rec), black: l.black}, nil
	case domain.Black:
		if len(l.white) != len(l.black)+1 {
			return l, ErrTurnMismatch
		}
		return Log{white: l.white, black: appendCopy(l.black, rec)}, nil
	default:
		return l, ErrTurnMismatch
	}
}

// PopLast removes the chronologically last ply. With equal lengths it belongs to Black.
func (l Log) PopLast() (Log, domain.MoveRecord, error) {
	switch {
	case len(l.white) == 0 && len(l.black) == 0:
		return l, domain.MoveRecord{}, ErrEmptyHistory
	case len(l.white) == len(l.black):
		last := l.black[len(l.black)-1]
		return Log{white: l.white, black: slices.Clip(l.black[:len(l.black)-1])}, last, nil
	default:
		last := l.white[len(l.white)-1]
		return Log{white: slices.Clip(l.white[:len(l.white)-1]), black: l.black}, last, nil
	}
}

// All yields every ply in play order. The sequence can be ranged over any number of times.
func (l Log) All() iter.Seq[domain.MoveRecord] {
	white, black := l.white, l.black
	return func(yield func(domain.MoveRecord) bool) {
		for i := range white {
			if !yield(white[i]) {
				return
			}
			if i < len(black) && !yield(black[i]) {
				return
			}
		}
	}
}

func (l Log) Len() int { return len(l.white) + len(l.black) }

func (l Log) Empty() bool { return l.Len() == 0 }

// Next is the side whose ply would be appended next.
func (l Log) Next() domain.Color {
	if len(l.white) == len(l.black) {
		return domain.White
	}
	return domain.Black
}

// Notations returns a copy of one player's canonical notations.
func (l Log) Notations(player domain.Color) []string {
	var src []domain.MoveRecord
	switch player {
	case domain.White:
		src = l.white
	case domain.Black:
		src = l.black
	}
	out := make([]string, len(src))
	for i, rec := range src {
		out[i] = rec.Notation
	}
	return out
}

// Plies returns the interleaved notations in play order.
func (l Log) Plies() []string {
	out := make([]string, 0, l.Len())
	for rec := range l.All() {
		out = append(out, rec.Notation)
	}
	return out
}

func appendCopy(src []domain.MoveRecord, rec domain.MoveRecord) []domain.MoveRecord {
	out := make([]domain.MoveRecord, len(src), len(src)+1)
	copy(out, src)
	return append(out, rec)
}
