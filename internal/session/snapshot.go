package session

import (
	"fmt"

	"github.com/park285/hotseat-chess/internal/clock"
	"github.com/park285/hotseat-chess/internal/domain"
)

// Snapshot copies the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	side := s.adapter.SideToMove(s.pos)
	snap := Snapshot{
		ID:             s.id,
		Phase:          s.phase,
		Status:         s.status,
		StatusText:     s.status.Text(s.catalog),
		SideToMove:     side,
		Running:        s.clock.Running,
		InitialSeconds: s.clock.Initial,
		White:          s.sideView(domain.White, side),
		Black:          s.sideView(domain.Black, side),
		Plies:          s.log.Plies(),
		CanUndo:        s.phase == PhaseInProgress && !s.log.Empty(),
		Board:          s.adapter.Board(s.pos),
		FEN:            s.adapter.FEN(s.pos),
	}
	if from, to, ok := s.adapter.LastMove(s.pos); ok {
		snap.LastMove = &LastMove{From: from, To: to}
	}
	if s.quit != nil {
		q := *s.quit
		snap.Quit = &q
	}
	return snap
}

func (s *Session) sideView(c, toMove domain.Color) SideView {
	remaining := s.clock.Remaining(c)
	return SideView{
		Remaining: remaining,
		Clock:     clock.Format(remaining),
		LowTime:   s.phase != PhaseSetup && s.clock.LowTime(c),
		Active:    s.phase == PhaseInProgress && c == toMove,
		Moves:     NumberedMoves(c, s.log.Notations(c)),
		Advisory:  s.Advisory(c),
	}
}

// NumberedMoves labels one player's moves for display: "1. e4" for White, "1... e5" for Black.
func NumberedMoves(player domain.Color, notations []string) []string {
	sep := ". "
	if player == domain.Black {
		sep = "... "
	}
	out := make([]string, len(notations))
	for i, n := range notations {
		out[i] = fmt.Sprintf("%d%s%s", i+1, sep, n)
	}
	return out
}
