package chesspresenter

import (
	"errors"

	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

// ToDTOState converts a session snapshot into its wire form.
func ToDTOState(s session.Snapshot) *hotseatdto.SessionState {
	out := &hotseatdto.SessionState{
		SessionID:      s.ID,
		Phase:          s.Phase.String(),
		Status:         s.Status.Kind.String(),
		StatusText:     s.StatusText,
		Winner:         s.Status.Winner.String(),
		DrawCause:      s.Status.Cause.String(),
		InCheck:        s.Status.InCheck,
		Turn:           s.SideToMove.String(),
		Running:        s.Running,
		InitialSeconds: s.InitialSeconds,
		White:          toDTOSide(s.White),
		Black:          toDTOSide(s.Black),
		Plies:          append([]string{}, s.Plies...),
		CanUndo:        s.CanUndo,
		Board:          toDTOBoard(s.Board),
		FEN:            s.FEN,
	}
	if s.LastMove != nil {
		out.LastMove = &hotseatdto.LastMove{From: s.LastMove.From, To: s.LastMove.To}
	}
	if s.Quit != nil {
		out.QuitBy = s.Quit.Player.String()
	}
	return out
}

func toDTOSide(v session.SideView) hotseatdto.SideState {
	return hotseatdto.SideState{
		Remaining: v.Remaining,
		Clock:     v.Clock,
		LowTime:   v.LowTime,
		Active:    v.Active,
		Moves:     append([]string{}, v.Moves...),
		Advisory:  v.Advisory,
	}
}

func toDTOBoard(b domain.Board) [][]string {
	rows := make([][]string, 8)
	for i := range rows {
		rank := 7 - i
		row := make([]string, 8)
		for file := 0; file < 8; file++ {
			row[file] = b[rank][file].Code()
		}
		rows[i] = row
	}
	return rows
}

// ToDTOError classifies err for the wire. Player-facing messages come from
// catalog (nil uses the embedded one); anything else keeps err's text. Nil maps to nil.
func ToDTOError(err error, catalog *msgcat.Catalog) *hotseatdto.DomainError {
	if err == nil {
		return nil
	}
	var de hotseatdto.DomainError
	if errors.As(err, &de) {
		return &de
	}
	code, key := hotseatdto.CodeInternal, ""
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		code, key = hotseatdto.CodeEmptyInput, "advisory.empty_input"
	case errors.Is(err, session.ErrNotYourTurn):
		code, key = hotseatdto.CodeNotYourTurn, "advisory.not_your_turn"
	case errors.Is(err, session.ErrInvalidMove):
		code, key = hotseatdto.CodeInvalidMove, "advisory.invalid_move"
	case errors.Is(err, session.ErrUnknownPlayer):
		code, key = hotseatdto.CodeUnknownPlayer, "advisory.unknown_player"
	case errors.Is(err, session.ErrEmptyHistory):
		code, key = hotseatdto.CodeEmptyHistory, "advisory.empty_history"
	case errors.Is(err, session.ErrNotStarted):
		code, key = hotseatdto.CodeNotStarted, "advisory.not_started"
	case errors.Is(err, session.ErrAlreadyStarted):
		code, key = hotseatdto.CodeAlreadyStarted, "advisory.already_started"
	case errors.Is(err, session.ErrGameOver):
		code, key = hotseatdto.CodeGameOver, "advisory.game_over"
	}
	msg := err.Error()
	if key != "" {
		msg = catalog.Text(key, nil)
	}
	return &hotseatdto.DomainError{Code: code, Message: msg}
}
