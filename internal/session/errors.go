package session

import (
	"errors"

	"github.com/park285/hotseat-chess/internal/history"
)

var (
	ErrEmptyInput     = errors.New("empty move input")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrInvalidMove    = errors.New("invalid move")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrNotStarted     = errors.New("game not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrGameOver       = errors.New("game is over")
	ErrReplayDiverged = errors.New("history replay diverged from recorded moves")
	ErrStartPosition  = errors.New("invalid start position")

	ErrEmptyHistory = history.ErrEmptyHistory
	ErrTurnMismatch = history.ErrTurnMismatch
)

// IsUserError reports whether err is recoverable input the player can correct.
func IsUserError(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyInput),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrInvalidMove),
		errors.Is(err, ErrUnknownPlayer),
		errors.Is(err, ErrEmptyHistory):
		return true
	default:
		return false
	}
}

// IsInvariantViolation reports errors that mean the log and position have diverged.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrTurnMismatch) || errors.Is(err, ErrReplayDiverged)
}
