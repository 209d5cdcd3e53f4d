// Package clock keeps the per-side countdown for a hot-seat game.
// It knows nothing about chess beyond which side a tick is charged to.
package clock

import (
	"fmt"

	"github.com/park285/hotseat-chess/internal/domain"
)

// LowTimeSeconds marks the threshold under which a side is flagged as low on time.
const LowTimeSeconds = 60

// State is an immutable snapshot of both clocks. Every mutation returns a new value.
type State struct {
	White   int
	Black   int
	Initial int
	Running bool
}

// New returns stopped clocks with initialSeconds on each side.
func New(initialSeconds int) State {
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	return State{White: initialSeconds, Black: initialSeconds, Initial: initialSeconds}
}

func (s State) Start() State {
	s.Running = true
	return s
}

func (s State) Stop() State {
	s.Running = false
	return s
}

// Reset sets both sides to initialSeconds and stops the clock.
func (s State) Reset(initialSeconds int) State {
	return New(initialSeconds)
}

// Remaining returns the seconds left for side.
func (s State) Remaining(side domain.Color) int {
	switch side {
	case domain.White:
		return s.White
	case domain.Black:
		return s.Black
	default:
		return 0
	}
}

// Expired reports whether either side has run out.
func (s State) Expired() (domain.Color, bool) {
	switch {
	case s.White <= 0:
		return domain.White, true
	case s.Black <= 0:
		return domain.Black, true
	default:
		return domain.NoColor, false
	}
}

// Tick charges one second to side. It is a no-op while stopped or once side is at zero.
// The returned bool is true only for the tick that crossed zero.
func (s State) Tick(side domain.Color) (State, bool) {
	if !s.Running {
		return s, false
	}
	switch side {
	case domain.White:
		if s.White <= 0 {
			return s, false
		}
		s.White--
		return s, s.White == 0
	case domain.Black:
		if s.Black <= 0 {
			return s, false
		}
		s.Black--
		return s, s.Black == 0
	default:
		return s, false
	}
}

func (s State) LowTime(side domain.Color) bool {
	return s.Remaining(side) < LowTimeSeconds
}

// Format renders seconds as M:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
