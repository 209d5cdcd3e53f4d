package session

import (
	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/park285/hotseat-chess/internal/msgcat"
)

// Phase is the lifecycle state of a session.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseInProgress
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseInProgress:
		return "in_progress"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type StatusKind uint8

const (
	StatusSetup StatusKind = iota
	StatusInProgress
	StatusCheckmate
	StatusDraw
	StatusTimeout
	StatusResigned
)

func (k StatusKind) String() string {
	switch k {
	case StatusSetup:
		return "setup"
	case StatusInProgress:
		return "in_progress"
	case StatusCheckmate:
		return "checkmate"
	case StatusDraw:
		return "draw"
	case StatusTimeout:
		return "timeout"
	case StatusResigned:
		return "resigned"
	default:
		return "unknown"
	}
}

type DrawCause uint8

const (
	NoDraw DrawCause = iota
	DrawStalemate
	DrawRepetition
	DrawInsufficientMaterial
	DrawFiftyMove
)

func (c DrawCause) String() string {
	switch c {
	case DrawStalemate:
		return "stalemate"
	case DrawRepetition:
		return "repetition"
	case DrawInsufficientMaterial:
		return "insufficient_material"
	case DrawFiftyMove:
		return "fifty_move"
	default:
		return ""
	}
}

// Status is derived from position, clocks and the quit event; it is never stored on its own.
type Status struct {
	Kind       StatusKind
	SideToMove domain.Color // StatusInProgress only
	InCheck    bool         // StatusInProgress only
	Winner     domain.Color // checkmate, timeout, resigned
	Cause      DrawCause    // StatusDraw only
}

func InProgress(side domain.Color, inCheck bool) Status {
	return Status{Kind: StatusInProgress, SideToMove: side, InCheck: inCheck}
}

func Checkmate(winner domain.Color) Status { return Status{Kind: StatusCheckmate, Winner: winner} }

func Draw(cause DrawCause) Status { return Status{Kind: StatusDraw, Cause: cause} }

func Timeout(winner domain.Color) Status { return Status{Kind: StatusTimeout, Winner: winner} }

func Resigned(winner domain.Color) Status { return Status{Kind: StatusResigned, Winner: winner} }

// Terminal reports whether the status ends the game.
func (s Status) Terminal() bool {
	switch s.Kind {
	case StatusCheckmate, StatusDraw, StatusTimeout, StatusResigned:
		return true
	default:
		return false
	}
}

// Text renders the status line from the catalog.
func (s Status) Text(c *msgcat.Catalog) string {
	switch s.Kind {
	case StatusSetup:
		return c.Text("status.setup", nil)
	case StatusInProgress:
		key := "status.to_move"
		if s.InCheck {
			key = "status.in_check"
		}
		return c.Text(key, map[string]string{"Side": s.SideToMove.Title()})
	case StatusCheckmate:
		return c.Text("status.checkmate", map[string]string{"Winner": s.Winner.Title()})
	case StatusTimeout:
		return c.Text("status.timeout", map[string]string{"Winner": s.Winner.Title()})
	case StatusResigned:
		return c.Text("status.resigned", map[string]string{
			"Winner": s.Winner.Title(),
			"Loser":  s.Winner.Opponent().Title(),
		})
	case StatusDraw:
		return c.Text("status.draw."+s.Cause.String(), nil)
	default:
		return ""
	}
}

// QuitEvent records an explicit resignation. Once set it is final for the session.
type QuitEvent struct {
	Player domain.Color
	Reason string
}

// SideView is the per-player part of a Snapshot.
type SideView struct {
	Remaining int
	Clock     string // M:SS
	LowTime   bool
	Active    bool
	Moves     []string // "1. e4" for White, "1... e5" for Black
	Advisory  string
}

type LastMove struct {
	From string
	To   string
}

// Snapshot is a read-only copy of everything a renderer needs. It shares no
// mutable state with the session that produced it.
type Snapshot struct {
	ID             string
	Phase          Phase
	Status         Status
	StatusText     string
	SideToMove     domain.Color
	Running        bool
	InitialSeconds int
	White          SideView
	Black          SideView
	Plies          []string
	CanUndo        bool
	Board          domain.Board
	FEN            string
	LastMove       *LastMove
	Quit           *QuitEvent
}

// Side returns the view for c.
func (s Snapshot) Side(c domain.Color) SideView {
	if c == domain.Black {
		return s.Black
	}
	return s.White
}
