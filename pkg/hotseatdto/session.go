package hotseatdto

// SideState is one player's clock, move list and advisory.
type SideState struct {
	Remaining int      `json:"remaining"`
	Clock     string   `json:"clock"`
	LowTime   bool     `json:"low_time"`
	Active    bool     `json:"active"`
	Moves     []string `json:"moves"`
	Advisory  string   `json:"advisory,omitempty"`
}

type LastMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SessionState is the JSON projection of a session snapshot.
// Board rows run from rank 8 down to rank 1; cells are "wK", "bP" or "".
type SessionState struct {
	SessionID      string     `json:"session_id"`
	Phase          string     `json:"phase"`
	Status         string     `json:"status"`
	StatusText     string     `json:"status_text"`
	Winner         string     `json:"winner,omitempty"`
	DrawCause      string     `json:"draw_cause,omitempty"`
	InCheck        bool       `json:"in_check"`
	Turn           string     `json:"turn,omitempty"`
	Running        bool       `json:"running"`
	InitialSeconds int        `json:"initial_seconds"`
	White          SideState  `json:"white"`
	Black          SideState  `json:"black"`
	Plies          []string   `json:"plies"`
	CanUndo        bool       `json:"can_undo"`
	Board          [][]string `json:"board"`
	FEN            string     `json:"fen,omitempty"`
	LastMove       *LastMove  `json:"last_move,omitempty"`
	QuitBy         string     `json:"quit_by,omitempty"`
}

// Finished reports whether the game has reached a terminal status.
func (s *SessionState) Finished() bool {
	return s != nil && s.Phase == "terminal"
}
