package chesspresenter

import (
	"fmt"
	"strings"

	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

const (
	chessHelpInstruction = "♞ Hot-seat chess commands"
	recentMovesLimit     = 6
)

// Formatter renders session DTOs into terminal text blocks.
type Formatter struct {
	unicode bool
}

// NewFormatter returns a formatter; unicode selects chess glyphs over letters on the board.
func NewFormatter(unicode bool) *Formatter {
	return &Formatter{unicode: unicode}
}

func (f *Formatter) State(state *hotseatdto.SessionState) string {
	if state == nil {
		return f.Help()
	}
	var sb strings.Builder
	sb.WriteString(state.StatusText)
	sb.WriteString("\n\n")
	sb.WriteString(f.Board(state))
	sb.WriteString("\n")
	sb.WriteString(formatClockLine("White", state.White))
	sb.WriteString(formatClockLine("Black", state.Black))
	if state.LastMove != nil {
		sb.WriteString(fmt.Sprintf("• Last move %s-%s\n", state.LastMove.From, state.LastMove.To))
	}
	if len(state.Plies) > 0 {
		sb.WriteString(fmt.Sprintf("• Moves %s\n", formatRecentMoves(state.White.Moves, state.Black.Moves)))
	}
	appendAdvisory(&sb, "White", state.White.Advisory)
	appendAdvisory(&sb, "Black", state.Black.Advisory)
	if state.CanUndo {
		sb.WriteString("\nUndo available: `undo`.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Board draws the grid from White's side with rank and file labels.
func (f *Formatter) Board(state *hotseatdto.SessionState) string {
	var sb strings.Builder
	for i, row := range state.Board {
		rank := 8 - i
		sb.WriteString(fmt.Sprintf("%d ", rank))
		for file, code := range row {
			square := fmt.Sprintf("%c%d", 'a'+file, rank)
			mark := " "
			if lm := state.LastMove; lm != nil && (lm.From == square || lm.To == square) {
				mark = "*"
			}
			sb.WriteString(mark)
			sb.WriteString(f.glyph(code, (file+rank)%2 == 0))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}

func (f *Formatter) glyph(code string, dark bool) string {
	if code == "" {
		if dark {
			return ":"
		}
		return "."
	}
	if !f.unicode {
		if code[0] == 'b' {
			return strings.ToLower(code[1:])
		}
		return code[1:]
	}
	symbols := map[string]string{
		"wK": "♔", "wQ": "♕", "wR": "♖", "wB": "♗", "wN": "♘", "wP": "♙",
		"bK": "♚", "bQ": "♛", "bR": "♜", "bB": "♝", "bN": "♞", "bP": "♟",
	}
	if s, ok := symbols[code]; ok {
		return s
	}
	return "?"
}

func (f *Formatter) Help() string {
	return fmt.Sprintf(`%s
• start [minutes]
  start the game (1-60 minutes per side, default 10)
• white: <move> / black: <move>
  SAN (e4, Nf3, O-O) or squares (e2 e4, e7e8=q)
• undo
  take back the last move
• resign white / resign black
  end the game for that player
• new
  back to setup for a new game
• board / help / quit`, chessHelpInstruction)
}

// Error renders a rejected control with a command hint where one helps.
func (f *Formatter) Error(err *hotseatdto.DomainError) string {
	if err == nil {
		return ""
	}
	switch err.Code {
	case hotseatdto.CodeNotStarted:
		return err.Error() + ". Use `start [minutes]`."
	case hotseatdto.CodeGameOver, hotseatdto.CodeAlreadyStarted:
		return err.Error() + " Use `new`."
	case hotseatdto.CodeEmptyHistory:
		return err.Error() + "."
	default:
		return "⚠ " + err.Error()
	}
}

func formatClockLine(name string, side hotseatdto.SideState) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• %s %s", name, side.Clock))
	if side.LowTime {
		sb.WriteString(" (low)")
	}
	if side.Active {
		sb.WriteString(" ◀")
	}
	sb.WriteString("\n")
	return sb.String()
}

func appendAdvisory(sb *strings.Builder, name, text string) {
	if sb == nil || strings.TrimSpace(text) == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("• %s: %s\n", name, text))
}

// formatRecentMoves interleaves the numbered lists and keeps the tail.
func formatRecentMoves(white, black []string) string {
	moves := make([]string, 0, len(white)+len(black))
	for i := range white {
		moves = append(moves, white[i])
		if i < len(black) {
			moves = append(moves, black[i])
		}
	}
	if len(moves) == 0 {
		return "-"
	}
	if len(moves) <= recentMovesLimit {
		return strings.Join(moves, " ")
	}
	return "… " + strings.Join(moves[len(moves)-recentMovesLimit:], " ")
}
