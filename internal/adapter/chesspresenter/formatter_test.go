package chesspresenter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

func playedState(t *testing.T, moves ...string) *hotseatdto.SessionState {
	t.Helper()
	s := session.New(session.Options{})
	if err := s.Start(5); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, mv := range moves {
		if _, err := s.SubmitMove(s.Status().SideToMove, mv); err != nil {
			t.Fatalf("move %q: %v", mv, err)
		}
	}
	return ToDTOState(s.Snapshot())
}

func TestToDTOStateBoardOrientation(t *testing.T) {
	st := playedState(t, "e4")
	if got := st.Board[0][4]; got != "bK" {
		t.Fatalf("e8 = %q, want bK", got)
	}
	if got := st.Board[4][4]; got != "wP" {
		t.Fatalf("e4 = %q, want wP", got)
	}
	if diff := cmp.Diff(&hotseatdto.LastMove{From: "e2", To: "e4"}, st.LastMove); diff != "" {
		t.Fatalf("last move (-want +got):\n%s", diff)
	}
	if st.Turn != "black" || st.Phase != "in_progress" || st.Status != "in_progress" {
		t.Fatalf("unexpected header: %+v", st)
	}
}

func TestToDTOError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{session.ErrEmptyInput, hotseatdto.CodeEmptyInput},
		{fmt.Errorf("%w: illegal move", session.ErrInvalidMove), hotseatdto.CodeInvalidMove},
		{session.ErrNotYourTurn, hotseatdto.CodeNotYourTurn},
		{session.ErrEmptyHistory, hotseatdto.CodeEmptyHistory},
		{session.ErrGameOver, hotseatdto.CodeGameOver},
		{session.ErrReplayDiverged, hotseatdto.CodeInternal},
		{errors.New("boom"), hotseatdto.CodeInternal},
	}
	for _, tt := range tests {
		if got := ToDTOError(tt.err, nil); got.Code != tt.code {
			t.Errorf("%v: code = %q, want %q", tt.err, got.Code, tt.code)
		}
	}
	if ToDTOError(nil, nil) != nil {
		t.Fatal("nil error must map to nil")
	}
}

func TestToDTOErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{session.ErrNotStarted, "The game has not started yet"},
		{session.ErrGameOver, "The game is over. Start a new game to play again."},
		{fmt.Errorf("%w: illegal move", session.ErrInvalidMove), "Invalid move. Please check your input and try again."},
		{session.ErrReplayDiverged, session.ErrReplayDiverged.Error()},
	}
	for _, tt := range tests {
		if got := ToDTOError(tt.err, msgcat.Default()).Message; got != tt.want {
			t.Errorf("%v: message = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFormatterState(t *testing.T) {
	st := playedState(t, "e4", "e5", "Nf3")
	out := NewFormatter(false).State(st)
	for _, want := range []string{"Black to move", "• White 5:00", "• Black 5:00 ◀", "1. e4 1... e5 2. Nf3", "*N"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRecentMovesKeepsTail(t *testing.T) {
	white := []string{"1. a", "2. b", "3. c", "4. d"}
	black := []string{"1... w", "2... x", "3... y", "4... z"}
	got := formatRecentMoves(white, black)
	want := "… 2. b 2... x 3. c 3... y 4. d 4... z"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatterErrorKeepsCatalogMessage(t *testing.T) {
	f := NewFormatter(false)
	got := f.Error(ToDTOError(session.ErrNotStarted, nil))
	if got != "The game has not started yet. Use `start [minutes]`." {
		t.Fatalf("not started = %q", got)
	}
	if got := f.Error(ToDTOError(session.ErrNotYourTurn, nil)); got != "⚠ It is not your turn" {
		t.Fatalf("not your turn = %q", got)
	}
	if f.Error(nil) != "" {
		t.Fatal("nil error must render empty")
	}
}
