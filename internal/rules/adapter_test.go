package rules

import (
	"testing"

	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, a *Adapter, pos Position, moves ...string) Position {
	t.Helper()
	for _, mv := range moves {
		res := a.AttemptMove(pos, mv)
		require.Truef(t, res.Accepted, "move %q rejected: %s", mv, res.Reason)
		pos = res.Position
	}
	return pos
}

func TestAttemptMoveInputForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"e4", "e4"},
		{"  e4  ", "e4"},
		{"e2 e4", "e4"},
		{"e2-e4", "e4"},
		{"E2E4", "e4"},
		{"e2   e4", "e4"},
		{"Nf3", "Nf3"},
		{"nf3", "Nf3"},
		{"g1 f3", "Nf3"},
		{"E4", "e4"},
		{"NF3", "Nf3"},
		{"nF3", "Nf3"},
	}
	a := NewAdapter()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := a.AttemptMove(a.Start(), tt.input)
			require.True(t, res.Accepted, res.Reason)
			require.Equal(t, tt.want, res.Notation)
			require.Equal(t, domain.Black, a.SideToMove(res.Position))
		})
	}
}

func TestAttemptMoveRejections(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"", ReasonEmpty},
		{"   ", ReasonEmpty},
		{"e2 e4 e5", ReasonFormat},
		{"zz e4", ReasonFormat},
		{"e2 e9", ReasonFormat},
		{"Qh5", ReasonIllegal},
		{"e2e5", ReasonIllegal},
		{"banana", ReasonIllegal},
		{"O-O", ReasonIllegal},
	}
	a := NewAdapter()
	start := a.Start()
	fen := a.FEN(start)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := a.AttemptMove(start, tt.input)
			require.False(t, res.Accepted)
			require.Equal(t, tt.reason, res.Reason)
			require.False(t, res.Position.Valid())
		})
	}
	require.Equal(t, fen, a.FEN(start), "rejections must not touch the base position")
}

func TestAttemptMoveDoesNotMutateBase(t *testing.T) {
	a := NewAdapter()
	start := a.Start()
	before := a.FEN(start)
	res := a.AttemptMove(start, "d4")
	require.True(t, res.Accepted)
	require.Equal(t, before, a.FEN(start))
	require.NotEqual(t, before, a.FEN(res.Position))
}

func TestCastlingForms(t *testing.T) {
	a := NewAdapter()
	pos := play(t, a, a.Start(), "e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5")
	for _, in := range []string{"O-O", "o-o", "0-0", "e1 g1", "e1g1"} {
		res := a.AttemptMove(pos, in)
		require.Truef(t, res.Accepted, "%q: %s", in, res.Reason)
		require.Equal(t, "O-O", res.Notation)
	}
}

func TestPromotionForms(t *testing.T) {
	a := NewAdapter()
	pos := play(t, a, a.Start(), "a4", "b5", "axb5", "a6", "bxa6", "Bb7", "axb7", "Nc6")
	for _, in := range []string{"b7 a8=Q", "b7a8q", "b7-a8=q", "bxa8=Q", "bxa8=q", "B7A8=Q", "BXA8=Q"} {
		res := a.AttemptMove(pos, in)
		require.Truef(t, res.Accepted, "%q: %s", in, res.Reason)
		require.Equal(t, "bxa8=Q", res.Notation)
		require.Equal(t, domain.Cell{Kind: domain.Queen, Color: domain.White}, a.Board(res.Position).At("a8"))
	}
}

func TestCheckAndCheckmate(t *testing.T) {
	a := NewAdapter()
	check := play(t, a, a.Start(), "e4", "f6")
	res := a.AttemptMove(check, "Qh5")
	require.True(t, res.Accepted)
	require.Equal(t, "Qh5+", res.Notation)
	require.True(t, a.IsCheck(res.Position))
	require.False(t, a.IsCheckmate(res.Position))

	mate := play(t, a, a.Start(), "f3", "e5", "g4")
	res = a.AttemptMove(mate, "Qh4")
	require.True(t, res.Accepted)
	require.Equal(t, "Qh4#", res.Notation)
	require.True(t, a.IsCheckmate(res.Position))
	require.Equal(t, domain.White, a.SideToMove(res.Position))
}

func TestIsCheckReadsThePosition(t *testing.T) {
	a := NewAdapter()
	tests := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4R1K1 b - - 0 1", true},
		{"4k3/8/8/8/8/8/4P3/4R1K1 b - - 0 1", false},
		{"4k3/8/8/8/8/8/8/3R2K1 w - - 0 1", false},
		{"4k3/8/8/8/1b6/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/5n2/8/4K3 w - - 0 1", true},
		{"4k3/3P4/8/8/8/8/8/4K3 b - - 0 1", true},
		{"4k3/4P3/8/8/8/8/8/4K3 b - - 0 1", false},
		{"8/8/8/8/8/8/3p4/4K2k w - - 0 1", true},
	}
	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			pos, err := a.FromFEN(tt.fen)
			require.NoError(t, err)
			require.Equal(t, tt.want, a.IsCheck(pos))
		})
	}
	require.False(t, a.IsCheck(Position{}))
}

func TestStalemate(t *testing.T) {
	a := NewAdapter()
	pos := play(t, a, a.Start(),
		"e3", "a5", "Qh5", "Ra6", "Qxa5", "h5", "h4", "Rah6",
		"Qxc7", "f6", "Qxd7+", "Kf7", "Qxb7", "Qd3", "Qxb8", "Qh7",
		"Qxc8", "Kg6", "Qe6",
	)
	require.True(t, a.IsStalemate(pos))
	require.False(t, a.IsCheckmate(pos))
}

func TestThreefoldRepetition(t *testing.T) {
	a := NewAdapter()
	pos := play(t, a, a.Start(), "Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1")
	require.False(t, a.IsThreefoldRepetition(pos))
	pos = play(t, a, pos, "Ng8")
	require.True(t, a.IsThreefoldRepetition(pos))
}

func TestInsufficientMaterialAndFiftyMove(t *testing.T) {
	a := NewAdapter()

	bare, err := a.FromFEN("8/8/8/4k3/8/8/4p3/4K3 w - - 0 1")
	require.NoError(t, err)
	pos := play(t, a, bare, "Kxe2")
	require.True(t, a.IsInsufficientMaterial(pos))

	long, err := a.FromFEN("8/8/8/4k3/8/8/8/R3K3 w - - 99 60")
	require.NoError(t, err)
	require.False(t, a.IsFiftyMoveDraw(long))
	pos = play(t, a, long, "Ra2")
	require.True(t, a.IsFiftyMoveDraw(pos))
}

func TestBoardProjectionAndLastMove(t *testing.T) {
	a := NewAdapter()
	start := a.Start()
	grid := a.Board(start)
	require.Equal(t, domain.Cell{Kind: domain.King, Color: domain.White}, grid.At("e1"))
	require.Equal(t, domain.Cell{Kind: domain.Queen, Color: domain.Black}, grid.At("d8"))
	require.True(t, grid.At("e4").Empty())
	_, _, ok := a.LastMove(start)
	require.False(t, ok)

	pos := play(t, a, start, "e2 e4")
	from, to, ok := a.LastMove(pos)
	require.True(t, ok)
	require.Equal(t, "e2", from)
	require.Equal(t, "e4", to)
	require.Equal(t, "wP", a.Board(pos).At("e4").Code())
}

func TestInvalidPositionIsRejected(t *testing.T) {
	a := NewAdapter()
	res := a.AttemptMove(Position{}, "e4")
	require.False(t, res.Accepted)
	require.Equal(t, ReasonNoBoard, res.Reason)
	require.Equal(t, domain.NoColor, a.SideToMove(Position{}))
}
