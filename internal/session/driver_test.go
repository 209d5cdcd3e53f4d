package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/park285/hotseat-chess/internal/domain"
)

func startDriver(t *testing.T, opts Options) (*Driver, context.CancelFunc, <-chan error) {
	t.Helper()
	d := NewDriver(opts)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()
	t.Cleanup(cancel)
	return d, cancel, errc
}

func waitFor(t *testing.T, ch <-chan Snapshot, what string, ok func(Snapshot) bool) Snapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap, open := <-ch:
			require.True(t, open, "subscription closed while waiting for %s", what)
			if ok(snap) {
				return snap
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func TestDriverTicksUntilTimeout(t *testing.T) {
	ticks := &tickerLog{}
	d, _, _ := startDriver(t, Options{NewTicker: ticks.factory})
	ctx := context.Background()
	sub, unsubscribe := d.Subscribe()
	defer unsubscribe()

	snap, err := d.Do(ctx, func(s *Session) error { return s.Start(1) })
	require.NoError(t, err)
	require.Equal(t, PhaseInProgress, snap.Phase)
	tk := ticks.last()
	require.NotNil(t, tk)

	for want := 59; want >= 0; want-- {
		require.True(t, tk.Fire())
		waitFor(t, sub, "white clock tick", func(s Snapshot) bool { return s.White.Remaining == want })
	}

	final, err := d.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, Timeout(domain.Black), final.Status)
	require.False(t, final.Running)
	require.True(t, tk.Stopped())
}

func TestDriverMovesAndErrors(t *testing.T) {
	d, _, _ := startDriver(t, Options{})
	ctx := context.Background()

	_, err := d.Do(ctx, func(s *Session) error {
		_, err := s.SubmitMove(domain.White, "e4")
		return err
	})
	require.ErrorIs(t, err, ErrNotStarted)

	_, err = d.Do(ctx, func(s *Session) error { return s.Start(5) })
	require.NoError(t, err)

	snap, err := d.Do(ctx, func(s *Session) error {
		_, err := s.SubmitMove(domain.White, "e2 e4")
		return err
	})
	require.NoError(t, err)
	require.Equal(t, []string{"1. e4"}, snap.White.Moves)

	snap, err = d.Do(ctx, func(s *Session) error {
		_, err := s.SubmitMove(domain.Black, "e4")
		return err
	})
	require.ErrorIs(t, err, ErrInvalidMove)
	require.Equal(t, "Invalid move. Please check your input and try again.", snap.Black.Advisory)
}

func TestDriverNewGameCancelsTicker(t *testing.T) {
	ticks := &tickerLog{}
	d, _, _ := startDriver(t, Options{NewTicker: ticks.factory})
	ctx := context.Background()

	started, err := d.Do(ctx, func(s *Session) error { return s.Start(2) })
	require.NoError(t, err)
	old := ticks.last()

	fresh, err := d.NewGame(ctx)
	require.NoError(t, err)
	require.True(t, old.Stopped())
	require.Equal(t, PhaseSetup, fresh.Phase)
	require.NotEqual(t, started.ID, fresh.ID)
	require.Equal(t, "10:00", fresh.White.Clock)

	_, err = d.Do(ctx, func(s *Session) error { return s.Start(2) })
	require.NoError(t, err)
	require.Equal(t, 2, ticks.count())
	require.True(t, ticks.last().Fire())
	require.Eventually(t, func() bool {
		snap, err := d.Snapshot(ctx)
		return err == nil && snap.White.Remaining == 119
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDriverStop(t *testing.T) {
	ticks := &tickerLog{}
	d, cancel, errc := startDriver(t, Options{NewTicker: ticks.factory})
	sub, _ := d.Subscribe()

	_, err := d.Do(context.Background(), func(s *Session) error { return s.Start(1) })
	require.NoError(t, err)

	cancel()
	require.True(t, errors.Is(<-errc, context.Canceled))
	require.True(t, ticks.last().Stopped())

	_, err = d.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrDriverStopped)

	// drain whatever was buffered, then the channel must be closed
	for range sub {
	}

	late, _ := d.Subscribe()
	_, open := <-late
	require.False(t, open)
}
