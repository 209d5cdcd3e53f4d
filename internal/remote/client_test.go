package remote_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/park285/hotseat-chess/internal/httpapi"
	"github.com/park285/hotseat-chess/internal/remote"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

func startServer(t *testing.T) string {
	t.Helper()
	driver := session.NewDriver(session.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = driver.Run(ctx) }()

	srv, err := httpapi.NewServer(driver, nil, nil, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts.URL
}

func TestClientControls(t *testing.T) {
	c := remote.NewClient(startServer(t), remote.WithTimeout(2*time.Second))
	ctx := context.Background()

	st, err := c.State(ctx)
	require.NoError(t, err)
	require.Equal(t, "setup", st.Phase)

	st, err = c.Start(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "in_progress", st.Phase)
	require.Equal(t, "3:00", st.White.Clock)

	st, err = c.Move(ctx, "white", "e4")
	require.NoError(t, err)
	require.Equal(t, []string{"1. e4"}, st.White.Moves)

	st, err = c.Move(ctx, "white", "d4")
	var de *hotseatdto.DomainError
	require.True(t, errors.As(err, &de))
	require.Equal(t, hotseatdto.CodeNotYourTurn, de.Code)
	require.NotNil(t, st)
	require.Equal(t, "It is not your turn", st.White.Advisory)

	st, err = c.Move(ctx, "black", "Ke5")
	require.True(t, errors.As(err, &de))
	require.Equal(t, hotseatdto.CodeInvalidMove, de.Code)
	require.Equal(t, []string{"e4"}, st.Plies)

	st, err = c.Undo(ctx)
	require.NoError(t, err)
	require.Empty(t, st.Plies)

	st, err = c.Resign(ctx, "white")
	require.NoError(t, err)
	require.True(t, st.Finished())
	require.Equal(t, "black", st.Winner)
	require.Equal(t, "white", st.QuitBy)

	_, err = c.Undo(ctx)
	require.True(t, errors.As(err, &de))
	require.Equal(t, hotseatdto.CodeGameOver, de.Code)

	st, err = c.NewGame(ctx)
	require.NoError(t, err)
	require.Equal(t, "setup", st.Phase)
}

func TestClientUnknownPlayer(t *testing.T) {
	c := remote.NewClient(startServer(t))
	_, err := c.Move(context.Background(), "green", "e4")
	var de *hotseatdto.DomainError
	require.True(t, errors.As(err, &de))
	require.Equal(t, hotseatdto.CodeUnknownPlayer, de.Code)
}

func TestClientUnreachable(t *testing.T) {
	c := remote.NewClient("http://127.0.0.1:1", remote.WithRetry(1), remote.WithTimeout(200*time.Millisecond))
	_, err := c.State(context.Background())
	require.Error(t, err)
}

func TestFeedDeliversStates(t *testing.T) {
	base := startServer(t)
	c := remote.NewClient(base)
	feed := remote.NewFeed(base, remote.WithReconnectAttempts(0), remote.WithPingInterval(50*time.Millisecond))

	states := make(chan *hotseatdto.SessionState, 16)
	feed.OnState(func(st *hotseatdto.SessionState) { states <- st })
	connected := make(chan struct{}, 1)
	feed.OnConnChange(func(s remote.FeedState) {
		if s == remote.FeedConnected {
			connected <- struct{}{}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	next := func() *hotseatdto.SessionState {
		select {
		case st := <-states:
			return st
		case <-time.After(2 * time.Second):
			t.Fatal("no state from feed")
			return nil
		}
	}

	<-connected
	require.Equal(t, "setup", next().Phase)

	_, err := c.Start(context.Background(), 5)
	require.NoError(t, err)
	for st := next(); st.Phase != "in_progress"; st = next() {
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, remote.FeedDisconnected, feed.State())
}

func TestFeedURL(t *testing.T) {
	require.Equal(t, "ws://localhost:8080/ws", remote.FeedURL("http://localhost:8080/"))
	require.Equal(t, "wss://chess.example/ws", remote.FeedURL("https://chess.example"))
	require.Equal(t, "ws://x/ws", remote.FeedURL("ws://x/ws"))
}
