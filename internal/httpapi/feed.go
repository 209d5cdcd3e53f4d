package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/hotseat-chess/internal/adapter/chesspresenter"
	"github.com/park285/hotseat-chess/internal/session"
)

const feedWriteTimeout = 3 * time.Second

// handleFeed streams a SessionState after every mutation and clock tick.
// The client never sends; reads only detect the close.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		s.logger.Debug("ws_accept_failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	updates, unsubscribe := s.driver.Subscribe()
	defer unsubscribe()

	first, err := s.driver.Snapshot(ctx)
	if err != nil {
		_ = conn.Close(websocket.StatusTryAgainLater, "session unavailable")
		return
	}
	if err := s.writeState(ctx, conn, first); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server stopping")
				return
			}
			if err := s.writeState(ctx, conn, snap); err != nil {
				s.logger.Debug("ws_write_failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) writeState(ctx context.Context, conn *websocket.Conn, snap session.Snapshot) error {
	wctx, cancel := context.WithTimeout(ctx, feedWriteTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, chesspresenter.ToDTOState(snap))
}
