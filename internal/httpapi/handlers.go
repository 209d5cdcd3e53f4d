package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/adapter/chesspresenter"
	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/park285/hotseat-chess/internal/render"
	"github.com/park285/hotseat-chess/internal/rules"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.driver.Snapshot(ctx)
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req hotseatdto.StartRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.driver.Do(ctx, func(sess *session.Session) error { return sess.Start(req.Minutes) })
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req hotseatdto.MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	player, ok := domain.ParseColor(req.Player)
	if !ok {
		s.writeError(w, statusFor(session.ErrUnknownPlayer), *chesspresenter.ToDTOError(session.ErrUnknownPlayer, s.catalog), nil)
		return
	}
	s.respond(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.driver.Do(ctx, func(sess *session.Session) error {
			_, err := sess.SubmitMove(player, req.Move)
			return err
		})
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.driver.Do(ctx, (*session.Session).Undo)
	})
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	var req hotseatdto.ResignRequest
	if !s.decode(w, r, &req) {
		return
	}
	player, ok := domain.ParseColor(req.Player)
	if !ok {
		s.writeError(w, statusFor(session.ErrUnknownPlayer), *chesspresenter.ToDTOError(session.ErrUnknownPlayer, s.catalog), nil)
		return
	}
	s.respond(w, r, func(ctx context.Context) (session.Snapshot, error) {
		return s.driver.Do(ctx, func(sess *session.Session) error { return sess.Quit(player) })
	})
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.driver.NewGame)
}

// handleBoard renders the current projection; ?flip=1 draws from Black's side.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	snap, err := s.driver.Snapshot(ctx)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	opts := render.Options{
		Header:     snap.StatusText,
		WhiteClock: snap.White.Clock,
		BlackClock: snap.Black.Clock,
		Turn:       snap.SideToMove,
		Flip:       isTruthy(r.URL.Query().Get("flip")),
	}
	if snap.Phase != session.PhaseInProgress {
		opts.Turn = domain.NoColor
	}
	if snap.LastMove != nil {
		opts.Highlight = &render.Highlight{From: snap.LastMove.From, To: snap.LastMove.To}
	}
	board := snap.Board
	if snap.Phase == session.PhaseSetup {
		board = setupBoard()
	}
	png, err := s.renderer.RenderPNG(ctx, board, opts)
	if err != nil {
		s.logger.Warn("board_render_failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid json body"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "request body too large"
		}
		s.writeError(w, http.StatusBadRequest, hotseatdto.DomainError{Code: hotseatdto.CodeBadRequest, Message: msg}, nil)
		return false
	}
	return true
}

// respond runs op and writes the resulting state; rejected controls still carry it.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, op func(context.Context) (session.Snapshot, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := op(ctx)
	if err == nil {
		writeJSON(w, http.StatusOK, hotseatdto.Response{State: chesspresenter.ToDTOState(snap)})
		return
	}
	var state *hotseatdto.SessionState
	if snap.ID != "" {
		state = chesspresenter.ToDTOState(snap)
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("http_control_failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	s.writeError(w, status, *chesspresenter.ToDTOError(err, s.catalog), state)
}

func (s *Server) writeError(w http.ResponseWriter, status int, de hotseatdto.DomainError, state *hotseatdto.SessionState) {
	writeJSON(w, status, hotseatdto.Response{State: state, Error: &de})
}

func statusFor(err error) int {
	switch {
	case session.IsInvariantViolation(err):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, session.ErrDriverStopped):
		return http.StatusServiceUnavailable
	case session.IsUserError(err):
		switch {
		case errors.Is(err, session.ErrInvalidMove), errors.Is(err, session.ErrEmptyInput):
			return http.StatusUnprocessableEntity
		case errors.Is(err, session.ErrUnknownPlayer):
			return http.StatusBadRequest
		default:
			return http.StatusConflict
		}
	case errors.Is(err, session.ErrNotStarted),
		errors.Is(err, session.ErrAlreadyStarted),
		errors.Is(err, session.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// setupBoard shows the initial arrangement while no game is running.
var setupBoard = sync.OnceValue(func() domain.Board {
	a := rules.NewAdapter()
	return a.Board(a.Start())
})
