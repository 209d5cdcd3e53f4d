// Package session implements the hot-seat game state machine.
//
// A Session is owned by exactly one goroutine (see Driver). Position, move log
// and clocks are values that are replaced wholesale on every mutation, so a
// Snapshot taken earlier is never torn by a later move.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/clock"
	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/park285/hotseat-chess/internal/history"
	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/rules"
)

const (
	DefaultMinutes = 10
	MinMinutes     = 1
	MaxMinutes     = 60
)

type Options struct {
	Adapter        *rules.Adapter
	Catalog        *msgcat.Catalog
	Logger         *zap.Logger
	DefaultMinutes int
	MinMinutes     int
	MaxMinutes     int
	TickInterval   time.Duration
	// StartFEN replaces the standard initial position; undo replays from it.
	StartFEN string
	// NewTicker creates the tick source for each InProgress stretch. Nil disables autonomous ticking.
	NewTicker clock.TickerFactory
}

func (o Options) withDefaults() Options {
	if o.Adapter == nil {
		o.Adapter = rules.NewAdapter()
	}
	if o.Catalog == nil {
		o.Catalog = msgcat.Default()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MinMinutes <= 0 {
		o.MinMinutes = MinMinutes
	}
	if o.MaxMinutes < o.MinMinutes {
		o.MaxMinutes = MaxMinutes
	}
	if o.DefaultMinutes < o.MinMinutes || o.DefaultMinutes > o.MaxMinutes {
		o.DefaultMinutes = DefaultMinutes
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	return o
}

type Session struct {
	id      string
	opts    Options
	adapter *rules.Adapter
	catalog *msgcat.Catalog
	logger  *zap.Logger

	phase    Phase
	pos      rules.Position
	log      history.Log
	clock    clock.State
	quit     *QuitEvent
	status   Status
	advisory [3]string // indexed by domain.Color

	ticker clock.TickSource
}

// New returns a session in Setup with default clocks.
func New(opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:      uuid.NewString(),
		opts:    opts,
		adapter: opts.Adapter,
		catalog: opts.Catalog,
		logger:  opts.Logger,
	}
	s.clock = clock.New(opts.DefaultMinutes * 60)
	s.status = s.deriveStatus()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Status() Status { return s.status }

func (s *Session) Clock() clock.State { return s.clock }

func (s *Session) History() history.Log { return s.log }

// Position returns the current position; it is invalid in Setup.
func (s *Session) Position() rules.Position { return s.pos }

func (s *Session) Advisory(player domain.Color) string {
	if player != domain.White && player != domain.Black {
		return ""
	}
	return s.advisory[player]
}

// CoerceMinutes maps a requested time control into [MinMinutes, MaxMinutes], falling back to the default.
func (s *Session) CoerceMinutes(minutes int) int {
	if minutes < s.opts.MinMinutes || minutes > s.opts.MaxMinutes {
		return s.opts.DefaultMinutes
	}
	return minutes
}

// Start leaves Setup with fresh clocks of the given minutes per side.
func (s *Session) Start(minutes int) error {
	if s.phase != PhaseSetup {
		return ErrAlreadyStarted
	}
	minutes = s.CoerceMinutes(minutes)
	pos, err := s.initialPosition()
	if err != nil {
		return err
	}

	s.pos = pos
	s.log = history.Log{}
	s.clock = clock.New(minutes * 60).Start()
	s.quit = nil
	s.clearAdvisories()
	s.phase = PhaseInProgress
	s.status = s.deriveStatus()
	s.armTicker()

	s.logger.Info("session_start",
		zap.String("session_id", s.id),
		zap.Int("minutes", minutes),
	)
	if s.status.Terminal() {
		s.enterTerminal()
	}
	return nil
}

// SubmitMove plays raw for player. Rejections leave position, log and clocks
// untouched and only set that player's advisory.
func (s *Session) SubmitMove(player domain.Color, raw string) (domain.MoveRecord, error) {
	switch s.phase {
	case PhaseSetup:
		return domain.MoveRecord{}, ErrNotStarted
	case PhaseTerminal:
		return domain.MoveRecord{}, ErrGameOver
	}
	if player != domain.White && player != domain.Black {
		return domain.MoveRecord{}, ErrUnknownPlayer
	}
	s.advisory[player] = ""

	if player != s.adapter.SideToMove(s.pos) {
		s.advisory[player] = s.catalog.Text("advisory.not_your_turn", nil)
		return domain.MoveRecord{}, ErrNotYourTurn
	}
	if strings.TrimSpace(raw) == "" {
		s.advisory[player] = s.catalog.Text("advisory.empty_input", nil)
		return domain.MoveRecord{}, ErrEmptyInput
	}

	res := s.adapter.AttemptMove(s.pos, raw)
	if !res.Accepted {
		s.advisory[player] = s.catalog.Text("advisory.invalid_move", nil)
		s.logger.Debug("session_move_rejected",
			zap.String("session_id", s.id),
			zap.Stringer("player", player),
			zap.String("input", raw),
			zap.String("reason", res.Reason),
		)
		return domain.MoveRecord{}, fmt.Errorf("%w: %s", ErrInvalidMove, res.Reason)
	}

	rec := domain.MoveRecord{Player: player, Notation: res.Notation}
	next, err := s.log.Append(rec)
	if err != nil {
		s.invariantViolation("append", err, zap.String("move", rec.Notation))
		return domain.MoveRecord{}, err
	}

	s.pos = res.Position
	s.log = next
	s.status = s.deriveStatus()
	s.logger.Info("session_move",
		zap.String("session_id", s.id),
		zap.Stringer("player", player),
		zap.String("move", rec.Notation),
		zap.Int("ply", s.log.Len()),
		zap.Stringer("status", s.status.Kind),
	)
	if s.status.Terminal() {
		s.enterTerminal()
	}
	return rec, nil
}

// Undo takes back the last ply by replaying the remaining log from the
// initial position. Cost is linear in the number of recorded plies.
func (s *Session) Undo() error {
	if s.phase == PhaseTerminal {
		return ErrGameOver
	}
	popped, last, err := s.log.PopLast()
	if err != nil {
		return err
	}

	pos, err := s.replay(popped)
	if err != nil {
		s.invariantViolation("replay", err, zap.String("undone", last.Notation))
		return err
	}

	s.pos = pos
	s.log = popped
	s.clearAdvisories()
	s.status = s.deriveStatus()
	s.logger.Info("session_undo",
		zap.String("session_id", s.id),
		zap.Stringer("player", last.Player),
		zap.String("move", last.Notation),
		zap.Int("ply", s.log.Len()),
	)
	if s.status.Terminal() {
		s.enterTerminal()
	}
	return nil
}

func (s *Session) initialPosition() (rules.Position, error) {
	if s.opts.StartFEN == "" {
		return s.adapter.Start(), nil
	}
	pos, err := s.adapter.FromFEN(s.opts.StartFEN)
	if err != nil {
		return rules.Position{}, fmt.Errorf("%w: %v", ErrStartPosition, err)
	}
	// the move log always opens with White
	if s.adapter.SideToMove(pos) != domain.White {
		return rules.Position{}, fmt.Errorf("%w: black to move in %q", ErrStartPosition, s.opts.StartFEN)
	}
	return pos, nil
}

func (s *Session) replay(log history.Log) (rules.Position, error) {
	pos, err := s.initialPosition()
	if err != nil {
		return rules.Position{}, fmt.Errorf("%w: %w", ErrReplayDiverged, err)
	}
	ply := 0
	for rec := range log.All() {
		ply++
		if side := s.adapter.SideToMove(pos); side != rec.Player {
			return rules.Position{}, fmt.Errorf("%w: ply %d recorded for %s but %s to move", ErrReplayDiverged, ply, rec.Player, side)
		}
		res := s.adapter.AttemptMove(pos, rec.Notation)
		if !res.Accepted {
			return rules.Position{}, fmt.Errorf("%w: ply %d %q: %s", ErrReplayDiverged, ply, rec.Notation, res.Reason)
		}
		pos = res.Position
	}
	return pos, nil
}

// Quit resigns for player. A second quit after the game ended is ignored.
func (s *Session) Quit(player domain.Color) error {
	switch s.phase {
	case PhaseSetup:
		return ErrNotStarted
	case PhaseTerminal:
		return nil
	}
	if player != domain.White && player != domain.Black {
		return ErrUnknownPlayer
	}
	s.quit = &QuitEvent{Player: player, Reason: "resigned"}
	s.status = s.deriveStatus()
	s.enterTerminal()
	s.logger.Info("session_quit",
		zap.String("session_id", s.id),
		zap.Stringer("player", player),
	)
	return nil
}

// Reset returns to Setup with default clocks, cancelling any tick source first.
func (s *Session) Reset() {
	s.disarmTicker()
	s.phase = PhaseSetup
	s.pos = rules.Position{}
	s.log = history.Log{}
	s.clock = s.clock.Reset(s.opts.DefaultMinutes * 60)
	s.quit = nil
	s.clearAdvisories()
	s.status = s.deriveStatus()
	s.logger.Info("session_reset", zap.String("session_id", s.id))
}

// Tick charges one second to the side to move. It reports true only for the
// tick that ran a clock out; ticks outside InProgress do nothing.
func (s *Session) Tick() bool {
	if s.phase != PhaseInProgress {
		return false
	}
	side := s.adapter.SideToMove(s.pos)
	next, crossed := s.clock.Tick(side)
	s.clock = next
	if !crossed {
		return false
	}
	s.status = s.deriveStatus()
	s.enterTerminal()
	s.logger.Info("session_timeout",
		zap.String("session_id", s.id),
		zap.Stringer("loser", side),
	)
	return true
}

// TickC is the channel of the armed tick source, or nil when none is armed.
func (s *Session) TickC() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// Close cancels the tick source without changing game state.
func (s *Session) Close() { s.disarmTicker() }

// deriveStatus evaluates, first match wins: timeout, quit, checkmate, draws, check.
func (s *Session) deriveStatus() Status {
	if s.phase == PhaseSetup {
		return Status{Kind: StatusSetup}
	}
	if loser, ok := s.clock.Expired(); ok {
		return Timeout(loser.Opponent())
	}
	if s.quit != nil {
		return Resigned(s.quit.Player.Opponent())
	}
	side := s.adapter.SideToMove(s.pos)
	switch {
	case s.adapter.IsCheckmate(s.pos):
		return Checkmate(side.Opponent())
	case s.adapter.IsStalemate(s.pos):
		return Draw(DrawStalemate)
	case s.adapter.IsThreefoldRepetition(s.pos):
		return Draw(DrawRepetition)
	case s.adapter.IsInsufficientMaterial(s.pos):
		return Draw(DrawInsufficientMaterial)
	case s.adapter.IsFiftyMoveDraw(s.pos):
		return Draw(DrawFiftyMove)
	}
	return InProgress(side, s.adapter.IsCheck(s.pos))
}

func (s *Session) enterTerminal() {
	s.phase = PhaseTerminal
	s.clock = s.clock.Stop()
	s.disarmTicker()
	s.logger.Info("session_over",
		zap.String("session_id", s.id),
		zap.Stringer("status", s.status.Kind),
		zap.Stringer("winner", s.status.Winner),
		zap.Stringer("cause", s.status.Cause),
	)
}

// armTicker cancels any previous source before creating a fresh one.
func (s *Session) armTicker() {
	s.disarmTicker()
	if s.opts.NewTicker == nil {
		return
	}
	s.ticker = s.opts.NewTicker(s.opts.TickInterval)
}

func (s *Session) disarmTicker() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
}

func (s *Session) clearAdvisories() {
	s.advisory = [3]string{}
}

func (s *Session) invariantViolation(op string, err error, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("session_id", s.id),
		zap.String("op", op),
		zap.Error(err),
		zap.Strings("plies", s.log.Plies()),
		zap.String("fen", s.adapter.FEN(s.pos)),
	}, fields...)
	s.logger.Error("session_invariant_violation", fields...)
}

// ParseMinutes reads a time control typed by a user; anything unparsable yields def.
func ParseMinutes(text string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
