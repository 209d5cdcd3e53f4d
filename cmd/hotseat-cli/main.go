package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/adapter/chesspresenter"
	appcfg "github.com/park285/hotseat-chess/internal/config"
	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/remote"
	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(obslog.CLIDefaults()); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	headers := func() map[string]string {
		return map[string]string{"User-Agent": "hotseat-cli"}
	}
	client := remote.NewClient(cfg.ServerURL,
		remote.WithHeaderProvider(headers),
		remote.WithTimeout(8*time.Second),
	)
	formatter := chesspresenter.NewFormatter(os.Getenv("HOTSEAT_UNICODE") != "false")
	out := &lockedWriter{w: os.Stdout}
	presenter := chesspresenter.NewPresenter(formatter, func(message string) error {
		_, err := fmt.Fprintln(out, message)
		return err
	})

	feed := remote.NewFeed(cfg.ServerURL,
		remote.WithFeedHeaders(headers),
		remote.WithFeedLogger(obslog.Component("feed")),
	)
	feed.OnState(terminalNotifier(presenter))
	go func() {
		if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			obslog.L().Warn("feed_stopped", zap.Error(err))
		}
	}()

	r := &repl{client: client, presenter: presenter, defaultMinutes: cfg.DefaultMinutes}
	if err := r.run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		obslog.L().Error("cli_failed", zap.Error(err))
		obslog.Sync()
		os.Exit(1)
	}
}

type repl struct {
	client         *remote.Client
	presenter      *chesspresenter.Presenter
	defaultMinutes int
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	st, err := r.client.State(ctx)
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", r.client.BaseURL(), err)
	}
	_ = r.presenter.Board("", st)
	_ = r.presenter.Help()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, err := parseCommand(line, r.defaultMinutes)
			if err != nil {
				_ = r.presenter.Board(err.Error(), nil)
				continue
			}
			if cmd.kind == cmdQuit {
				return nil
			}
			r.exec(ctx, cmd)
		}
	}
}

func (r *repl) exec(ctx context.Context, cmd command) {
	var (
		st  *hotseatdto.SessionState
		err error
	)
	switch cmd.kind {
	case cmdNone:
		return
	case cmdHelp:
		_ = r.presenter.Help()
		return
	case cmdStart:
		st, err = r.client.Start(ctx, cmd.minutes)
	case cmdMove:
		st, err = r.client.Move(ctx, cmd.player, cmd.move)
	case cmdUndo:
		st, err = r.client.Undo(ctx)
	case cmdResign:
		st, err = r.client.Resign(ctx, cmd.player)
	case cmdNew:
		st, err = r.client.NewGame(ctx)
	case cmdBoard:
		st, err = r.client.State(ctx)
	}

	var de *hotseatdto.DomainError
	switch {
	case errors.As(err, &de):
		_ = r.presenter.Rejected(de)
	case err != nil:
		_ = r.presenter.Board("request failed: "+err.Error(), nil)
		return
	}
	_ = r.presenter.Board("", st)
}

// terminalNotifier prints the final state once when a game ends without a
// local command, e.g. a flag falling while nobody is typing.
func terminalNotifier(p *chesspresenter.Presenter) remote.StateCallback {
	var (
		mu       sync.Mutex
		notified string
	)
	return func(st *hotseatdto.SessionState) {
		if !st.Finished() || st.Status != "timeout" {
			return
		}
		mu.Lock()
		seen := notified == st.SessionID
		notified = st.SessionID
		mu.Unlock()
		if !seen {
			_ = p.Board("", st)
		}
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
