package main

import (
	"errors"
	"strings"

	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/park285/hotseat-chess/internal/session"
)

type cmdKind int

const (
	cmdNone cmdKind = iota
	cmdStart
	cmdMove
	cmdUndo
	cmdResign
	cmdNew
	cmdBoard
	cmdHelp
	cmdQuit
)

type command struct {
	kind    cmdKind
	player  string
	move    string
	minutes int
}

var errUnknownCommand = errors.New("unknown command, try `help`")

// parseCommand reads one input line. Moves are addressed to a side
// ("white: e4", "b: Nf6") because both players share the terminal.
func parseCommand(line string, defaultMinutes int) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: cmdNone}, nil
	}
	if head, rest, ok := strings.Cut(line, ":"); ok {
		player, ok := domain.ParseColor(strings.TrimSpace(head))
		if !ok {
			return command{}, errUnknownCommand
		}
		return command{kind: cmdMove, player: player.String(), move: strings.TrimSpace(rest)}, nil
	}

	fields := strings.Fields(line)
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "start":
		minutes := defaultMinutes
		if len(args) > 0 {
			minutes = session.ParseMinutes(args[0], defaultMinutes)
		}
		return command{kind: cmdStart, minutes: minutes}, nil
	case "undo":
		return command{kind: cmdUndo}, nil
	case "resign":
		if len(args) == 0 {
			return command{}, errors.New("usage: resign white|black")
		}
		player, ok := domain.ParseColor(args[0])
		if !ok {
			return command{}, errors.New("usage: resign white|black")
		}
		return command{kind: cmdResign, player: player.String()}, nil
	case "new":
		return command{kind: cmdNew}, nil
	case "board", "status":
		return command{kind: cmdBoard}, nil
	case "help", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, errUnknownCommand
}
