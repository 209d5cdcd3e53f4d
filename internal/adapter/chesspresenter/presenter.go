package chesspresenter

import (
	"strings"

	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

// Presenter delivers formatted text without coupling to the command layer.
type Presenter struct {
	formatter   *Formatter
	sendMessage func(message string) error
}

func NewPresenter(formatter *Formatter, sendMessage func(message string) error) *Presenter {
	if formatter == nil {
		formatter = NewFormatter(false)
	}
	return &Presenter{
		formatter:   formatter,
		sendMessage: sendMessage,
	}
}

// Board sends an optional message followed by the rendered state.
func (p *Presenter) Board(message string, state *hotseatdto.SessionState) error {
	if p == nil || p.sendMessage == nil {
		return nil
	}
	if text := strings.TrimSpace(message); text != "" {
		if err := p.sendMessage(message); err != nil {
			return err
		}
	}
	if state != nil {
		return p.sendMessage(p.formatter.State(state))
	}
	return nil
}

// Rejected sends the text for a rejected control.
func (p *Presenter) Rejected(err *hotseatdto.DomainError) error {
	if p == nil || p.sendMessage == nil || err == nil {
		return nil
	}
	return p.sendMessage(p.formatter.Error(err))
}

func (p *Presenter) Help() error {
	if p == nil || p.sendMessage == nil {
		return nil
	}
	return p.sendMessage(p.formatter.Help())
}
