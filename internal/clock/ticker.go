package clock

import (
	"sync"
	"time"
)

// TickSource is a cancellable periodic schedule. Stop must be synchronous:
// once it returns, nothing further is delivered on C.
type TickSource interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a fresh TickSource for one InProgress stretch.
type TickerFactory func(interval time.Duration) TickSource

type wallTicker struct {
	t *time.Ticker
}

// NewWallTicker is the production TickerFactory backed by time.Ticker.
func NewWallTicker(interval time.Duration) TickSource {
	if interval <= 0 {
		interval = time.Second
	}
	return &wallTicker{t: time.NewTicker(interval)}
}

func (w *wallTicker) C() <-chan time.Time { return w.t.C }

func (w *wallTicker) Stop() { w.t.Stop() }

// ManualTicker is a TickSource driven by Fire, used by drivers in tests and replays.
type ManualTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time, 1)}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

// Fire delivers one tick unless the ticker is stopped or a tick is already pending.
func (m *ManualTicker) Fire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return false
	}
	select {
	case m.ch <- time.Now():
		return true
	default:
		return false
	}
}

func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	// drain a pending tick so a stopped ticker never delivers
	select {
	case <-m.ch:
	default:
	}
}

func (m *ManualTicker) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}
