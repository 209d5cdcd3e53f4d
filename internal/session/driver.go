package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrDriverStopped is returned to callers whose command arrives after Run has exited.
var ErrDriverStopped = errors.New("session driver stopped")

type command struct {
	fn      func(*Session) error
	newGame bool
	reply   chan reply
}

type reply struct {
	snap Snapshot
	err  error
}

// Driver owns the current Session and serialises every control and clock
// tick onto the goroutine running Run.
type Driver struct {
	opts Options
	cmds chan command
	done chan struct{}

	sess *Session // touched only by Run

	mu     sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

func NewDriver(opts Options) *Driver {
	opts = opts.withDefaults()
	return &Driver{
		opts: opts,
		cmds: make(chan command),
		done: make(chan struct{}),
		sess: New(opts),
		subs: make(map[int]chan Snapshot),
	}
}

// Run processes commands and ticks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.done)
	defer d.closeSubscribers()
	defer func() { d.sess.Close() }()

	d.opts.Logger.Info("session_driver_started", zap.String("session_id", d.sess.ID()))
	for {
		select {
		case <-ctx.Done():
			d.opts.Logger.Info("session_driver_stopped", zap.String("session_id", d.sess.ID()))
			return ctx.Err()
		case cmd := <-d.cmds:
			var err error
			if cmd.newGame {
				d.sess.Reset()
				d.sess = New(d.opts)
			} else if cmd.fn != nil {
				err = cmd.fn(d.sess)
			}
			snap := d.sess.Snapshot()
			cmd.reply <- reply{snap: snap, err: err}
			d.publish(snap)
		case <-d.sess.TickC():
			d.sess.Tick()
			d.publish(d.sess.Snapshot())
		}
	}
}

// Do runs fn on the driver goroutine and returns the snapshot taken right after it.
func (d *Driver) Do(ctx context.Context, fn func(*Session) error) (Snapshot, error) {
	return d.send(ctx, command{fn: fn})
}

// NewGame discards the current session and installs a fresh one in Setup.
func (d *Driver) NewGame(ctx context.Context) (Snapshot, error) {
	return d.send(ctx, command{newGame: true})
}

func (d *Driver) Snapshot(ctx context.Context) (Snapshot, error) {
	return d.send(ctx, command{})
}

func (d *Driver) send(ctx context.Context, cmd command) (Snapshot, error) {
	cmd.reply = make(chan reply, 1)
	select {
	case d.cmds <- cmd:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-d.done:
		return Snapshot{}, ErrDriverStopped
	}
	select {
	case r := <-cmd.reply:
		return r.snap, r.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Subscribe returns a channel that receives the latest snapshot after every
// mutation and tick. Slow readers only ever see the newest value.
func (d *Driver) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	if d.subs != nil {
		d.subs[id] = ch
	} else {
		close(ch)
	}
	d.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if c, ok := d.subs[id]; ok {
				delete(d.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

func (d *Driver) publish(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// drop the stale value and keep the newest
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (d *Driver) closeSubscribers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ch := range d.subs {
		close(ch)
		delete(d.subs, id)
	}
	d.subs = nil
}
