package remote

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

type FeedState int

const (
	FeedDisconnected FeedState = iota
	FeedConnecting
	FeedConnected
	FeedReconnecting
	FeedFailed
)

func (s FeedState) String() string {
	switch s {
	case FeedConnecting:
		return "connecting"
	case FeedConnected:
		return "connected"
	case FeedReconnecting:
		return "reconnecting"
	case FeedFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

type StateCallback func(*hotseatdto.SessionState)

type ConnCallback func(FeedState)

// Feed follows the server's websocket feed and redials with backoff when the
// connection drops.
type Feed struct {
	wsURL  string
	logger *zap.Logger

	maxReconnectAttempts int
	pingInterval         time.Duration
	headers              HeaderProvider

	mu      sync.RWMutex
	state   FeedState
	onState []StateCallback
	onConn  []ConnCallback
}

type FeedOption func(*Feed)

func WithReconnectAttempts(n int) FeedOption {
	return func(f *Feed) { f.maxReconnectAttempts = n }
}

func WithPingInterval(d time.Duration) FeedOption {
	return func(f *Feed) { f.pingInterval = d }
}

func WithFeedLogger(l *zap.Logger) FeedOption {
	return func(f *Feed) { f.logger = l }
}

func WithFeedHeaders(h HeaderProvider) FeedOption {
	return func(f *Feed) { f.headers = h }
}

// NewFeed accepts either the ws URL or the server's http base URL.
func NewFeed(url string, opts ...FeedOption) *Feed {
	f := &Feed{
		wsURL:                FeedURL(url),
		logger:               zap.NewNop(),
		maxReconnectAttempts: 5,
		pingInterval:         30 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FeedURL derives the websocket endpoint from an http base URL.
func FeedURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "ws://"), strings.HasPrefix(base, "wss://"):
		return base
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + "/ws"
	default:
		return "ws://" + strings.TrimPrefix(base, "http://") + "/ws"
	}
}

func (f *Feed) OnState(cb StateCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onState = append(f.onState, cb)
}

func (f *Feed) OnConnChange(cb ConnCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onConn = append(f.onConn, cb)
}

func (f *Feed) State() FeedState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Run blocks until ctx is cancelled or reconnecting gives up.
func (f *Feed) Run(ctx context.Context) error {
	failures := 0
	for {
		if failures == 0 {
			f.setState(FeedConnecting)
		} else {
			f.setState(FeedReconnecting)
		}
		conn, err := f.dial(ctx)
		if err == nil {
			failures = 0
			f.setState(FeedConnected)
			err = f.listen(ctx, conn)
			_ = conn.CloseNow()
		}
		if ctx.Err() != nil {
			f.setState(FeedDisconnected)
			return ctx.Err()
		}
		failures++
		f.logger.Debug("feed_disconnected", zap.Int("attempt", failures), zap.Error(err))
		if failures > f.maxReconnectAttempts {
			f.setState(FeedFailed)
			return err
		}
		if sleepErr := sleepWithContext(ctx, backoffDuration(failures)); sleepErr != nil {
			f.setState(FeedDisconnected)
			return sleepErr
		}
	}
}

func (f *Feed) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, f.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      f.buildHeaders(),
	})
	return conn, err
}

func (f *Feed) listen(ctx context.Context, conn *websocket.Conn) error {
	lctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pingErr := make(chan error, 1)
	go func() { pingErr <- f.pingLoop(lctx, conn) }()

	for {
		var st hotseatdto.SessionState
		if err := wsjson.Read(lctx, conn, &st); err != nil {
			select {
			case perr := <-pingErr:
				if perr != nil {
					return perr
				}
			default:
			}
			if websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return errors.New("server going away")
			}
			return err
		}
		f.mu.RLock()
		callbacks := append([]StateCallback(nil), f.onState...)
		f.mu.RUnlock()
		for _, cb := range callbacks {
			cb(&st)
		}
	}
}

// pingLoop closes the connection after two consecutive failed pings.
func (f *Feed) pingLoop(ctx context.Context, conn *websocket.Conn) error {
	if f.pingInterval <= 0 {
		return nil
	}
	t := time.NewTicker(f.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := conn.Ping(pctx)
			cancel()
			if err == nil {
				failures = 0
				continue
			}
			failures++
			if failures >= 2 {
				_ = conn.Close(websocket.StatusGoingAway, "ping failure")
				return err
			}
		}
	}
}

func (f *Feed) setState(s FeedState) {
	f.mu.Lock()
	changed := f.state != s
	f.state = s
	callbacks := append([]ConnCallback(nil), f.onConn...)
	f.mu.Unlock()
	if !changed {
		return
	}
	for _, cb := range callbacks {
		cb(s)
	}
}

func (f *Feed) buildHeaders() http.Header {
	h := http.Header{}
	if f.headers == nil {
		return h
	}
	for k, v := range f.headers() {
		if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
			h.Set(k, v)
		}
	}
	return h
}
