// Package httpapi serves the on-device UI: the page, JSON controls, the
// rendered board and a websocket feed of state changes.
package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/adapter/chesspresenter"
	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/render"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

//go:embed web
var webFiles embed.FS

const (
	maxJSONBodyBytes int64 = 1 << 16
	htmlCSP                = "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; base-uri 'none'; form-action 'self'"
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	requestTimeout         = 5 * time.Second
)

// Server wires the HTTP layer to the session driver and the board renderer.
type Server struct {
	driver   *session.Driver
	renderer render.BoardRenderer
	catalog  *msgcat.Catalog
	logger   *zap.Logger
	tmpl     *template.Template
	static   fs.FS

	srvMu sync.Mutex
	srv   *http.Server
}

// NewServer builds the HTTP layer. A nil catalog uses the embedded messages.
func NewServer(driver *session.Driver, renderer render.BoardRenderer, catalog *msgcat.Catalog, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = render.NewPNGRenderer()
	}
	tmpl, err := template.ParseFS(webFiles, "web/index.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		return nil, err
	}
	return &Server{
		driver:   driver,
		renderer: renderer,
		catalog:  catalog,
		logger:   logger,
		tmpl:     tmpl,
		static:   static,
	}, nil
}

// Listen serves until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.logger.Info("http_listen", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))

	mux.HandleFunc("GET /api/state", s.withJSON(s.handleState))
	mux.HandleFunc("POST /api/start", s.withJSON(s.handleStart))
	mux.HandleFunc("POST /api/move", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /api/undo", s.withJSON(s.handleUndo))
	mux.HandleFunc("POST /api/resign", s.withJSON(s.handleResign))
	mux.HandleFunc("POST /api/new", s.withJSON(s.handleNew))

	mux.HandleFunc("GET /board.png", s.handleBoard)
	mux.HandleFunc("GET /ws", s.handleFeed)
	mux.HandleFunc("GET /healthz", s.withJSON(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, hotseatdto.Health{Status: "ok"})
	}))
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	applyHTMLSecurityHeaders(w.Header())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	snap, err := s.driver.Snapshot(ctx)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	initial, err := json.Marshal(chesspresenter.ToDTOState(snap))
	if err != nil {
		http.Error(w, "encode state", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", map[string]any{"Init": string(initial)}); err != nil {
		s.logger.Warn("http_template_failed", zap.Error(err))
	}
}

func (s *Server) withJSON(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func applyHTMLSecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", htmlCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("X-Content-Type-Options", "nosniff")
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("X-Content-Type-Options", "nosniff")
}
