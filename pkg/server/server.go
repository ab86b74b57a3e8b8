package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/bus"
	"github.com/morphonent/morphonent/pkg/component"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/middleware"
	"github.com/morphonent/morphonent/pkg/morph"
	"github.com/morphonent/morphonent/pkg/render"
)

// LivePath is the WebSocket endpoint.
const LivePath = "/live"

// AppFunc builds the initial tree for one engine.
type AppFunc func(e *morph.Engine) component.Component

// Server is the HTTP/WebSocket server for a single app.
type Server struct {
	app    AppFunc
	config *ServerConfig
	logger *slog.Logger

	upgrader websocket.Upgrader

	registry      *prometheus.Registry
	metrics       *serverMetrics
	engineMetrics *morph.Metrics
	httpMetrics   func(http.Handler) http.Handler

	pages *pageCache

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server for app. Unset config fields take their defaults.
func New(app AppFunc, config *ServerConfig, opts ...Option) *Server {
	config = config.withDefaults()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		app:           app,
		config:        config,
		logger:        slog.Default().With("component", "server"),
		registry:      reg,
		metrics:       newServerMetrics(reg, config.MetricsNamespace),
		engineMetrics: morph.NewMetrics(morph.WithRegistry(reg), morph.WithNamespace(config.MetricsNamespace)),
		httpMetrics: middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(config.MetricsNamespace),
		),
		pages:    newPageCache(2 * time.Minute),
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     config.checkOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.OpenTelemetry())
	r.Use(s.httpMetrics)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/", s.handlePage)
	r.Get(LivePath, s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// engine creates an isolated engine: its own loop, bus and logger.
func (s *Server) engine(loop *async.Loop, logger *slog.Logger) *morph.Engine {
	return morph.New(loop,
		morph.WithBus(bus.New(bus.WithLogger(logger))),
		morph.WithLogger(logger),
		morph.WithMetrics(s.engineMetrics),
		morph.WithMarker(s.config.Marker),
	)
}

// prerender renders the app into a fresh document and returns its root.
// Positions still pending once the loop drains stay empty.
func (s *Server) prerender() (*dom.Node, error) {
	loop := async.NewLoop(async.WithLogger(s.logger))
	e := s.engine(loop, s.logger)

	doc := dom.NewDocument()
	root, err := doc.CreateElement("main")
	if err != nil {
		return nil, err
	}
	if err := root.SetAttribute("id", "app"); err != nil {
		return nil, err
	}
	if err := doc.Body().AppendChild(root); err != nil {
		return nil, err
	}
	if err := e.Render(root, s.app(e)); err != nil {
		return nil, err
	}
	loop.Drain()
	return root, nil
}

// sessionMarkup renders root the way a session hydrates it.
func (s *Server) sessionMarkup(root *dom.Node) (string, error) {
	r := render.NewRenderer(render.RendererConfig{
		Marker:      s.config.Marker,
		TextMarkers: s.config.TextMarkers,
	})
	return r.RenderToString(root)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	root, err := s.prerender()
	if err != nil {
		s.logger.Error("prerender failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	markup, err := s.sessionMarkup(root)
	if err != nil {
		s.logger.Error("prerender failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sessionID := uuid.NewString()
	s.pages.put(sessionID, markup)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	sr := render.NewStreamingRenderer(w, render.RendererConfig{
		Pretty:       s.config.Pretty,
		Marker:       s.config.Marker,
		TextMarkers:  s.config.TextMarkers,
		EventMarkers: true,
	})
	err = sr.RenderPage(render.PageData{
		Root:         root,
		Title:        s.config.Title,
		Lang:         "en",
		SessionID:    sessionID,
		LiveURL:      LivePath,
		ClientScript: clientScript,
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err, "session_id", sessionID)
		return
	}
	s.metrics.pageServed()
}

// HandleWebSocket upgrades the connection and serves a live session until
// it closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := r.URL.Query().Get("session")
	markup, ok := s.pages.take(id)
	if !ok {
		id = uuid.NewString()
	}

	sess := newSession(s, id, conn)
	s.track(sess)
	defer s.untrack(sess)

	sess.serve(r.Context(), markup)
}

func (s *Server) track(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.metrics.sessionOpened()
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	s.metrics.sessionClosed()
}

// Sessions returns the number of open live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Registry returns the Prometheus registry the server's metrics live in.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every live session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
