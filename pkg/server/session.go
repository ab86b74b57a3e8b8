package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/morphonent/morphonent/internal/errors"
	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/morph"
	"github.com/morphonent/morphonent/pkg/registry"
	"github.com/morphonent/morphonent/pkg/render"
)

const tracerName = "github.com/morphonent/morphonent/pkg/server"

// Session is one live connection. Its document is only touched from its
// loop's goroutine.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	loop   *async.Loop
	engine *morph.Engine
	live   *render.Renderer
	root   *dom.Node
	last   string

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func newSession(s *Server, id string, conn *websocket.Conn) *Session {
	sess := &Session{
		ID:     id,
		server: s,
		conn:   conn,
		logger: s.logger.With("session_id", id),
		live: render.NewRenderer(render.RendererConfig{
			Marker:       s.config.Marker,
			EventMarkers: true,
		}),
		done: make(chan struct{}),
	}
	sess.loop = async.NewLoop(
		async.WithLogger(sess.logger),
		async.WithErrorHandler(sess.fail),
		async.WithIdleHook(sess.flush),
	)
	sess.engine = s.engine(sess.loop, sess.logger)
	return sess
}

// Engine returns the session's engine.
func (sess *Session) Engine() *morph.Engine {
	return sess.engine
}

// serve mounts the app and pumps messages until the connection closes.
func (sess *Session) serve(ctx context.Context, markup string) {
	defer sess.engine.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer sess.Close()

	sess.logger.Info("session started", "hydrate", markup != "")
	sess.loop.Post(func() {
		if err := sess.mount(markup); err != nil {
			sess.fail(err)
			sess.Close()
		}
	})
	go func() {
		_ = sess.loop.Run(ctx)
	}()
	go sess.heartbeat(ctx)

	sess.readLoop()
	sess.logger.Info("session closed")
}

// mount renders the app into the session's document, adopting markup when
// the page that opened the session was served with it.
func (sess *Session) mount(markup string) error {
	doc := dom.NewDocument()
	var root *dom.Node
	if markup != "" {
		parsed, err := dom.Parse(strings.NewReader(markup))
		if err != nil {
			return errors.New("E040").Wrap(err)
		}
		doc = parsed
		root, err = doc.QuerySelector("[" + sess.server.config.Marker + "]")
		if err != nil {
			return errors.New("E040").Wrap(err)
		}
	}
	if root == nil {
		var err error
		if root, err = doc.CreateElement("main"); err != nil {
			return err
		}
		if err := doc.Body().AppendChild(root); err != nil {
			return err
		}
	}
	sess.root = root

	if err := sess.engine.Render(root, sess.server.app(sess.engine)); err != nil {
		return err
	}
	if markup != "" {
		sess.last = sess.markup()
	}
	return nil
}

// markup renders the inner markup pushed to the browser.
func (sess *Session) markup() string {
	var buf bytes.Buffer
	if err := sess.live.RenderChildren(&buf, sess.root); err != nil {
		sess.logger.Error("render failed", "error", err)
	}
	return buf.String()
}

// flush pushes the tree when it changed since the last push. It runs when
// the loop goes idle.
func (sess *Session) flush() {
	if sess.root == nil {
		return
	}
	html := sess.markup()
	if html == sess.last {
		return
	}
	sess.last = html
	sess.send(ServerMessage{Type: MessageHTML, HTML: html})
}

// fail reports err to the browser.
func (sess *Session) fail(err error) {
	sess.server.metrics.rejected(errors.CodeOf(err))
	sess.send(errorMessage(err))
}

func (sess *Session) readLoop() {
	cfg := sess.server.config
	sess.conn.SetReadLimit(cfg.MaxMessageBytes)
	sess.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			return
		}
		sess.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		msg, err := decodeClientMessage(data)
		if err != nil {
			sess.logger.Warn("invalid client message", "error", err)
			sess.fail(err)
			continue
		}
		sess.server.metrics.received(msg.Type)
		sess.loop.Post(func() { sess.handle(msg) })
	}
}

// handle applies a client message. It runs on the loop.
func (sess *Session) handle(msg *ClientMessage) {
	_, span := otel.Tracer(tracerName).Start(context.Background(), "morphonent.session.message")
	span.SetAttributes(
		attribute.String("morphonent.session", sess.ID),
		attribute.String("morphonent.message", msg.Type),
	)
	defer span.End()

	var err error
	switch msg.Type {
	case MessageEvent:
		err = sess.fire(msg)
	case MessageDispatch:
		sess.engine.Dispatch(msg.Name, msg.Payload)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		sess.fail(err)
	}
}

// fire raises a host event on the node at msg.Target.
func (sess *Session) fire(msg *ClientMessage) error {
	if sess.root == nil {
		return errors.New("E062").WithTarget(msg.Target)
	}
	reg := sess.engine.Registry(sess.root)
	if reg == nil {
		return errors.New("E062").WithTarget(msg.Target)
	}
	id, err := registry.Parse(msg.Target)
	if err != nil {
		return errors.New("E062").WithTarget(msg.Target).Wrap(err)
	}
	node := reg.Get(id)
	if node == nil || node.Type() != dom.ElementNode {
		return errors.New("E062").WithTarget(msg.Target)
	}
	if msg.Value != nil {
		node.SetProperty("value", *msg.Value)
	}
	sess.logger.Debug("event", "target", msg.Target, "event", msg.Event)
	return node.DispatchEvent(dom.NewEvent(msg.Event))
}

func (sess *Session) heartbeat(ctx context.Context) {
	cfg := sess.server.config
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				sess.logger.Debug("ping failed", "error", err)
				sess.Close()
				return
			}
		case <-ctx.Done():
			return
		case <-sess.done:
			return
		}
	}
}

// send writes msg to the browser. Safe for concurrent use.
func (sess *Session) send(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		sess.logger.Error("encode failed", "error", err)
		return
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	select {
	case <-sess.done:
		return
	default:
	}
	sess.conn.SetWriteDeadline(time.Now().Add(sess.server.config.WriteTimeout))
	if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		sess.logger.Error("write error", "error", err)
		return
	}
	sess.server.metrics.sent(msg.Type, len(data))
}

// Close closes the connection. Only the first call has an effect.
func (sess *Session) Close() {
	sess.closeOnce.Do(func() {
		close(sess.done)
		sess.conn.Close()
	})
}
