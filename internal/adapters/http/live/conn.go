package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/pkg/logger"
	"github.com/okian/skillwheel/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	defaultClicksPerSecond = 20
	defaultClickBurst      = 40
)

// Message types sent to viewers.
const (
	TypePlan  = "plan"
	TypeError = "error"
)

// Backend is what a live connection needs from the service.
type Backend interface {
	// SessionPlan returns the current plan of a session.
	SessionPlan(ctx context.Context, sessionID string) (plan.Plan, error)
	// Click queues a node click for a session.
	Click(ctx context.Context, sessionID string, target selection.Target) error
}

// ClickMessage is what viewers send. Index is the clicked node's ring position.
type ClickMessage struct {
	Ring  model.RingKind `json:"ring"`
	Name  string         `json:"name"`
	Index *int           `json:"index,omitempty"`
}

func (m ClickMessage) target() selection.Target {
	return selection.Target{Ring: m.Ring, Name: m.Name, Index: m.Index}
}

// ErrorBody describes a refused click.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Message is what viewers receive.
type Message struct {
	Type  string     `json:"type"`
	Plan  *plan.Plan `json:"plan,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// Handler upgrades viewer requests and runs their connections.
type Handler struct {
	hub      *Hub
	backend  Backend
	upgrader websocket.Upgrader
	limit    rate.Limit
	burst    int
	code     func(error) string
	logger   logger.Logger
}

// NewHandler creates a live handler bound to hub and backend.
func NewHandler(hub *Hub, backend Backend, opts ...Option) *Handler {
	h := &Handler{
		hub:     hub,
		backend: backend,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		limit:  rate.Limit(defaultClicksPerSecond),
		burst:  defaultClickBurst,
		code:   defaultErrorCode,
		logger: logger.Get().Named("live"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve upgrades the request and streams plans for sessionID until the
// viewer goes away. The caller checks that the session exists.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		metrics.RecordErrorByComponent("live", "upgrade")
		return
	}

	// Subscribe before reading the current plan so no redraw is missed.
	sub := h.hub.Subscribe(sessionID)
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		session: sessionID,
		conn:    conn,
		sub:     sub,
		out:     make(chan Message, 8),
		limiter: rate.NewLimiter(h.limit, h.burst),
		h:       h,
		cancel:  cancel,
	}
	defer func() {
		cancel()
		sub.Close()
		_ = conn.Close()
	}()

	// The current plan is written before the pump starts: a redraw published
	// meanwhile waits in sub and reaches the viewer after it, never before.
	var first Message
	if current, err := h.backend.SessionPlan(ctx, sessionID); err != nil {
		first = errorMessage(h.code(err), err)
	} else {
		first = Message{Type: TypePlan, Plan: &current}
	}
	if err := c.write(first); err != nil {
		h.logger.Debug(ctx, "viewer write failed", logger.String("session", sessionID), logger.Error(err))
		return
	}

	h.logger.Debug(ctx, "viewer connected", logger.String("session", sessionID))
	go c.writePump(ctx)
	c.readPump(ctx)
	h.logger.Debug(ctx, "viewer disconnected", logger.String("session", sessionID))
}

type client struct {
	session string
	conn    *websocket.Conn
	sub     *Subscription
	out     chan Message
	limiter *rate.Limiter
	h       *Handler
	cancel  context.CancelFunc
}

func (c *client) readPump(ctx context.Context) {
	defer c.cancel()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.h.logger.Warn(ctx, "viewer connection closed", logger.String("session", c.session), logger.Error(err))
			}
			return
		}
		if !c.limiter.Allow() {
			metrics.RecordLiveThrottled()
			c.reply(errorMessage("throttled", ErrThrottled))
			continue
		}
		var msg ClickMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(errorMessage("bad_request", err))
			continue
		}
		if err := c.h.backend.Click(ctx, c.session, msg.target()); err != nil {
			c.reply(errorMessage(c.h.code(err), err))
		}
	}
}

// reply queues a message without blocking the read loop.
func (c *client) reply(m Message) {
	select {
	case c.out <- m:
	default:
	}
}

func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		var msg Message
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case p := <-c.sub.C():
			msg = Message{Type: TypePlan, Plan: &p}
		case msg = <-c.out:
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}
		if err := c.write(msg); err != nil {
			c.h.logger.Debug(ctx, "viewer write failed", logger.String("session", c.session), logger.Error(err))
			return
		}
	}
}

func (c *client) write(m Message) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

func errorMessage(code string, err error) Message {
	return Message{Type: TypeError, Error: &ErrorBody{Code: code, Message: err.Error()}}
}

func defaultErrorCode(error) string { return "rejected" }
