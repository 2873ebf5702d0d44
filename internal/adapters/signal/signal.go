package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/app"
	"github.com/huddleio/huddle/internal/config"
	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
	"github.com/huddleio/huddle/internal/metrics"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type Controller struct {
	Coord   *app.Coordinator
	Cfg     *config.Config
	limiter *ConnectRateLimiter
}

func NewController(coord *app.Coordinator, cfg *config.Config) *Controller {
	return &Controller{
		Coord:   coord,
		Cfg:     cfg,
		limiter: NewConnectRateLimiter(cfg.JoinLimit, cfg.JoinWindow),
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the connection and binds it to a room for its
// whole lifetime. The room id is required addressing metadata; a
// connection without one gets a single error event and is closed,
// never retried.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	roomID := domain.RoomID(c.Query("room"))
	name := c.Query("name")
	wantsHost := wantsHostParam(c.Query("host"))
	token := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	if roomID == "" {
		rejectConn(ws, "Room missing")
		return
	}
	if !ctl.limiter.Allow(token) {
		log.Warn().Str("module", "signal").Str("token", token).Msg("connect rate limited")
		rejectConn(ws, "Too many connection attempts")
		return
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	go ctl.writePump(ctx, conn)

	sid := ctl.Coord.Connect(roomID, name, wantsHost, conn)
	metrics.ConnectionsActive.Inc()
	log.Info().
		Str("module", "signal").
		Str("room", string(roomID)).
		Str("sid", string(sid)).
		Bool("host", wantsHost).
		Msg("new WS connection")

	go ctl.readPump(ctx, roomID, sid, conn)
}

// rejectConn delivers one fatal error event and closes; the client is
// expected not to retry.
func rejectConn(ws *websocket.Conn, message string) {
	b, err := json.Marshal(core.NewErrorEvent(message))
	if err != nil {
		_ = ws.Close()
		return
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.TextMessage, b)
	_ = ws.Close()
}

func wantsHostParam(raw string) bool {
	switch raw {
	case "1", "true", "yes":
		return true
	}
	return false
}
