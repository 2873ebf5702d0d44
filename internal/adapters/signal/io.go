package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
	"github.com/huddleio/huddle/internal/metrics"
)

const (
	writeWait         = 5 * time.Second
	defaultPingPeriod = 54 * time.Second
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	period := ctl.Cfg.PingPeriod
	if period <= 0 {
		period = defaultPingPeriod
	}
	ping := time.NewTicker(period)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, roomID domain.RoomID, sid domain.MemberID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Coord.Disconnect(roomID, sid)
		metrics.ConnectionsActive.Dec()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(roomID, sid, data)
		}
	}
}

func (ctl *Controller) handleEvent(roomID domain.RoomID, sid domain.MemberID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case core.EventApproveJoin:
		ctl.handleApproveJoin(roomID, sid, data)
	case core.EventOffer, core.EventAnswer, core.EventICECandidate:
		// Opaque negotiation payload: relayed verbatim, never parsed
		// beyond the type above.
		ctl.Coord.Relay(roomID, sid, env.Type, core.Frame(data))
	case core.EventCallReady:
		ctl.Coord.CallReady(roomID, sid)
	case core.EventCallEnded:
		ctl.Coord.CallEnded(roomID, sid)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) handleApproveJoin(roomID domain.RoomID, sid domain.MemberID, data []byte) {
	var p struct {
		Type string          `json:"type"`
		ID   domain.MemberID `json:"id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad approve-join payload")
		return
	}
	ctl.Coord.ApproveJoin(roomID, sid, p.ID)
}
