package app

import (
	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
	"github.com/huddleio/huddle/internal/metrics"
)

// Relay fans an opaque negotiation frame out to every other room
// member, verbatim. The frame is never parsed beyond the type the
// dispatcher already read. Unapproved senders are dropped without a
// reply so the approval gate cannot be probed.
func (c *Coordinator) Relay(roomID domain.RoomID, from domain.MemberID, eventType string, frame core.Frame) {
	room, ok := c.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	sender, exists := room.members[from]
	if !exists || !sender.member.Approved() {
		log.Debug().
			Str("module", "app.coordinator").
			Str("room", string(roomID)).
			Str("member", string(from)).
			Str("type", eventType).
			Msg("relay from unapproved sender dropped")
		return
	}

	for id, e := range room.members {
		if id == from {
			continue
		}
		if err := e.conn.TrySend(frame); err != nil {
			log.Debug().Err(err).
				Str("module", "app.coordinator").
				Str("member", string(id)).
				Msg("relay dropped")
		}
	}
	metrics.EventsRelayed.WithLabelValues(eventType).Inc()

	// A relayed answer means negotiation succeeded; stop nudging the
	// peers with ready announcements.
	if eventType == core.EventAnswer {
		room.call = domain.CallActive
		room.stopAnnouncer()
	}
}

// CallConnected is the PSTN bridge's entry point: the provider
// confirmed an outgoing call for a room, and every member gets told.
// Reports whether the room exists; unknown rooms are dropped.
func (c *Coordinator) CallConnected(roomID domain.RoomID, callID, to string) bool {
	room, ok := c.Rooms.Lookup(roomID)
	if !ok {
		return false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	c.broadcast(room, core.NewCallConnectedEvent(callID, to))
	return true
}
