package app

import (
	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
	"github.com/huddleio/huddle/internal/metrics"
)

func (c *Coordinator) requestApproval(room *Room, entry *memberEntry) {
	if host, ok := room.host(); ok {
		send(host.conn, core.NewJoinRequestEvent(entry.member.ID, entry.member.DisplayName))
	}
	send(entry.conn, core.NewWaitingApprovalEvent())
	metrics.JoinRequests.Inc()
}

// ApproveJoin is only honored from the current host's connection.
// Anything else is a silent no-op: nothing is emitted back, so a
// probing guest learns nothing about the room.
func (c *Coordinator) ApproveJoin(roomID domain.RoomID, from, target domain.MemberID) {
	room, ok := c.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.hostID != from {
		log.Debug().
			Str("module", "app.coordinator").
			Str("room", string(roomID)).
			Str("member", string(from)).
			Msg("approve-join from non-host ignored")
		return
	}
	entry, exists := room.members[target]
	if !exists || entry.member.Approved() {
		return
	}

	entry.member.Approve()
	send(entry.conn, core.NewJoinApprovedEvent())
	if host, ok := room.host(); ok {
		send(host.conn, core.NewJoinRequestResolvedEvent(target))
	}
	c.broadcastParticipants(room)
	c.evaluateReadiness(room)

	log.Info().
		Str("module", "app.coordinator").
		Str("room", string(roomID)).
		Str("member", string(target)).
		Msg("member approved")
}

// Disconnect removes the member and runs the departure protocol. It
// always runs on transport close, regardless of cause.
func (c *Coordinator) Disconnect(roomID domain.RoomID, id domain.MemberID) {
	room, ok := c.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.mu.Lock()

	wasHost := room.hostID == id
	entry, exists := room.removeMember(id)
	if !exists {
		room.mu.Unlock()
		return
	}

	if len(room.members) == 0 {
		// No recipients left; drop the room and skip every broadcast.
		room.closed = true
		room.stopAnnouncer()
		room.mu.Unlock()
		c.Rooms.Remove(roomID)
		log.Info().
			Str("module", "app.coordinator").
			Str("room", string(roomID)).
			Str("member", string(id)).
			Msg("last member left, room dropped")
		return
	}
	defer room.mu.Unlock()

	if !entry.member.Approved() {
		// The pending request is withdrawn; tell whoever is host now.
		if host, ok := room.host(); ok {
			send(host.conn, core.NewJoinRequestResolvedEvent(id))
		}
	}

	if wasHost {
		c.promoteHost(room)
	}

	c.broadcastParticipants(room)
	c.evaluateReadiness(room)
	c.broadcast(room, core.NewPeerLeftEvent())

	log.Info().
		Str("module", "app.coordinator").
		Str("room", string(roomID)).
		Str("member", string(id)).
		Bool("was_host", wasHost).
		Msg("member disconnected")
}

// promoteHost picks the first remaining approved member; if every
// remaining member is still pending it falls back to the oldest one
// and force-approves, so the approval flow never has to re-run for an
// already-vetted room.
func (c *Coordinator) promoteHost(room *Room) {
	var next *memberEntry
	for _, mid := range room.order {
		if e := room.members[mid]; e.member.Approved() {
			next = e
			break
		}
	}
	if next == nil {
		if len(room.order) == 0 {
			return
		}
		next = room.members[room.order[0]]
		next.member.Approve()
	}

	room.hostID = next.member.ID
	for id, e := range room.members {
		send(e.conn, core.NewHostEvent(id == room.hostID))
	}
	send(next.conn, core.NewPromotedHostEvent())
	metrics.HostPromotions.Inc()

	log.Info().
		Str("module", "app.coordinator").
		Str("room", string(room.id)).
		Str("member", string(room.hostID)).
		Msg("host promoted")
}
