package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
)

// CallReady records a member's declaration that local media is
// prepared. Re-declaring readiness implies any prior call is over
// from that member's perspective.
func (c *Coordinator) CallReady(roomID domain.RoomID, id domain.MemberID) {
	room, ok := c.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	entry, exists := room.members[id]
	if !exists || !entry.member.Approved() {
		return
	}
	entry.member.MarkReady()
	room.call = domain.CallIdle
	c.evaluateReadiness(room)
}

// CallEnded clears the member's readiness and the room's active-call
// state, then re-evaluates so a remaining ready pair gets a fresh
// signal to renegotiate.
func (c *Coordinator) CallEnded(roomID domain.RoomID, id domain.MemberID) {
	room, ok := c.Rooms.Lookup(roomID)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	entry, exists := room.members[id]
	if !exists {
		return
	}
	entry.member.ClearReady()
	room.call = domain.CallIdle
	c.evaluateReadiness(room)
}

// evaluateReadiness recomputes the approved-and-ready set and drives
// the ready signal plus the repeating announcer. Requires room.mu.
func (c *Coordinator) evaluateReadiness(room *Room) {
	ready := room.readySet()
	if len(ready) < 2 {
		// A departed or withdrawn peer always ends the active state.
		room.call = domain.CallIdle
		room.stopAnnouncer()
		return
	}
	if room.call == domain.CallActive {
		room.stopAnnouncer()
		return
	}

	ev := core.NewReadyEvent()
	for _, e := range ready {
		send(e.conn, ev)
	}
	if room.announceStop == nil {
		c.startAnnouncer(room)
	}
}

// startAnnouncer launches the per-room repeating ready announcement.
// A peer that connected slightly late and missed the initial signal
// picks it up on the next tick. Requires room.mu; at most one
// announcer runs per room.
func (c *Coordinator) startAnnouncer(room *Room) {
	room.stopAnnouncer()
	stop := make(chan struct{})
	room.announceStop = stop

	go func() {
		ticker := time.NewTicker(c.ReadyInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.announceReady(room, stop)
			}
		}
	}()

	log.Debug().
		Str("module", "app.coordinator").
		Str("room", string(room.id)).
		Dur("interval", c.ReadyInterval).
		Msg("ready announcer started")
}

func (c *Coordinator) announceReady(room *Room, stop chan struct{}) {
	room.mu.Lock()
	defer room.mu.Unlock()

	// The announcer may have been replaced or cancelled while this
	// tick waited on the lock.
	if room.announceStop != stop || room.closed {
		return
	}
	ready := room.readySet()
	if len(ready) < 2 || room.call == domain.CallActive {
		return
	}
	ev := core.NewReadyEvent()
	for _, e := range ready {
		send(e.conn, ev)
	}
}
