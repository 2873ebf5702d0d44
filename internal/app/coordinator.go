package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
)

const DefaultReadyInterval = 2 * time.Second

// Coordinator implements the connect/approve/promote/relay/disconnect
// protocol on top of the registry. It is safe for concurrent use;
// every operation serializes on the target room's lock.
type Coordinator struct {
	Rooms         *Registry
	ReadyInterval time.Duration
}

func NewCoordinator(rooms *Registry, readyInterval time.Duration) *Coordinator {
	if readyInterval <= 0 {
		readyInterval = DefaultReadyInterval
	}
	return &Coordinator{Rooms: rooms, ReadyInterval: readyInterval}
}

// send marshals an event and hands it to the connection without
// blocking. Delivery is best effort: an unreachable peer simply
// misses the event.
func send(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("event marshal")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Debug().Err(err).Str("module", "app.coordinator").Msg("event dropped")
	}
}

// Connect runs the membership contract for a freshly opened
// connection and returns the transport-assigned member id.
func (c *Coordinator) Connect(
	roomID domain.RoomID,
	displayName string,
	wantsHost bool,
	conn core.SignalConnection,
) domain.MemberID {
	member := domain.NewMember(domain.NewMemberID(), displayName)
	entry := &memberEntry{member: member, conn: conn}

	for {
		room := c.Rooms.GetOrCreate(roomID)
		room.mu.Lock()
		if room.closed {
			// Lost a race with the last member's disconnect; the
			// registry entry is gone, so resolve a fresh room.
			room.mu.Unlock()
			continue
		}
		c.connectLocked(room, entry, wantsHost)
		room.mu.Unlock()
		return member.ID
	}
}

func (c *Coordinator) connectLocked(room *Room, entry *memberEntry, wantsHost bool) {
	room.addMember(entry)
	member := entry.member

	becameHost := false
	switch {
	case wantsHost && room.hostID == "":
		room.hostID = member.ID
		becameHost = true
		// Each member hears whether they are host, never a third
		// party's flag.
		for id, e := range room.members {
			send(e.conn, core.NewHostEvent(id == room.hostID))
		}
	case room.hostID == "":
		// Previous host left without a successor; the connecting
		// member takes over.
		room.hostID = member.ID
		becameHost = true
		send(entry.conn, core.NewHostEvent(true))
	default:
		send(entry.conn, core.NewHostEvent(false))
		c.requestApproval(room, entry)
	}

	if becameHost {
		member.Approve()
		send(entry.conn, core.NewJoinApprovedEvent())
	}

	isInitiator := member.Approved() && room.approvedCount() == 1
	send(entry.conn, core.NewInitEvent(isInitiator))

	c.broadcastParticipants(room)
	c.evaluateReadiness(room)

	log.Info().
		Str("module", "app.coordinator").
		Str("room", string(room.id)).
		Str("member", string(member.ID)).
		Str("name", member.DisplayName).
		Bool("host", becameHost).
		Msg("member connected")
}

func (c *Coordinator) broadcastParticipants(room *Room) {
	ev := core.NewParticipantsEvent(room.approvedCount())
	for _, e := range room.members {
		send(e.conn, ev)
	}
}

func (c *Coordinator) broadcast(room *Room, v any) {
	for _, e := range room.members {
		send(e.conn, v)
	}
}
