package app

import (
	"sync"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
)

// memberEntry pairs the member's bookkeeping with its transport
// endpoint. The room fans out to the connection but never closes it;
// the adapter owns that.
type memberEntry struct {
	member *domain.Member
	conn   core.SignalConnection
}

// Room is the per-room state record. Every mutation for one room goes
// through mu, which serializes membership changes, host promotion and
// readiness computation relative to each other. Rooms share nothing,
// so distinct rooms proceed fully in parallel.
type Room struct {
	id domain.RoomID

	mu      sync.Mutex
	members map[domain.MemberID]*memberEntry
	order   []domain.MemberID
	hostID  domain.MemberID
	call    domain.CallState

	// announceStop is the handle of the active ready announcer, nil
	// when none is running. Closed under mu; the announcer goroutine
	// compares channel identity before emitting.
	announceStop chan struct{}

	// closed marks a room already removed from the registry; a
	// connect that raced the removal must re-create the room.
	closed bool
}

func newRoom(id domain.RoomID) *Room {
	return &Room{
		id:      id,
		members: make(map[domain.MemberID]*memberEntry),
	}
}

func (r *Room) ID() domain.RoomID { return r.id }

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) CallActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.call == domain.CallActive
}

func (r *Room) MembersSnapshot() []core.MemberDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.MemberDTO, 0, len(r.members))
	for _, id := range r.order {
		e := r.members[id]
		out = append(out, core.MemberDTO{
			ID:       string(id),
			Name:     e.member.DisplayName,
			Approved: e.member.Approved(),
			Ready:    e.member.Ready(),
			IsHost:   id == r.hostID,
		})
	}
	return out
}

// The helpers below require r.mu to be held.

func (r *Room) addMember(e *memberEntry) {
	r.members[e.member.ID] = e
	r.order = append(r.order, e.member.ID)
}

func (r *Room) removeMember(id domain.MemberID) (*memberEntry, bool) {
	e, ok := r.members[id]
	if !ok {
		return nil, false
	}
	delete(r.members, id)
	for i, mid := range r.order {
		if mid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.hostID == id {
		r.hostID = ""
	}
	return e, true
}

func (r *Room) host() (*memberEntry, bool) {
	if r.hostID == "" {
		return nil, false
	}
	e, ok := r.members[r.hostID]
	return e, ok
}

func (r *Room) approvedCount() int {
	n := 0
	for _, e := range r.members {
		if e.member.Approved() {
			n++
		}
	}
	return n
}

// readySet returns the approved-and-ready members in join order.
func (r *Room) readySet() []*memberEntry {
	out := make([]*memberEntry, 0, len(r.order))
	for _, id := range r.order {
		e := r.members[id]
		if e.member.Ready() {
			out = append(out, e)
		}
	}
	return out
}

func (r *Room) stopAnnouncer() {
	if r.announceStop != nil {
		close(r.announceStop)
		r.announceStop = nil
	}
}
