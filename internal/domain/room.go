package domain

// RoomID is an opaque, case-sensitive identifier supplied by the
// connecting client.
type RoomID string

// CallState tracks whether a negotiated call is currently active in a
// room.
type CallState int

const (
	CallIdle CallState = iota
	CallActive
)

func (s CallState) String() string {
	if s == CallActive {
		return "active"
	}
	return "idle"
}
