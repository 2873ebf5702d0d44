package core

// Frame is a raw wire payload (one JSON event per frame).
type Frame []byte

// SignalConnection abstracts a participant's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
	Ready    bool   `json:"ready"`
	IsHost   bool   `json:"is_host"`
}

// RoomInfo is a read-only summary used by the liveness surface.
type RoomInfo struct {
	ID          string `json:"id"`
	MemberCount int    `json:"member_count"`
	CallActive  bool   `json:"call_active"`
}
