// Package domain contains entities without logic, just meta-data and
// the legal state transitions between them.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxDisplayNameLen  = 60
	DefaultDisplayName = "Guest"
)

// MemberID is assigned by the transport when a connection opens.
// Clients never choose their own id.
type MemberID string

func NewMemberID() MemberID {
	return MemberID(uuid.NewString())
}

// MemberState orders the member lifecycle. A member can only move
// forward until call teardown drops it back from Ready to Approved,
// so "ready but not approved" is unrepresentable.
type MemberState int

const (
	// StatePending means the member is waiting for host approval and
	// may not relay negotiation payloads.
	StatePending MemberState = iota
	// StateApproved means the member may exchange negotiation
	// payloads and counts toward readiness.
	StateApproved
	// StateReady means the member declared local media prepared.
	StateReady
)

func (s MemberState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateApproved:
		return "approved"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Member is one participant's room bookkeeping. No transport or
// lifecycle logic here.
type Member struct {
	ID          MemberID
	DisplayName string
	State       MemberState
}

func NewMember(id MemberID, displayName string) *Member {
	return &Member{
		ID:          id,
		DisplayName: SanitizeDisplayName(displayName),
		State:       StatePending,
	}
}

func (m *Member) Approved() bool { return m.State >= StateApproved }
func (m *Member) Ready() bool    { return m.State == StateReady }

// Approve is terminal for the member's lifetime: there is no way back
// to Pending.
func (m *Member) Approve() {
	if m.State < StateApproved {
		m.State = StateApproved
	}
}

// MarkReady requires prior approval; a pending member declaring
// readiness stays pending.
func (m *Member) MarkReady() {
	if m.State == StateApproved {
		m.State = StateReady
	}
}

// ClearReady drops a ready member back to approved.
func (m *Member) ClearReady() {
	if m.State == StateReady {
		m.State = StateApproved
	}
}

// SanitizeDisplayName trims, truncates to MaxDisplayNameLen runes and
// falls back to a placeholder for empty names. Truncation never splits
// a multi-byte rune.
func SanitizeDisplayName(raw string) string {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		name = string([]rune(name)[:MaxDisplayNameLen])
	}
	if name == "" {
		return DefaultDisplayName
	}
	return name
}
