package core

import "github.com/huddleio/huddle/internal/domain"

// Event type names on the wire. Every frame is a single JSON object
// with a "type" field; negotiation payloads (offer/answer/candidate)
// are relayed verbatim and never modeled here.
const (
	// Inbound.
	EventApproveJoin  = "approve-join"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventCallReady    = "call-ready"
	EventCallEnded    = "call-ended"

	// Outbound.
	EventInit                = "init"
	EventHost                = "host"
	EventParticipants        = "participants"
	EventReady               = "ready"
	EventJoinRequest         = "join-request"
	EventWaitingApproval     = "waiting-approval"
	EventJoinApproved        = "join-approved"
	EventJoinRequestResolved = "join-request-resolved"
	EventPromotedHost        = "promoted-host"
	EventPeerLeft            = "peer-left"
	EventError               = "error"
	EventCallConnected       = "call-connected"
)

type InitEvent struct {
	Type        string `json:"type"`
	IsInitiator bool   `json:"isInitiator"`
}

func NewInitEvent(isInitiator bool) InitEvent {
	return InitEvent{Type: EventInit, IsInitiator: isInitiator}
}

type HostEvent struct {
	Type   string `json:"type"`
	IsHost bool   `json:"isHost"`
}

func NewHostEvent(isHost bool) HostEvent {
	return HostEvent{Type: EventHost, IsHost: isHost}
}

type ParticipantsEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func NewParticipantsEvent(count int) ParticipantsEvent {
	return ParticipantsEvent{Type: EventParticipants, Count: count}
}

type ReadyEvent struct {
	Type string `json:"type"`
}

func NewReadyEvent() ReadyEvent {
	return ReadyEvent{Type: EventReady}
}

type JoinRequestEvent struct {
	Type string          `json:"type"`
	ID   domain.MemberID `json:"id"`
	Name string          `json:"name"`
}

func NewJoinRequestEvent(id domain.MemberID, name string) JoinRequestEvent {
	return JoinRequestEvent{Type: EventJoinRequest, ID: id, Name: name}
}

type WaitingApprovalEvent struct {
	Type string `json:"type"`
}

func NewWaitingApprovalEvent() WaitingApprovalEvent {
	return WaitingApprovalEvent{Type: EventWaitingApproval}
}

type JoinApprovedEvent struct {
	Type string `json:"type"`
}

func NewJoinApprovedEvent() JoinApprovedEvent {
	return JoinApprovedEvent{Type: EventJoinApproved}
}

type JoinRequestResolvedEvent struct {
	Type string          `json:"type"`
	ID   domain.MemberID `json:"id"`
}

func NewJoinRequestResolvedEvent(id domain.MemberID) JoinRequestResolvedEvent {
	return JoinRequestResolvedEvent{Type: EventJoinRequestResolved, ID: id}
}

type PromotedHostEvent struct {
	Type string `json:"type"`
}

func NewPromotedHostEvent() PromotedHostEvent {
	return PromotedHostEvent{Type: EventPromotedHost}
}

type PeerLeftEvent struct {
	Type string `json:"type"`
}

func NewPeerLeftEvent() PeerLeftEvent {
	return PeerLeftEvent{Type: EventPeerLeft}
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

type CallConnectedEvent struct {
	Type   string `json:"type"`
	CallID string `json:"callId"`
	To     string `json:"to"`
}

func NewCallConnectedEvent(callID, to string) CallConnectedEvent {
	return CallConnectedEvent{Type: EventCallConnected, CallID: callID, To: to}
}
