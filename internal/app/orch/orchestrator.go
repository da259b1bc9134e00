package orch

import (
	"errors"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// Event names exchanged with clients.
const (
	EventCreateRoom = "create-room"
	EventJoinRoom   = "join-room"
	EventLeaveRoom  = "leave-room"

	EventRoomJoined   = "room-joined"
	EventInvalidData  = "invalid-data"
	EventRoomNotFound = "room-not-found"
	EventMemberJoined = "member-joined"
	EventMemberLeft   = "member-left"
	EventWhoAmI       = "whoami"
)

const (
	MsgInvalidData  = "The entities you provided are not correct and cannot be processed."
	MsgRoomNotFound = "Oops! The Room ID you entered doesn't exist or hasn't been created yet."
)

type MessagePayload struct {
	Message string `json:"message"`
}

type RoomJoinedPayload struct {
	User    domain.User      `json:"user"`
	RoomID  domain.RoomID    `json:"roomId"`
	Members []core.MemberDTO `json:"members"`
}

type PresencePayload struct {
	User   domain.User   `json:"user"`
	RoomID domain.RoomID `json:"roomId"`
}

type WhoAmIPayload struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username,omitempty"`
	RoomID   domain.RoomID `json:"roomId,omitempty"`
}

// Orchestrator is the session coordinator. It is the only writer of Members.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomDirectory
	Members  core.MembershipStore
	Policy   app.Policy
	// AnnouncePresence pushes member-joined/member-left to the rest of the room.
	AnnouncePresence bool
}

func (o *Orchestrator) emit(sid core.SessionID, event string, payload any) {
	conn, ok := o.Registry.GetSignal(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("event", event).Msg("emit to unbound session")
		return
	}
	err := conn.Send(event, payload)
	if err == nil {
		return
	}
	if !errors.Is(err, core.ErrBackpressure) || o.Policy == nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("event", event).Msg("emit failed")
		return
	}
	switch o.Policy.OnBackPressure(sid, event) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("event", event).Msg("slow session kicked")
		o.Registry.Cancel(sid)
	case app.DropFrame, app.NoAction:
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("event", event).Msg("frame dropped")
	}
}

func (o *Orchestrator) broadcast(roomID domain.RoomID, except core.SessionID, event string, payload any) {
	for _, sid := range o.Rooms.SubscribersOf(roomID) {
		if sid == except {
			continue
		}
		o.emit(sid, event, payload)
	}
}

// WhoAmI reports the session's identity and current room.
func (o *Orchestrator) WhoAmI(sid core.SessionID) {
	resp := WhoAmIPayload{ID: domain.UserID(sid)}
	if m, ok := o.Members.MemberOf(sid); ok {
		resp.Username = m.User.Username
		resp.RoomID = m.RoomID
	}
	o.emit(sid, EventWhoAmI, resp)
}

// ListRooms lists live rooms for read-only APIs.
func (o *Orchestrator) ListRooms() []domain.Room {
	return o.Rooms.List()
}

// RoomMembers returns the roster of a live room.
func (o *Orchestrator) RoomMembers(roomID domain.RoomID) ([]core.MemberDTO, bool) {
	if !o.Rooms.RoomExists(roomID) {
		return nil, false
	}
	return o.Members.GetRoomMembers(roomID), true
}
