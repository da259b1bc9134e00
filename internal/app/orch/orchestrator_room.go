package orch

import (
	"encoding/json"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateRoom joins the room without checking whether it already has subscribers.
func (o *Orchestrator) CreateRoom(sid core.SessionID, raw json.RawMessage) error {
	req, err := o.validate(sid, raw)
	if err != nil {
		return err
	}
	o.join(sid, req)
	return nil
}

// JoinRoom joins an existing room or answers room-not-found.
func (o *Orchestrator) JoinRoom(sid core.SessionID, raw json.RawMessage) error {
	req, err := o.validate(sid, raw)
	if err != nil {
		return err
	}
	if !o.Rooms.RoomExists(req.RoomID) {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(req.RoomID)).Msg("room not found")
		o.emit(sid, EventRoomNotFound, MessagePayload{Message: MsgRoomNotFound})
		return domain.ErrRoomNotFound
	}
	o.join(sid, req)
	return nil
}

// LeaveRoom drops the room subscription and the member record. The record is
// removed even when roomID is not the room it points at.
func (o *Orchestrator) LeaveRoom(sid core.SessionID, roomID domain.RoomID) {
	o.Rooms.Unsubscribe(roomID, sid)
	m, ok := o.Members.RemoveUser(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Bool("was_member", ok).Msg("leave")
	if ok {
		o.announceLeft(sid, m)
	}
}

// OnDisconnect cleans up every trace of a closed connection.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	left := o.Rooms.UnsubscribeAll(sid)
	m, ok := o.Members.RemoveUser(sid)
	o.Registry.Unbind(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("rooms_left", len(left)).Bool("was_member", ok).Msg("disconnect")
	if ok {
		o.announceLeft(sid, m)
	}
}

func (o *Orchestrator) validate(sid core.SessionID, raw json.RawMessage) (domain.JoinRequest, error) {
	req, err := domain.ParseJoinRequest(raw)
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("invalid join payload")
		o.emit(sid, EventInvalidData, MessagePayload{Message: MsgInvalidData})
		return domain.JoinRequest{}, err
	}
	return req, nil
}

// join subscribes, records, snapshots and answers, in that order, so the
// roster sent back already contains the joiner.
func (o *Orchestrator) join(sid core.SessionID, req domain.JoinRequest) {
	if prev, ok := o.Members.MemberOf(sid); ok && prev.RoomID != req.RoomID {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev.RoomID)).Msg("left previous room")
		o.LeaveRoom(sid, prev.RoomID)
	}

	o.Rooms.Subscribe(req.RoomID, sid)
	user := domain.User{ID: domain.UserID(sid), Username: req.Username}
	o.Members.AddUser(sid, req.RoomID, req.Username)
	members := o.Members.GetRoomMembers(req.RoomID)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(req.RoomID)).Int("members", len(members)).Msg("joined")
	o.emit(sid, EventRoomJoined, RoomJoinedPayload{User: user, RoomID: req.RoomID, Members: members})

	if o.AnnouncePresence {
		o.broadcast(req.RoomID, sid, EventMemberJoined, PresencePayload{User: user, RoomID: req.RoomID})
	}
}

func (o *Orchestrator) announceLeft(sid core.SessionID, m domain.Member) {
	if !o.AnnouncePresence {
		return
	}
	o.broadcast(m.RoomID, sid, EventMemberLeft, PresencePayload{User: m.User, RoomID: m.RoomID})
}
