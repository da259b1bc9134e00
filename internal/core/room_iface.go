package core

import (
	"github.com/dkeye/Presence/internal/domain"
)

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
}

// RoomDirectory is the set of live subscriber groups.
// A group exists while it has at least one subscriber.
type RoomDirectory interface {
	Subscribe(roomID domain.RoomID, sid SessionID)
	Unsubscribe(roomID domain.RoomID, sid SessionID)
	// UnsubscribeAll drops sid from every group and returns the groups it left.
	UnsubscribeAll(sid SessionID) []domain.RoomID
	RoomExists(roomID domain.RoomID) bool
	SubscribersOf(roomID domain.RoomID) []SessionID
	List() []domain.Room
}

// MembershipStore maps a connection to the room it joined and its display name.
type MembershipStore interface {
	AddUser(sid SessionID, roomID domain.RoomID, username string)
	GetRoomMembers(roomID domain.RoomID) []MemberDTO
	// RemoveUser is a no-op for unknown sids.
	RemoveUser(sid SessionID) (domain.Member, bool)
	MemberOf(sid SessionID) (domain.Member, bool)
}
