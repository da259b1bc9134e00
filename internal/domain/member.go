package domain

// Member represents a connection's participation in a room.
// No transport or lifecycle logic here.
type Member struct {
	User   User
	RoomID RoomID
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(user User, roomID RoomID) *Member {
	return &Member{User: user, RoomID: roomID}
}
