package domain

import "errors"

const MaxRoomIDLen = 36

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
	ErrRoomNotFound  = errors.New("room not found")
)

// RoomID names a subscriber group. Rooms are never stored; a room
// exists while at least one connection subscribes to it.
type RoomID string

type Room struct {
	ID          RoomID `json:"roomId"`
	MemberCount int    `json:"memberCount"`
}
