package app

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

type subscriberSet map[core.SessionID]struct{}

// RoomDirectoryImpl is an explicit registry of subscriber groups.
// A group is created by its first subscriber and dropped with its last.
type RoomDirectoryImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]subscriberSet
}

func NewRoomDirectory() *RoomDirectoryImpl {
	return &RoomDirectoryImpl{rooms: make(map[domain.RoomID]subscriberSet)}
}

func (d *RoomDirectoryImpl) Subscribe(roomID domain.RoomID, sid core.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subs, ok := d.rooms[roomID]
	if !ok {
		subs = make(subscriberSet)
		d.rooms[roomID] = subs
		log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room opened")
	}
	subs[sid] = struct{}{}
}

func (d *RoomDirectoryImpl) Unsubscribe(roomID domain.RoomID, sid core.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unsubscribeLocked(roomID, sid)
}

func (d *RoomDirectoryImpl) UnsubscribeAll(sid core.SessionID) []domain.RoomID {
	d.mu.Lock()
	defer d.mu.Unlock()
	var left []domain.RoomID
	for roomID, subs := range d.rooms {
		if _, ok := subs[sid]; ok {
			left = append(left, roomID)
		}
	}
	for _, roomID := range left {
		d.unsubscribeLocked(roomID, sid)
	}
	return left
}

func (d *RoomDirectoryImpl) unsubscribeLocked(roomID domain.RoomID, sid core.SessionID) {
	subs, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(subs, sid)
	if len(subs) == 0 {
		delete(d.rooms, roomID)
		log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room closed")
	}
}

func (d *RoomDirectoryImpl) RoomExists(roomID domain.RoomID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[roomID]
	return ok
}

func (d *RoomDirectoryImpl) SubscribersOf(roomID domain.RoomID) []core.SessionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	subs := d.rooms[roomID]
	out := make([]core.SessionID, 0, len(subs))
	for sid := range subs {
		out = append(out, sid)
	}
	return out
}

func (d *RoomDirectoryImpl) List() []domain.Room {
	d.mu.RLock()
	out := make([]domain.Room, 0, len(d.rooms))
	for roomID, subs := range d.rooms {
		out = append(out, domain.Room{ID: roomID, MemberCount: len(subs)})
	}
	d.mu.RUnlock()
	slices.SortFunc(out, func(a, b domain.Room) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
