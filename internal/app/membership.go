package app

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

type memberEntry struct {
	member domain.Member
	seq    uint64
}

// MembershipStore is the source of truth for who is in which room.
// Records carry a join sequence so rosters come back in join order.
type MembershipStore struct {
	mu      sync.RWMutex
	members map[core.SessionID]memberEntry
	seq     uint64
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{members: make(map[core.SessionID]memberEntry)}
}

func (s *MembershipStore) AddUser(sid core.SessionID, roomID domain.RoomID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.members[sid] = memberEntry{
		member: *domain.NewMember(domain.User{ID: domain.UserID(sid), Username: username}, roomID),
		seq:    s.seq,
	}
	log.Debug().Str("module", "app.membership").Str("sid", string(sid)).Str("room", string(roomID)).Msg("member added")
}

func (s *MembershipStore) GetRoomMembers(roomID domain.RoomID) []core.MemberDTO {
	s.mu.RLock()
	entries := make([]memberEntry, 0, len(s.members))
	for _, e := range s.members {
		if e.member.RoomID == roomID {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, func(a, b memberEntry) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]core.MemberDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, core.MemberDTO{ID: e.member.User.ID, Username: e.member.User.Username})
	}
	return out
}

func (s *MembershipStore) RemoveUser(sid core.SessionID) (domain.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.members[sid]
	if !ok {
		return domain.Member{}, false
	}
	delete(s.members, sid)
	log.Debug().Str("module", "app.membership").Str("sid", string(sid)).Str("room", string(e.member.RoomID)).Msg("member removed")
	return e.member, true
}

func (s *MembershipStore) MemberOf(sid core.SessionID) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.members[sid]
	return e.member, ok
}
