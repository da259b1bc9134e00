package signal

import (
	"encoding/json"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCreateRoom(sid core.SessionID, data json.RawMessage) {
	if err := ctl.Orch.CreateRoom(sid, data); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("create-room rejected")
	}
}

func (ctl *SignalWSController) handleJoin(sid core.SessionID, data json.RawMessage) {
	if err := ctl.Orch.JoinRoom(sid, data); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join-room rejected")
	}
}

// handleLeave takes a bare room id string. An undecodable payload still
// clears the member record.
func (ctl *SignalWSController) handleLeave(sid core.SessionID, data json.RawMessage) {
	var roomID string
	if len(data) > 0 {
		if err := json.Unmarshal(data, &roomID); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad leave payload")
		}
	}
	ctl.Orch.LeaveRoom(sid, domain.RoomID(roomID))
}
