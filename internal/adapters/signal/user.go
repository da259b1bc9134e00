package signal

import "github.com/dkeye/Presence/internal/core"

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID) {
	ctl.Orch.WhoAmI(sid)
}
