package signal

import "github.com/rs/zerolog/log"

const (
	EventPing = "ping"
	EventPong = "pong"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	if err := conn.Send(EventPong, struct{}{}); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("pong dropped")
	}
}
