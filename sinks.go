package beacon

import "github.com/bitbeacon/beacon/internal/logger"

// discardStats is used when the caller does not supply a stats sink.
// Swarm counts are still visible through Session.Stats.
type discardStats struct{}

func (discardStats) ReportStats(seeders, leechers int64) {}

// logControl reports tracker error and warning signals to the session log.
type logControl struct {
	log logger.Logger
}

func (c logControl) ReportError(message string) {
	c.log.Errorln("tracker error:", message)
}

func (c logControl) ReportWarning(message string) {
	c.log.Warningln("tracker warning:", message)
}
