// Package dispatcher forwards interpreted announce results to downstream sinks.
package dispatcher

import "github.com/bitbeacon/beacon/internal/tracker"

// PeerSink receives peer addresses from announce responses.
type PeerSink interface {
	AddPeers(peers []tracker.Peer)
}

// StatsSink receives swarm statistics from announce responses.
// Values are tracker.StatsUnknown when the response omits them.
type StatsSink interface {
	ReportStats(seeders, leechers int64)
}

// ControlSink receives protocol-level error and warning signals.
type ControlSink interface {
	ReportError(message string)
	ReportWarning(message string)
}

// Dispatcher makes a single synchronous call per event category.
// It does not retry and does not buffer; the caller decides which
// categories to dispatch for each response.
type Dispatcher struct {
	peers   PeerSink
	stats   StatsSink
	control ControlSink
}

func New(peers PeerSink, stats StatsSink, control ControlSink) *Dispatcher {
	return &Dispatcher{
		peers:   peers,
		stats:   stats,
		control: control,
	}
}

func (d *Dispatcher) AddPeers(peers []tracker.Peer) {
	d.peers.AddPeers(peers)
}

func (d *Dispatcher) ReportStats(seeders, leechers int64) {
	d.stats.ReportStats(seeders, leechers)
}

func (d *Dispatcher) ReportError(message string) {
	d.control.ReportError(message)
}

func (d *Dispatcher) ReportWarning(message string) {
	d.control.ReportWarning(message)
}
