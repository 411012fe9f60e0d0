// Package beacon is a BitTorrent tracker announce engine.
//
// A Session is a long-lived actor per tracked swarm. It periodically
// contacts an HTTP tracker, reports swarm statistics and forwards the
// interpreted reply (peer list, swarm counts, error/warning signals) to
// downstream sinks.
package beacon

import (
	"crypto/rand"

	"github.com/cenkalti/log"

	"github.com/bitbeacon/beacon/internal/dispatcher"
	"github.com/bitbeacon/beacon/internal/logger"
	"github.com/bitbeacon/beacon/internal/tracker"
)

// Version of the client, encoded into the peer id prefix.
const Version = "0001"

var peerIDPrefix = []byte("-BN" + Version + "-")

// Peer is a single address entry received from a tracker.
type Peer = tracker.Peer

// PeerSink receives peer addresses from announce responses.
type PeerSink = dispatcher.PeerSink

// StatsSink receives swarm statistics from announce responses.
type StatsSink = dispatcher.StatsSink

// ControlSink receives protocol-level error and warning signals.
type ControlSink = dispatcher.ControlSink

// SetLogLevel changes the verbosity of the global logger.
func SetLogLevel(l log.Level) {
	logger.SetLevel(l)
}

func generatePeerID() ([20]byte, error) {
	var id [20]byte
	copy(id[:], peerIDPrefix)
	_, err := rand.Read(id[len(peerIDPrefix):])
	return id, err
}
