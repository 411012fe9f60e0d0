// Package tracker provides types for announcing a swarm to a BitTorrent tracker.
package tracker

import (
	"context"
	"errors"
	"time"
)

// DefaultInterval is used when a successful response does not carry a
// usable interval value.
const DefaultInterval = 180 * time.Second

// TimeoutInterval is the fixed fallback used after a transport timeout.
const TimeoutInterval = 1800 * time.Second

type Tracker interface {
	// Announce the swarm to the tracker.
	// Announce is called periodically with the interval returned in AnnounceResponse.
	// Announce is also called on lifecycle events.
	Announce(ctx context.Context, req AnnounceRequest) (*AnnounceResponse, error)

	// URL of the tracker.
	URL() string
}

type AnnounceRequest struct {
	Torrent Torrent
	Event   Event

	// TrackerID is the sticky session token learned from an earlier
	// response. Empty until the tracker issues one.
	TrackerID string
}

// AnnounceResponse holds every field interpreted from a tracker reply.
// FailureReason and WarningMessage are protocol-level signals; they are
// carried in the response rather than returned as errors so the caller
// can still apply Interval and TrackerID in those cases.
type AnnounceResponse struct {
	Interval       time.Duration
	TrackerID      string
	Seeders        int64
	Leechers       int64
	Peers          []Peer
	FailureReason  string
	WarningMessage string
}

// Peer is a single address entry from a tracker reply.
type Peer struct {
	IP   string
	Port uint16
	ID   string
}

// StatsUnknown is the sentinel for absent complete/incomplete values.
const StatsUnknown int64 = -1

var ErrDecode = errors.New("cannot decode response")

// Error is a failure reason sent by the tracker in an announce response.
type Error struct {
	FailureReason string
}

func (e *Error) Error() string { return e.FailureReason }
