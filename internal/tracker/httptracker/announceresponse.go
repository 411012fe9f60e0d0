package httptracker

import (
	"net"
	"time"

	"github.com/zeebo/bencode"

	"github.com/bitbeacon/beacon/internal/tracker"
)

// announceResponse is the raw bencoded reply. Numeric fields are kept as
// RawMessage so a wrong-typed value degrades to its default instead of
// failing the whole parse.
type announceResponse struct {
	FailureReason  string             `bencode:"failure reason"`
	WarningMessage string             `bencode:"warning message"`
	Interval       bencode.RawMessage `bencode:"interval"`
	TrackerID      string             `bencode:"tracker id"`
	Complete       bencode.RawMessage `bencode:"complete"`
	Incomplete     bencode.RawMessage `bencode:"incomplete"`
	Peers          bencode.RawMessage `bencode:"peers"`
}

func (r *announceResponse) interpret() (*tracker.AnnounceResponse, error) {
	peers, err := parsePeers(r.Peers)
	if err != nil {
		return nil, err
	}
	return &tracker.AnnounceResponse{
		Interval:       intervalOrDefault(r.Interval),
		TrackerID:      r.TrackerID,
		Seeders:        intOrDefault(r.Complete, tracker.StatsUnknown),
		Leechers:       intOrDefault(r.Incomplete, tracker.StatsUnknown),
		Peers:          peers,
		FailureReason:  r.FailureReason,
		WarningMessage: r.WarningMessage,
	}, nil
}

func intOrDefault(raw bencode.RawMessage, def int64) int64 {
	if len(raw) == 0 {
		return def
	}
	var n int64
	if err := bencode.DecodeBytes(raw, &n); err != nil {
		return def
	}
	return n
}

func intervalOrDefault(raw bencode.RawMessage) time.Duration {
	seconds := intOrDefault(raw, 0)
	if seconds <= 0 {
		return tracker.DefaultInterval
	}
	return time.Duration(seconds) * time.Second
}

// parsePeers accepts both the dictionary and the compact binary model.
func parsePeers(raw bencode.RawMessage) ([]tracker.Peer, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == 'l' {
		return parsePeersDictionary(raw)
	}
	var b []byte
	if err := bencode.DecodeBytes(raw, &b); err != nil {
		return nil, tracker.ErrDecode
	}
	return parsePeersBinary(b)
}

func parsePeersDictionary(raw bencode.RawMessage) ([]tracker.Peer, error) {
	var entries []struct {
		IP   string `bencode:"ip"`
		ID   string `bencode:"peer id"`
		Port uint16 `bencode:"port"`
	}
	if err := bencode.DecodeBytes(raw, &entries); err != nil {
		return nil, tracker.ErrDecode
	}
	peers := make([]tracker.Peer, len(entries))
	for i, e := range entries {
		peers[i] = tracker.Peer{IP: e.IP, Port: e.Port, ID: e.ID}
	}
	return peers, nil
}

func parsePeersBinary(b []byte) ([]tracker.Peer, error) {
	if len(b)%6 != 0 {
		return nil, tracker.ErrDecode
	}
	peers := make([]tracker.Peer, 0, len(b)/6)
	for i := 0; i < len(b); i += 6 {
		ip := net.IP(b[i : i+4])
		port := uint16(b[i+4])<<8 | uint16(b[i+5])
		peers = append(peers, tracker.Peer{IP: ip.String(), Port: port})
	}
	return peers, nil
}
