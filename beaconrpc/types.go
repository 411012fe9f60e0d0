// Package beaconrpc provides a JSON-RPC 2.0 server and client for
// controlling announce sessions remotely.
package beaconrpc

// Session identifies a live announce session.
type Session struct {
	InfoHash   string // hex encoded
	TrackerURL string
}

// SessionStats is the wire form of a session snapshot.
type SessionStats struct {
	State          string
	Seeders        int64
	Leechers       int64
	TrackerID      string
	LastError      string
	NextAnnounceIn int64 // seconds
	PeerAddresses  int
}

// Peer is the wire form of a collected peer address.
type Peer struct {
	IP     string
	Port   uint16
	PeerID string
}

type ListSessionsRequest struct {
}

type ListSessionsResponse struct {
	Sessions []Session
}

type AddSessionRequest struct {
	TrackerURL string
	InfoHash   string // hex encoded, 40 characters
	BytesLeft  int64
}

type AddSessionResponse struct {
	Session Session
}

type StartSessionRequest struct {
	InfoHash string
}

type StartSessionResponse struct {
}

type StopSessionRequest struct {
	InfoHash string
}

type StopSessionResponse struct {
}

type CompletedSessionRequest struct {
	InfoHash string
}

type CompletedSessionResponse struct {
}

type AnnounceSessionRequest struct {
	InfoHash string
}

type AnnounceSessionResponse struct {
}

type GetSessionStatsRequest struct {
	InfoHash string
}

type GetSessionStatsResponse struct {
	Stats SessionStats
}

type GetSessionPeersRequest struct {
	InfoHash string
}

type GetSessionPeersResponse struct {
	Peers []Peer
}
