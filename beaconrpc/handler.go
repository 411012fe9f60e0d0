package beaconrpc

import (
	"encoding/hex"
	"errors"
	"time"

	beacon "github.com/bitbeacon/beacon"
)

var errSessionNotFound = errors.New("session not found")

type handler struct {
	client *beacon.Client
}

func parseInfoHash(s string) ([20]byte, error) {
	var ih [20]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return ih, err
	}
	if len(b) != 20 {
		return ih, errors.New("info hash must be 20 bytes")
	}
	copy(ih[:], b)
	return ih, nil
}

func (h *handler) session(infoHash string) (*beacon.Session, error) {
	ih, err := parseInfoHash(infoHash)
	if err != nil {
		return nil, err
	}
	s := h.client.Session(ih)
	if s == nil {
		return nil, errSessionNotFound
	}
	return s, nil
}

func (h *handler) ListSessions(args *ListSessionsRequest, reply *ListSessionsResponse) error {
	sessions := h.client.Sessions()
	reply.Sessions = make([]Session, 0, len(sessions))
	for _, s := range sessions {
		ih := s.InfoHash()
		reply.Sessions = append(reply.Sessions, Session{InfoHash: hex.EncodeToString(ih[:])})
	}
	return nil
}

func (h *handler) AddSession(args *AddSessionRequest, reply *AddSessionResponse) error {
	ih, err := parseInfoHash(args.InfoHash)
	if err != nil {
		return err
	}
	_, err = h.client.AddSession(beacon.SessionOptions{
		TrackerURL: args.TrackerURL,
		InfoHash:   ih,
		BytesLeft:  args.BytesLeft,
	})
	if err != nil {
		return err
	}
	reply.Session = Session{InfoHash: args.InfoHash, TrackerURL: args.TrackerURL}
	return nil
}

func (h *handler) StartSession(args *StartSessionRequest, reply *StartSessionResponse) error {
	s, err := h.session(args.InfoHash)
	if err != nil {
		return err
	}
	s.Start()
	return nil
}

func (h *handler) StopSession(args *StopSessionRequest, reply *StopSessionResponse) error {
	s, err := h.session(args.InfoHash)
	if err != nil {
		return err
	}
	s.Stop()
	return nil
}

func (h *handler) CompletedSession(args *CompletedSessionRequest, reply *CompletedSessionResponse) error {
	s, err := h.session(args.InfoHash)
	if err != nil {
		return err
	}
	s.Completed()
	return nil
}

func (h *handler) AnnounceSession(args *AnnounceSessionRequest, reply *AnnounceSessionResponse) error {
	s, err := h.session(args.InfoHash)
	if err != nil {
		return err
	}
	s.Announce()
	return nil
}

func (h *handler) GetSessionStats(args *GetSessionStatsRequest, reply *GetSessionStatsResponse) error {
	s, err := h.session(args.InfoHash)
	if err != nil {
		return err
	}
	stats := s.Stats()
	reply.Stats = SessionStats{
		State:          stats.State.String(),
		Seeders:        stats.Seeders,
		Leechers:       stats.Leechers,
		TrackerID:      stats.TrackerID,
		NextAnnounceIn: int64(stats.NextAnnounceIn / time.Second),
		PeerAddresses:  stats.PeerAddresses,
	}
	if stats.LastError != nil {
		reply.Stats.LastError = stats.LastError.Error()
	}
	return nil
}

func (h *handler) GetSessionPeers(args *GetSessionPeersRequest, reply *GetSessionPeersResponse) error {
	s, err := h.session(args.InfoHash)
	if err != nil {
		return err
	}
	peers := s.Peers()
	reply.Peers = make([]Peer, 0, len(peers))
	for _, p := range peers {
		reply.Peers = append(reply.Peers, Peer{IP: p.IP, Port: p.Port, PeerID: p.ID})
	}
	return nil
}
