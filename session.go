package beacon

import (
	"time"

	"github.com/bitbeacon/beacon/internal/announcer"
	"github.com/bitbeacon/beacon/internal/counters"
	"github.com/bitbeacon/beacon/internal/dispatcher"
	"github.com/bitbeacon/beacon/internal/logger"
	"github.com/bitbeacon/beacon/internal/peerlist"
	"github.com/bitbeacon/beacon/internal/tracker"
)

// Session announces one swarm to one tracker. All commands go through a
// single sequential actor; they are processed strictly in arrival order.
type Session struct {
	client    *Client
	infoHash  [20]byte
	counters  *counters.Counters
	announcer *announcer.PeriodicAnnouncer
	peerList  *peerlist.PeerList
	log       logger.Logger
}

func newSessionAnnouncer(c *Client, s *Session, trk tracker.Tracker, d *dispatcher.Dispatcher) *announcer.PeriodicAnnouncer {
	getTorrent := func() tracker.Torrent {
		return tracker.Torrent{
			InfoHash:        s.infoHash,
			PeerID:          c.peerID,
			Port:            c.config.Port,
			BytesUploaded:   s.counters.Uploaded(),
			BytesDownloaded: s.counters.Downloaded(),
			BytesLeft:       s.counters.Left(),
		}
	}
	return announcer.New(trk, d, getTorrent, c.config.StoppedEventTimeout, s.log)
}

// InfoHash of the tracked swarm.
func (s *Session) InfoHash() [20]byte { return s.infoHash }

// Start arms the session and announces the "started" event.
func (s *Session) Start() { s.announcer.Start() }

// Completed announces the "completed" event.
func (s *Session) Completed() { s.announcer.Completed() }

// Announce forces an out-of-schedule announce.
func (s *Session) Announce() { s.announcer.Announce() }

// Stop announces the "stopped" event and terminates the session.
// Stop always succeeds from the caller's perspective; a network failure of
// the final announce is logged and discarded.
func (s *Session) Stop() {
	s.announcer.Stop()
	s.client.removeSession(s.infoHash)
}

// AddUploaded increases the uploaded byte counter reported to the tracker.
func (s *Session) AddUploaded(n int64) { s.counters.IncUploaded(n) }

// AddDownloaded increases the downloaded byte counter reported to the tracker.
func (s *Session) AddDownloaded(n int64) { s.counters.IncDownloaded(n) }

// SetLeft sets the number of bytes left to download.
func (s *Session) SetLeft(n int64) { s.counters.SetLeft(n) }

// Peers returns the peers collected by the built-in sink, oldest first.
// It returns nil when the session was created with a custom peer sink.
func (s *Session) Peers() []Peer {
	if s.peerList == nil {
		return nil
	}
	return s.peerList.Peers()
}

// SessionState mirrors the announcer's lifecycle state.
type SessionState int

const (
	Idle SessionState = iota
	Armed
	Terminated
)

var stateNames = map[SessionState]string{
	Idle:       "idle",
	Armed:      "armed",
	Terminated: "terminated",
}

func (s SessionState) String() string { return stateNames[s] }

// SessionStats is a point-in-time snapshot of a session.
type SessionStats struct {
	State          SessionState
	Seeders        int64
	Leechers       int64
	TrackerID      string
	LastError      error
	LastAnnounce   time.Time
	NextAnnounceIn time.Duration
	PeerAddresses  int
}

// Stats returns a snapshot of the session.
func (s *Session) Stats() SessionStats {
	st := s.announcer.Stats()
	stats := SessionStats{
		State:          SessionState(st.State),
		Seeders:        st.Seeders,
		Leechers:       st.Leechers,
		TrackerID:      st.TrackerID,
		LastError:      st.LastError,
		LastAnnounce:   st.LastAnnounce,
		NextAnnounceIn: st.NextAnnounceIn,
	}
	if s.peerList != nil {
		stats.PeerAddresses = s.peerList.Len()
	}
	return stats
}
