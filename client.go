package beacon

import (
	"encoding/hex"
	"errors"
	"sync"

	"github.com/bitbeacon/beacon/internal/counters"
	"github.com/bitbeacon/beacon/internal/dispatcher"
	"github.com/bitbeacon/beacon/internal/logger"
	"github.com/bitbeacon/beacon/internal/peerlist"
	"github.com/bitbeacon/beacon/internal/trackermanager"
)

var errSessionExists = errors.New("session exists for this info hash")

// Client owns the peer identity and the announce sessions of this process.
type Client struct {
	config   Config
	peerID   [20]byte
	trackers *trackermanager.TrackerManager
	log      logger.Logger

	m        sync.Mutex
	sessions map[[20]byte]*Session
}

// New returns a new Client with a freshly generated peer id.
func New(cfg Config) (*Client, error) {
	peerID, err := generatePeerID()
	if err != nil {
		return nil, err
	}
	return &Client{
		config:   cfg,
		peerID:   peerID,
		trackers: trackermanager.New(),
		log:      logger.New("beacon client"),
		sessions: make(map[[20]byte]*Session),
	}, nil
}

// PeerID reported to trackers. Unique per Client instance.
func (c *Client) PeerID() [20]byte { return c.peerID }

// SessionOptions describe a swarm to announce.
type SessionOptions struct {
	TrackerURL string
	InfoHash   [20]byte

	// BytesLeft is the initial value of the "left" counter.
	BytesLeft int64

	// Sinks receiving interpreted announce results. Peers defaults to a
	// built-in peer list, Stats to session-state bookkeeping only, and
	// Control to the session's logger.
	Peers   PeerSink
	Stats   StatsSink
	Control ControlSink
}

// AddSession creates a session for a swarm and starts its actor goroutine.
// The session stays idle until Start is called on it.
func (c *Client) AddSession(opts SessionOptions) (*Session, error) {
	trk, err := c.trackers.Get(opts.TrackerURL, c.config.HTTPTimeout, c.config.UserAgent, c.config.MaxResponseLength)
	if err != nil {
		return nil, err
	}

	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.sessions[opts.InfoHash]; ok {
		return nil, errSessionExists
	}

	s := &Session{
		client:   c,
		infoHash: opts.InfoHash,
		log:      logger.New("session " + hex.EncodeToString(opts.InfoHash[:6])),
		counters: counters.New(0, 0, opts.BytesLeft),
	}
	peers := opts.Peers
	if peers == nil {
		s.peerList = peerlist.New(c.config.MaxPeerAddresses)
		peers = s.peerList
	}
	stats := opts.Stats
	if stats == nil {
		stats = discardStats{}
	}
	control := opts.Control
	if control == nil {
		control = logControl{log: s.log}
	}
	d := dispatcher.New(peers, stats, control)
	s.announcer = newSessionAnnouncer(c, s, trk, d)
	c.sessions[opts.InfoHash] = s
	go s.announcer.Run()
	return s, nil
}

// Session returns the session tracking the given info hash, or nil.
func (c *Client) Session(infoHash [20]byte) *Session {
	c.m.Lock()
	defer c.m.Unlock()
	return c.sessions[infoHash]
}

// Sessions returns all live sessions.
func (c *Client) Sessions() []*Session {
	c.m.Lock()
	defer c.m.Unlock()
	ret := make([]*Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		ret = append(ret, s)
	}
	return ret
}

func (c *Client) removeSession(infoHash [20]byte) {
	c.m.Lock()
	delete(c.sessions, infoHash)
	c.m.Unlock()
}

// Close stops every session, announcing their stopped events, and releases
// shared transport resources.
func (c *Client) Close() {
	for _, s := range c.Sessions() {
		s.Stop()
	}
	c.trackers.Close()
}
