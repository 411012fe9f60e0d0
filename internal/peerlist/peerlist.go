// Package peerlist collects peer addresses received from announce responses.
package peerlist

import (
	"net"
	"strconv"
	"sync"

	"github.com/bitbeacon/beacon/internal/tracker"
)

// PeerList is a bounded, deduplicating set of peer addresses.
// It implements the peer sink interface so it can be handed to a session
// directly; callers that do their own peer handling use their own sink.
type PeerList struct {
	m       sync.Mutex
	maxSize int
	order   []string
	peers   map[string]tracker.Peer
}

func New(maxSize int) *PeerList {
	return &PeerList{
		maxSize: maxSize,
		peers:   make(map[string]tracker.Peer),
	}
}

// AddPeers merges addrs into the list. A peer already in the list keeps its
// position. When the list is full the oldest entries are evicted first.
func (l *PeerList) AddPeers(peers []tracker.Peer) {
	l.m.Lock()
	defer l.m.Unlock()
	for _, p := range peers {
		if p.Port == 0 {
			continue
		}
		key := net.JoinHostPort(p.IP, strconv.Itoa(int(p.Port)))
		if _, ok := l.peers[key]; ok {
			l.peers[key] = p
			continue
		}
		for len(l.order) >= l.maxSize && len(l.order) > 0 {
			oldest := l.order[0]
			l.order = l.order[1:]
			delete(l.peers, oldest)
		}
		l.order = append(l.order, key)
		l.peers[key] = p
	}
}

// Peers returns a snapshot of the list, oldest first.
func (l *PeerList) Peers() []tracker.Peer {
	l.m.Lock()
	defer l.m.Unlock()
	ret := make([]tracker.Peer, 0, len(l.order))
	for _, key := range l.order {
		ret = append(ret, l.peers[key])
	}
	return ret
}

func (l *PeerList) Len() int {
	l.m.Lock()
	defer l.m.Unlock()
	return len(l.order)
}
