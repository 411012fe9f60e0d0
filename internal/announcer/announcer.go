// Package announcer drives periodic and event announces for a single swarm.
package announcer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v3"

	"github.com/bitbeacon/beacon/internal/dispatcher"
	"github.com/bitbeacon/beacon/internal/logger"
	"github.com/bitbeacon/beacon/internal/tracker"
)

// State of the announcer.
type State int

const (
	// Idle indicates that the session has not been started yet.
	Idle State = iota
	// Armed indicates that the session is awaiting the next scheduled
	// contact or an external trigger.
	Armed
	// Terminated indicates that the final "stopped" announce has been
	// attempted and no further contact will be made.
	Terminated
)

// PeriodicAnnouncer is a single sequential actor per tracked swarm.
// Commands are processed one at a time in arrival order; the actor is
// blocked for the duration of each tracker request. At most one scheduled
// wake-up is outstanding; arming a new one supersedes the old, enforced by
// a schedule generation counter compared at wake-up time.
type PeriodicAnnouncer struct {
	trk                 tracker.Tracker
	dispatcher          *dispatcher.Dispatcher
	getTorrent          func() tracker.Torrent
	stoppedEventTimeout time.Duration
	log                 logger.Logger
	backoff             backoff.BackOff

	state        State
	trackerID    string
	interval     time.Duration
	nextIn       time.Duration
	seeders      int64
	leechers     int64
	lastError    error
	lastAnnounce time.Time
	finalSent    bool

	gen   uint64
	timer *time.Timer

	wakeupC    chan uint64
	startC     chan struct{}
	completedC chan struct{}
	announceC  chan struct{}
	stopReqC   chan chan struct{}
	statsC     chan statsRequest
	doneC      chan struct{}
}

func New(trk tracker.Tracker, d *dispatcher.Dispatcher, getTorrent func() tracker.Torrent, stoppedEventTimeout time.Duration, l logger.Logger) *PeriodicAnnouncer {
	return &PeriodicAnnouncer{
		trk:                 trk,
		dispatcher:          d,
		getTorrent:          getTorrent,
		stoppedEventTimeout: stoppedEventTimeout,
		log:                 l,
		state:               Idle,
		interval:            tracker.DefaultInterval,
		seeders:             tracker.StatsUnknown,
		leechers:            tracker.StatsUnknown,
		wakeupC:             make(chan uint64),
		startC:              make(chan struct{}),
		completedC:          make(chan struct{}),
		announceC:           make(chan struct{}),
		stopReqC:            make(chan chan struct{}),
		statsC:              make(chan statsRequest),
		doneC:               make(chan struct{}),
		backoff: &backoff.ExponentialBackOff{
			InitialInterval:     5 * time.Second,
			RandomizationFactor: 0.5,
			Multiplier:          2,
			MaxInterval:         30 * time.Minute,
			MaxElapsedTime:      0, // never stop
			Clock:               backoff.SystemClock,
		},
	}
}

// Start arms the session and announces the "started" event.
func (a *PeriodicAnnouncer) Start() {
	select {
	case a.startC <- struct{}{}:
	case <-a.doneC:
	}
}

// Completed announces the "completed" event.
func (a *PeriodicAnnouncer) Completed() {
	select {
	case a.completedC <- struct{}{}:
	case <-a.doneC:
	}
}

// Announce forces an out-of-schedule announce without an event tag.
func (a *PeriodicAnnouncer) Announce() {
	select {
	case a.announceC <- struct{}{}:
	case <-a.doneC:
	}
}

// Stop announces the "stopped" event and terminates the announcer.
// It returns after the final announce has been attempted. Stop always
// succeeds from the caller's perspective, even if that announce fails
// over the network.
func (a *PeriodicAnnouncer) Stop() {
	done := make(chan struct{})
	select {
	case a.stopReqC <- done:
		<-done
	case <-a.doneC:
	}
}

type statsRequest struct {
	response chan Stats
}

// Stats about the announcer.
type Stats struct {
	State        State
	Seeders      int64
	Leechers     int64
	TrackerID    string
	LastError    error
	LastAnnounce time.Time
	// NextAnnounceIn is the delay armed on the most recent schedule.
	NextAnnounceIn time.Duration
}

// Stats returns a snapshot of the announcer state.
// The zero Stats is returned after the announcer has terminated.
func (a *PeriodicAnnouncer) Stats() Stats {
	var stats Stats
	req := statsRequest{response: make(chan Stats, 1)}
	select {
	case a.statsC <- req:
		stats = <-req.response
	case <-a.doneC:
	}
	return stats
}

// Run processes commands until Stop. Must be called in its own goroutine.
func (a *PeriodicAnnouncer) Run() {
	defer close(a.doneC)
	a.backoff.Reset()
	for {
		select {
		case <-a.startC:
			if a.state != Idle {
				break
			}
			a.state = Armed
			a.announce(tracker.EventStarted)
		case <-a.completedC:
			if a.state != Armed {
				break
			}
			a.announce(tracker.EventCompleted)
		case <-a.announceC:
			if a.state != Armed {
				break
			}
			a.announce(tracker.EventNone)
		case gen := <-a.wakeupC:
			if a.state != Armed || gen != a.gen {
				// A newer schedule has superseded this wake-up.
				break
			}
			a.announce(tracker.EventNone)
		case req := <-a.statsC:
			req.response <- a.stats()
		case done := <-a.stopReqC:
			a.terminate()
			done <- struct{}{}
			return
		}
	}
}

func (a *PeriodicAnnouncer) announce(e tracker.Event) {
	req := tracker.AnnounceRequest{
		Torrent:   a.getTorrent(),
		Event:     e,
		TrackerID: a.trackerID,
	}
	resp, err := a.trk.Announce(context.Background(), req)
	a.lastAnnounce = time.Now()
	switch {
	case err == nil:
		a.backoff.Reset()
		a.handleResponse(resp)
	case tracker.IsTimeout(err):
		// Tracker id and last-known statistics stay untouched.
		a.lastError = err
		a.log.Errorln("announce timeout:", err)
		a.schedule(tracker.TimeoutInterval)
	default:
		a.lastError = err
		ae := newAnnounceError(err)
		if ae.Unknown {
			a.log.Errorln("announce error:", ae.ErrorWithType())
		} else {
			a.log.Debugln("announce error:", ae.Err.Error())
		}
		a.dispatcher.ReportError(ae.Message)
		a.schedule(a.backoff.NextBackOff())
	}
}

// handleResponse applies the precedence policy among error, warning and
// normal outcomes. Interval and tracker id apply in every branch.
func (a *PeriodicAnnouncer) handleResponse(resp *tracker.AnnounceResponse) {
	a.interval = resp.Interval
	if resp.TrackerID != "" {
		a.trackerID = resp.TrackerID
	}
	switch {
	case resp.FailureReason != "":
		a.lastError = &tracker.Error{FailureReason: resp.FailureReason}
		a.dispatcher.ReportError(resp.FailureReason)
	case resp.WarningMessage != "":
		a.lastError = nil
		a.dispatcher.ReportWarning(resp.WarningMessage)
		a.dispatchResult(resp)
	default:
		a.lastError = nil
		a.dispatchResult(resp)
	}
	a.schedule(a.interval)
}

func (a *PeriodicAnnouncer) dispatchResult(resp *tracker.AnnounceResponse) {
	a.seeders = resp.Seeders
	a.leechers = resp.Leechers
	a.dispatcher.AddPeers(resp.Peers)
	a.dispatcher.ReportStats(resp.Seeders, resp.Leechers)
}

func (a *PeriodicAnnouncer) schedule(d time.Duration) {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.nextIn = d
	a.timer = time.AfterFunc(d, func() {
		select {
		case a.wakeupC <- gen:
		case <-a.doneC:
		}
	})
}

func (a *PeriodicAnnouncer) terminate() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	if !a.finalSent {
		a.finalSent = true
		ctx, cancel := context.WithTimeout(context.Background(), a.stoppedEventTimeout)
		req := tracker.AnnounceRequest{
			Torrent:   a.getTorrent(),
			Event:     tracker.EventStopped,
			TrackerID: a.trackerID,
		}
		_, err := a.trk.Announce(ctx, req)
		cancel()
		if err != nil {
			// The outcome does not affect the reply to the caller.
			a.log.Debugln("stopped announce failed:", err)
		}
	}
	a.state = Terminated
}

func (a *PeriodicAnnouncer) stats() Stats {
	return Stats{
		State:          a.state,
		Seeders:        a.seeders,
		Leechers:       a.leechers,
		TrackerID:      a.trackerID,
		LastError:      a.lastError,
		LastAnnounce:   a.lastAnnounce,
		NextAnnounceIn: a.nextIn,
	}
}
