// Package trackermanager shares a single HTTP transport among tracker clients.
package trackermanager

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bitbeacon/beacon/internal/tracker"
	"github.com/bitbeacon/beacon/internal/tracker/httptracker"
)

// TrackerManager returns the same Tracker instance for the same URL so
// sessions for different swarms on the same tracker share connections.
type TrackerManager struct {
	httpTransport *http.Transport
	trackers      map[string]tracker.Tracker
	m             sync.Mutex
}

func New() *TrackerManager {
	return &TrackerManager{
		httpTransport: new(http.Transport),
		trackers:      make(map[string]tracker.Tracker),
	}
}

// Get returns a Tracker for the URL, creating it on first use.
// Only http and https schemes are supported.
func (m *TrackerManager) Get(s string, httpTimeout time.Duration, httpUserAgent string, httpMaxResponseLength int64) (tracker.Tracker, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if t, ok := m.trackers[s]; ok {
		return t, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		t := httptracker.New(s, u, httpTimeout, m.httpTransport, httpUserAgent, httpMaxResponseLength)
		m.trackers[s] = t
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported tracker scheme: %s", u.Scheme)
	}
}

// Close releases idle connections held by the shared transport.
func (m *TrackerManager) Close() {
	m.httpTransport.CloseIdleConnections()
}
