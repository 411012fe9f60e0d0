package httptracker

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitbeacon/beacon/internal/tracker"
)

func newTestTracker(t *testing.T, rawURL string) *HTTPTracker {
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return New(rawURL, u, 2*time.Second, new(http.Transport), "beacon/test", 2*1024*1024)
}

func testTorrent() tracker.Torrent {
	var ih, pid [20]byte
	copy(ih[:], "\x00\x01binary hash bytes\xff\xfe")
	copy(pid[:], "-BN0001-123456789012")
	return tracker.Torrent{
		InfoHash:        ih,
		PeerID:          pid,
		BytesUploaded:   100,
		BytesDownloaded: 200,
		BytesLeft:       300,
		Port:            6881,
	}
}

func TestAnnounceURLOrder(t *testing.T) {
	trk := newTestTracker(t, "http://tracker.example.com/announce")
	u := trk.announceURL(tracker.AnnounceRequest{Torrent: testTorrent(), Event: tracker.EventStarted})

	base, query, found := strings.Cut(u, "?")
	require.True(t, found)
	assert.Equal(t, "http://tracker.example.com/announce", base)

	keys := make([]string, 0)
	for _, kv := range strings.Split(query, "&") {
		k, _, _ := strings.Cut(kv, "=")
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"info_hash", "peer_id", "uploaded", "downloaded", "left", "port", "event"}, keys)
	assert.True(t, strings.HasSuffix(u, "&event=started"))
}

func TestAnnounceURLNoEvent(t *testing.T) {
	trk := newTestTracker(t, "http://tracker.example.com/announce")
	u := trk.announceURL(tracker.AnnounceRequest{Torrent: testTorrent()})
	assert.NotContains(t, u, "event=")
	assert.True(t, strings.HasSuffix(u, "&port=6881"))
}

func TestAnnounceURLTrackerID(t *testing.T) {
	trk := newTestTracker(t, "http://tracker.example.com/announce")
	u := trk.announceURL(tracker.AnnounceRequest{Torrent: testTorrent(), Event: tracker.EventCompleted, TrackerID: "abc def"})
	assert.True(t, strings.HasSuffix(u, "&event=completed&trackerid=abc%20def"))
}

func TestAnnounceURLValues(t *testing.T) {
	trk := newTestTracker(t, "http://tracker.example.com/announce")
	u := trk.announceURL(tracker.AnnounceRequest{Torrent: testTorrent()})
	_, query, _ := strings.Cut(u, "?")
	values, err := url.ParseQuery(query)
	require.NoError(t, err)
	assert.Equal(t, "100", values.Get("uploaded"))
	assert.Equal(t, "200", values.Get("downloaded"))
	assert.Equal(t, "300", values.Get("left"))
	assert.Equal(t, "6881", values.Get("port"))
}

// Percent-encoding must round-trip arbitrary identity bytes exactly.
func TestEscapeRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("-BN0001-123456789012"),
		[]byte("\x00\x01\x02 \x7f\x80\xff++&=?~._-abcXYZ"),
		func() []byte {
			b := make([]byte, 256)
			for i := range b {
				b[i] = byte(i)
			}
			return b
		}(),
	}
	for _, c := range cases {
		escaped := escape(c)
		// escape never emits '+', so QueryUnescape is an exact inverse.
		assert.NotContains(t, escaped, "+")
		decoded, err := url.QueryUnescape(escaped)
		require.NoError(t, err)
		assert.Equal(t, c, []byte(decoded))
	}
}
