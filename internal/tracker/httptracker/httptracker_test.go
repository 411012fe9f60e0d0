package httptracker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	fhttp "github.com/chihaya/chihaya/frontend/http"
	"github.com/chihaya/chihaya/middleware"
	"github.com/chihaya/chihaya/storage"
	_ "github.com/chihaya/chihaya/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitbeacon/beacon/internal/tracker"
	"github.com/bitbeacon/beacon/internal/tracker/httptracker"
)

const timeout = 2 * time.Second

func serveBody(t *testing.T, body string) (*httptracker.HTTPTracker, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	u, err := url.Parse(srv.URL + "/announce")
	require.NoError(t, err)
	trk := httptracker.New(u.String(), u, timeout, new(http.Transport), "beacon/test", 2*1024*1024)
	return trk, srv.Close
}

func announce(t *testing.T, trk *httptracker.HTTPTracker) *tracker.AnnounceResponse {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	resp, err := trk.Announce(ctx, tracker.AnnounceRequest{Torrent: tracker.Torrent{Port: 6881}})
	require.NoError(t, err)
	return resp
}

func TestAnnounceFullResponse(t *testing.T) {
	trk, stop := serveBody(t, "d8:completei10e10:incompletei2e8:intervali900e5:peersld2:ip7:1.2.3.47:peer id2:P14:porti6881eeee")
	defer stop()
	resp := announce(t, trk)
	assert.Equal(t, 900*time.Second, resp.Interval)
	assert.Equal(t, int64(10), resp.Seeders)
	assert.Equal(t, int64(2), resp.Leechers)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, tracker.Peer{IP: "1.2.3.4", Port: 6881, ID: "P1"}, resp.Peers[0])
	assert.Empty(t, resp.FailureReason)
	assert.Empty(t, resp.WarningMessage)
}

func TestAnnounceIntervalDefaults(t *testing.T) {
	// absent
	trk, stop := serveBody(t, "de")
	defer stop()
	resp := announce(t, trk)
	assert.Equal(t, tracker.DefaultInterval, resp.Interval)
	assert.Equal(t, tracker.StatsUnknown, resp.Seeders)
	assert.Equal(t, tracker.StatsUnknown, resp.Leechers)
	assert.Empty(t, resp.Peers)

	// wrong-typed
	trk2, stop2 := serveBody(t, "d8:interval4:soone")
	defer stop2()
	assert.Equal(t, tracker.DefaultInterval, announce(t, trk2).Interval)

	// non-positive
	trk3, stop3 := serveBody(t, "d8:intervali0ee")
	defer stop3()
	assert.Equal(t, tracker.DefaultInterval, announce(t, trk3).Interval)
}

func TestAnnounceFailureReason(t *testing.T) {
	trk, stop := serveBody(t, "d14:failure reason20:unregistered torrente")
	defer stop()
	resp := announce(t, trk)
	assert.Equal(t, "unregistered torrent", resp.FailureReason)
	assert.Equal(t, tracker.DefaultInterval, resp.Interval)
}

func TestAnnounceWarningMessage(t *testing.T) {
	trk, stop := serveBody(t, "d8:intervali120e15:warning message4:slow5:peersld2:ip7:1.2.3.47:peer id2:P14:porti6881eeee")
	defer stop()
	resp := announce(t, trk)
	assert.Equal(t, "slow", resp.WarningMessage)
	assert.Equal(t, 120*time.Second, resp.Interval)
	require.Len(t, resp.Peers, 1)
}

func TestAnnounceTrackerID(t *testing.T) {
	trk, stop := serveBody(t, "d8:intervali60e10:tracker id6:sessXYe")
	defer stop()
	assert.Equal(t, "sessXY", announce(t, trk).TrackerID)
}

func TestAnnounceBinaryPeers(t *testing.T) {
	trk, stop := serveBody(t, "d8:intervali60e5:peers6:\x01\x02\x03\x04\x1a\xe1e")
	defer stop()
	resp := announce(t, trk)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, tracker.Peer{IP: "1.2.3.4", Port: 6881}, resp.Peers[0])
}

func TestAnnounceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL + "/announce")
	require.NoError(t, err)
	trk := httptracker.New(u.String(), u, timeout, new(http.Transport), "beacon/test", 2*1024*1024)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err = trk.Announce(ctx, tracker.AnnounceRequest{Torrent: tracker.Torrent{Port: 6881}})
	var serr *httptracker.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Code)
	assert.False(t, tracker.IsTimeout(err))
}

func TestAnnounceUndecodableBody(t *testing.T) {
	trk, stop := serveBody(t, "this is not bencode")
	defer stop()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := trk.Announce(ctx, tracker.AnnounceRequest{Torrent: tracker.Torrent{Port: 6881}})
	require.ErrorIs(t, err, tracker.ErrDecode)
}

func trackerLogic(t *testing.T) *middleware.Logic {
	responseConfig := middleware.ResponseConfig{
		AnnounceInterval: time.Minute,
	}
	ps, err := storage.NewPeerStore("memory", map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	return middleware.NewLogic(responseConfig, ps, nil, nil)
}

func startTestTracker(t *testing.T) (stop func()) {
	lgc := trackerLogic(t)
	fe, err := fhttp.NewFrontend(lgc, fhttp.Config{
		Addr:         "127.0.0.1:5000",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		errC := fe.Stop()
		err := <-errC
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestHTTPTracker(t *testing.T) {
	defer startTestTracker(t)()

	const rawURL = "http://127.0.0.1:5000/announce"
	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	trk := httptracker.New(rawURL, u, timeout, new(http.Transport), "beacon/test", 2*1024*1024)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Seeder
	req := tracker.AnnounceRequest{
		Torrent: tracker.Torrent{
			InfoHash:  [20]byte{6},
			PeerID:    [20]byte{1},
			Port:      1111,
			BytesLeft: 0,
		},
	}
	_, err = trk.Announce(ctx, req)
	require.NoError(t, err)

	// Leecher
	req = tracker.AnnounceRequest{
		Torrent: tracker.Torrent{
			InfoHash:  [20]byte{6},
			PeerID:    [20]byte{2},
			Port:      2222,
			BytesLeft: 1,
		},
	}
	resp, err := trk.Announce(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, resp.Interval)
	assert.Empty(t, resp.FailureReason)
}
