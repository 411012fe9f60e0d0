package beaconrpc_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	beacon "github.com/bitbeacon/beacon"
	"github.com/bitbeacon/beacon/beaconrpc"
)

const testInfoHash = "0102030405060708090a0b0c0d0e0f1011121314"

func TestServer(t *testing.T) {
	trackerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("d8:completei5e10:incompletei3e8:intervali300e5:peersld2:ip7:1.2.3.47:peer id2:P14:porti6881eeee"))
	}))
	defer trackerSrv.Close()

	cfg := beacon.DefaultConfig
	cfg.RPC.Port = 0
	srv, err := beaconrpc.NewServer(cfg)
	require.NoError(t, err)
	go func() { _ = srv.ListenAndServe() }()
	defer srv.Close()

	clt := beaconrpc.NewClient("http://" + srv.Addr().String() + "/")
	defer clt.Close()

	_, err = clt.AddSession(trackerSrv.URL+"/announce", testInfoHash, 1000)
	require.NoError(t, err)

	list, err := clt.ListSessions()
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, testInfoHash, list.Sessions[0].InfoHash)

	require.NoError(t, clt.StartSession(testInfoHash))

	require.Eventually(t, func() bool {
		stats, err := clt.GetSessionStats(testInfoHash)
		return err == nil && stats.Stats.State == "armed"
	}, 5*time.Second, 10*time.Millisecond)

	stats, err := clt.GetSessionStats(testInfoHash)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Stats.Seeders)
	assert.Equal(t, int64(3), stats.Stats.Leechers)
	assert.Equal(t, int64(300), stats.Stats.NextAnnounceIn)

	peers, err := clt.GetSessionPeers(testInfoHash)
	require.NoError(t, err)
	require.Len(t, peers.Peers, 1)
	assert.Equal(t, beaconrpc.Peer{IP: "1.2.3.4", Port: 6881, PeerID: "P1"}, peers.Peers[0])

	require.NoError(t, clt.StopSession(testInfoHash))
	list, err = clt.ListSessions()
	require.NoError(t, err)
	assert.Empty(t, list.Sessions)

	// unknown session
	err = clt.StartSession("ffffffffffffffffffffffffffffffffffffffff")
	assert.Error(t, err)
}

func TestBadInfoHash(t *testing.T) {
	cfg := beacon.DefaultConfig
	cfg.RPC.Port = 0
	srv, err := beaconrpc.NewServer(cfg)
	require.NoError(t, err)
	go func() { _ = srv.ListenAndServe() }()
	defer srv.Close()

	clt := beaconrpc.NewClient("http://" + srv.Addr().String() + "/")
	defer clt.Close()

	_, err = clt.AddSession("http://tracker.example.com/announce", "not-hex", 0)
	assert.Error(t, err)
}
