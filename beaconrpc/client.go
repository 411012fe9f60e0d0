package beaconrpc

import (
	"github.com/powerman/rpc-codec/jsonrpc2"
)

type Client struct {
	client *jsonrpc2.Client
}

// NewClient connects to a beaconrpc server at url, e.g.
// "http://127.0.0.1:7357/".
func NewClient(url string) *Client {
	return &Client{client: jsonrpc2.NewHTTPClient(url)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) ListSessions() (*ListSessionsResponse, error) {
	var reply ListSessionsResponse
	return &reply, c.client.Call("Client.ListSessions", ListSessionsRequest{}, &reply)
}

func (c *Client) AddSession(trackerURL, infoHash string, bytesLeft int64) (*AddSessionResponse, error) {
	args := AddSessionRequest{TrackerURL: trackerURL, InfoHash: infoHash, BytesLeft: bytesLeft}
	var reply AddSessionResponse
	return &reply, c.client.Call("Client.AddSession", args, &reply)
}

func (c *Client) StartSession(infoHash string) error {
	var reply StartSessionResponse
	return c.client.Call("Client.StartSession", StartSessionRequest{InfoHash: infoHash}, &reply)
}

func (c *Client) StopSession(infoHash string) error {
	var reply StopSessionResponse
	return c.client.Call("Client.StopSession", StopSessionRequest{InfoHash: infoHash}, &reply)
}

func (c *Client) CompletedSession(infoHash string) error {
	var reply CompletedSessionResponse
	return c.client.Call("Client.CompletedSession", CompletedSessionRequest{InfoHash: infoHash}, &reply)
}

func (c *Client) AnnounceSession(infoHash string) error {
	var reply AnnounceSessionResponse
	return c.client.Call("Client.AnnounceSession", AnnounceSessionRequest{InfoHash: infoHash}, &reply)
}

func (c *Client) GetSessionStats(infoHash string) (*GetSessionStatsResponse, error) {
	var reply GetSessionStatsResponse
	return &reply, c.client.Call("Client.GetSessionStats", GetSessionStatsRequest{InfoHash: infoHash}, &reply)
}

func (c *Client) GetSessionPeers(infoHash string) (*GetSessionPeersResponse, error) {
	var reply GetSessionPeersResponse
	return &reply, c.client.Call("Client.GetSessionPeers", GetSessionPeersRequest{InfoHash: infoHash}, &reply)
}
