// Package httptracker provides an HTTP tracker client for announce requests.
package httptracker

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zeebo/bencode"

	"github.com/bitbeacon/beacon/internal/logger"
	"github.com/bitbeacon/beacon/internal/tracker"
)

type HTTPTracker struct {
	rawURL            string
	url               *url.URL
	log               logger.Logger
	http              *http.Client
	transport         *http.Transport
	userAgent         string
	maxResponseLength int64
}

var _ tracker.Tracker = (*HTTPTracker)(nil)

func New(rawURL string, u *url.URL, timeout time.Duration, t *http.Transport, userAgent string, maxResponseLength int64) *HTTPTracker {
	return &HTTPTracker{
		rawURL:            rawURL,
		url:               u,
		log:               logger.New("tracker " + rawURL),
		transport:         t,
		userAgent:         userAgent,
		maxResponseLength: maxResponseLength,
		http: &http.Client{
			Timeout:   timeout,
			Transport: t,
		},
	}
}

func (t *HTTPTracker) URL() string {
	return t.rawURL
}

// Announce builds the query from req, makes a single HTTP GET and interprets
// the bencoded reply. Protocol-level failure reasons and warnings are
// returned inside AnnounceResponse; only transport problems and undecodable
// bodies are returned as errors.
func (t *HTTPTracker) Announce(ctx context.Context, req tracker.AnnounceRequest) (*tracker.AnnounceResponse, error) {
	u := t.announceURL(req)
	t.log.Debugf("making request to: %q", u)

	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if t.userAgent != "" {
		hreq.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.http.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseLength))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Header: resp.Header,
			Body:   string(body),
		}
	}

	var response announceResponse
	if err = bencode.DecodeBytes(body, &response); err != nil {
		return nil, tracker.ErrDecode
	}
	ret, err := response.interpret()
	if err != nil {
		return nil, err
	}
	if ret.WarningMessage != "" {
		t.log.Warning(ret.WarningMessage)
	}
	if ret.FailureReason != "" {
		t.log.Errorln("announce failure:", ret.FailureReason)
	}
	return ret, nil
}

func (t *HTTPTracker) Close() error {
	t.transport.CloseIdleConnections()
	return nil
}
