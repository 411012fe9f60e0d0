package httptracker

import (
	"strconv"
	"strings"

	"github.com/bitbeacon/beacon/internal/tracker"
)

// announceURL builds the announce query by hand instead of url.Values
// because some trackers parse the query naively and expect the standard
// parameter order: info_hash, peer_id, uploaded, downloaded, left, port,
// then event. trackerid, when known, is appended after event.
func (t *HTTPTracker) announceURL(req tracker.AnnounceRequest) string {
	var b strings.Builder
	b.WriteString(t.rawURL)
	if strings.ContainsRune(t.rawURL, '?') {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString("info_hash=")
	b.WriteString(escape(req.Torrent.InfoHash[:]))
	b.WriteString("&peer_id=")
	b.WriteString(escape(req.Torrent.PeerID[:]))
	b.WriteString("&uploaded=")
	b.WriteString(strconv.FormatInt(req.Torrent.BytesUploaded, 10))
	b.WriteString("&downloaded=")
	b.WriteString(strconv.FormatInt(req.Torrent.BytesDownloaded, 10))
	b.WriteString("&left=")
	b.WriteString(strconv.FormatInt(req.Torrent.BytesLeft, 10))
	b.WriteString("&port=")
	b.WriteString(strconv.Itoa(req.Torrent.Port))
	if req.Event != tracker.EventNone {
		b.WriteString("&event=")
		b.WriteString(req.Event.String())
	}
	if req.TrackerID != "" {
		b.WriteString("&trackerid=")
		b.WriteString(escape([]byte(req.TrackerID)))
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// escape percent-encodes every byte outside the unreserved set.
// info_hash and peer_id are raw byte strings, so url.QueryEscape is not
// usable here: it turns 0x20 into '+'.
func escape(s []byte) string {
	var b strings.Builder
	for _, c := range s {
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
			c == '.' || c == '-' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}
	return b.String()
}
