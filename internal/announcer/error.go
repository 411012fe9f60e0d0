package announcer

import (
	"net"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/bitbeacon/beacon/internal/tracker"
	"github.com/bitbeacon/beacon/internal/tracker/httptracker"
)

// AnnounceError wraps a transport error with a message suitable for the
// control sink.
type AnnounceError struct {
	Err     error
	Message string
	Unknown bool
}

func newAnnounceError(err error) (e *AnnounceError) {
	e = &AnnounceError{Err: err}
	switch err := err.(type) {
	case *net.DNSError:
		s := err.Error()
		if strings.HasSuffix(s, "no such host") {
			e.Message = "host not found: " + err.Name
			return
		}
	case *url.Error:
		s := err.Error()
		if strings.HasSuffix(s, "connection refused") {
			e.Message = "tracker refused the connection"
			return
		}
	case *httptracker.StatusError:
		e.Message = "tracker returned http status: " + strconv.Itoa(err.Code)
		return
	case *tracker.Error:
		e.Message = "announce error: " + err.FailureReason
		return
	}
	e.Message = "unknown error in announce: " + err.Error()
	e.Unknown = true
	return
}

func (e *AnnounceError) ErrorWithType() string {
	return reflect.TypeOf(e.Err).String() + ": " + e.Err.Error()
}
