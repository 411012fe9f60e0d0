package tracker

import (
	"context"
	"errors"
	"net"
)

// IsTimeout reports whether a transport failure was caused by a connect or
// response deadline being exceeded. Every other transport error (DNS
// failure, connection refused, malformed HTTP, unexpected status) is not a
// timeout and must be handled by the caller's failure policy.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
