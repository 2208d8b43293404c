package transport

import (
	"context"
	"errors"
	"net"
	"syscall"

	"pwooda/neulpum/internal/events"
)

// Synthesize maps a transport failure onto the stream's own error
// event, with a message matched to the failure category. The caller
// sends it as the turn's terminal event.
func Synthesize(err error) events.Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return events.Error{Message: "the chat service took too long to respond"}
	case errors.Is(err, context.Canceled):
		return events.Error{Message: "request cancelled"}
	case errors.Is(err, syscall.ECONNREFUSED):
		return events.Error{Message: "could not connect to the chat service"}
	case isUnreachable(err):
		return events.Error{Message: "the chat service is unreachable"}
	default:
		return events.Error{Message: "chat stream failed: " + err.Error()}
	}
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
