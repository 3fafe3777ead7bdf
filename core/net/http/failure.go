package http

import (
	"context"
	"net"
	"syscall"

	"github.com/kochabx/coresdk/errors"
)

// FailureKind classifies why a request did not produce a successful Result.
type FailureKind int

const (
	KindNone FailureKind = iota
	KindConnection
	KindTimeout
	KindTooManyRedirects
	KindHTTPStatus
	KindMalformedBody
	KindUnknown
)

// ErrTooManyRedirects is returned by the redirect policy once the limit is hit.
var ErrTooManyRedirects = errors.New(errors.UnknownCode, "stopped after too many redirects")

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindTooManyRedirects:
		return "too_many_redirects"
	case KindHTTPStatus:
		return "http_status"
	case KindMalformedBody:
		return "malformed_body"
	default:
		return "unknown"
	}
}

// Message returns the canonical description used as the prefix of error messages.
func (k FailureKind) Message() string {
	switch k {
	case KindNone:
		return ""
	case KindConnection:
		return "Could not connect to host."
	case KindTimeout:
		return "Request time out."
	case KindTooManyRedirects:
		return "Too many redirects."
	case KindHTTPStatus:
		return "Request failed."
	case KindMalformedBody:
		return "Response body is not a valid json."
	default:
		return "Request failed for unknown reason."
	}
}

// code maps the kind to an error code when the response carried none.
func (k FailureKind) code() int {
	switch k {
	case KindConnection:
		return 503
	case KindTimeout:
		return 504
	default:
		return errors.UnknownCode
	}
}

// classify maps a transport error to a FailureKind. Order matters: a dial that
// times out is a connection failure, not a timeout.
func classify(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case isConnectFailure(err):
		return KindConnection
	case isTimeout(err):
		return KindTimeout
	case errors.Is(err, ErrTooManyRedirects):
		return KindTooManyRedirects
	default:
		return KindUnknown
	}
}

func isConnectFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isErrorStatus reports whether code is in the 4xx/5xx range.
func isErrorStatus(code int) bool {
	return code >= 400 && code < 600
}
