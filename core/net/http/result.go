package http

import (
	"strconv"

	"github.com/kochabx/coresdk/errors"
)

// Result is the outcome of one request: success with data, or failure with a
// diagnostic message. It is never modified after construction.
type Result struct {
	statusCode int // 0 means the request never got a response
	hasError   bool
	message    string
	data       any
	kind       FailureKind
	cause      error

	verb      Verb
	uri       string
	requestID string
}

// OK creates a successful Result.
func OK(statusCode int, data any) *Result {
	return &Result{statusCode: statusCode, data: data}
}

// Fail creates a failed Result and reports it to sink before returning.
// A statusCode of 0 means no status is known.
func Fail(sink Sink, kind FailureKind, statusCode int, message string, data any) *Result {
	return newFailure(sink, failure{kind: kind, statusCode: statusCode, message: message, data: data})
}

type failure struct {
	kind       FailureKind
	statusCode int
	message    string
	data       any
	cause      error
	verb       Verb
	uri        string
	requestID  string
}

func newFailure(sink Sink, f failure) *Result {
	if f.kind == KindNone {
		f.kind = KindUnknown
	}
	if f.message == "" {
		f.message = f.kind.Message()
	}

	if sink != nil {
		sink.Record(Record{
			Kind:       f.kind,
			StatusCode: f.statusCode,
			Message:    f.message,
			Verb:       f.verb,
			URI:        f.uri,
			RequestID:  f.requestID,
			Cause:      f.cause,
		})
	}

	return &Result{
		statusCode: f.statusCode,
		hasError:   true,
		message:    f.message,
		data:       f.data,
		kind:       f.kind,
		cause:      f.cause,
		verb:       f.verb,
		uri:        f.uri,
		requestID:  f.requestID,
	}
}

// StatusCode returns the HTTP status and whether one was received.
func (r *Result) StatusCode() (int, bool) {
	return r.statusCode, r.statusCode != 0
}

func (r *Result) HasError() bool {
	return r.hasError
}

func (r *Result) ErrorMessage() string {
	return r.message
}

// Data returns the decoded JSON value, the raw body text, or nil.
func (r *Result) Data() any {
	return r.data
}

func (r *Result) Kind() FailureKind {
	return r.kind
}

// Cause returns the transport or decoding error behind a failure.
func (r *Result) Cause() error {
	return r.cause
}

// RequestID returns the X-Request-Id sent with the request, if any.
func (r *Result) RequestID() string {
	return r.requestID
}

// Err returns nil on success, otherwise an *errors.Error describing the failure.
func (r *Result) Err() error {
	if !r.hasError {
		return nil
	}

	code := r.statusCode
	if code == 0 {
		code = r.kind.code()
	}

	md := map[string]string{"kind": r.kind.String()}
	if r.uri != "" {
		md["uri"] = r.uri
	}
	if r.verb != "" {
		md["method"] = string(r.verb)
	}
	if r.statusCode != 0 {
		md["status_code"] = strconv.Itoa(r.statusCode)
	}

	return errors.New(code, "%s", r.kind.Message()).
		WithMetadata(md).
		WithCause(r.cause)
}
