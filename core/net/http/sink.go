package http

import (
	"github.com/kochabx/coresdk/log"
)

// Record is the diagnostic emitted for every failed request.
type Record struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Verb       Verb
	URI        string
	RequestID  string
	Cause      error
}

// Sink receives diagnostic records.
type Sink interface {
	Record(Record)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Record)

func (f SinkFunc) Record(r Record) { f(r) }

type logSink struct {
	logger *log.Logger
}

// LogSink writes records as error-level log entries. A nil logger resolves to
// the global logger at write time.
func LogSink(logger *log.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Record(r Record) {
	logger := s.logger
	if logger == nil {
		logger = log.G()
	}

	event := logger.Error().Str("kind", r.Kind.String())
	if r.StatusCode != 0 {
		event = event.Int("status_code", r.StatusCode)
	}
	if r.Verb != "" {
		event = event.Str("method", string(r.Verb))
	}
	if r.RequestID != "" {
		event = event.Str("request_id", r.RequestID)
	}
	if r.Cause != nil {
		event = event.Err(r.Cause)
	}
	event.Msg("HTTP request error: " + r.Message)
}

// NopSink discards records.
func NopSink() Sink {
	return SinkFunc(func(Record) {})
}
