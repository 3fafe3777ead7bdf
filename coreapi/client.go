// Package coreapi is a client for the core service: it persists records,
// queries operations and process instances and creates new instances.
//
// Every operation returns the *http.Result of the underlying request. Record
// results are nil when the request failed or the service returned no data.
package coreapi

import (
	"strconv"
	"time"

	corehttp "github.com/kochabx/coresdk/core/net/http"
	"github.com/kochabx/coresdk/errors"
	"github.com/kochabx/coresdk/log"
	"github.com/kochabx/coresdk/metrics"
)

const basePath = "/core"

// Client exposes the core service operations.
type Client struct {
	exec   corehttp.Executor
	base   *corehttp.URLBuilder
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithExecutor replaces the request executor
func WithExecutor(exec corehttp.Executor) Option {
	return func(c *Client) {
		c.exec = exec
	}
}

// WithLogger sets the logger used for operation logs
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock sets the time source for creation timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a client for the core service at baseURL (scheme and host) and
// port; port 0 keeps the port from baseURL.
func New(baseURL string, port int, opts ...Option) (*Client, error) {
	base, err := corehttp.FromURL(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, 400, "invalid core url %q", baseURL)
	}
	base.Port(strconv.Itoa(port)).Path(basePath)

	c := &Client{
		base:   base,
		logger: log.G(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = corehttp.New(corehttp.WithSink(corehttp.LogSink(c.logger)))
	}

	return c, nil
}

// NewFromSettings wires logger, metrics and executor from settings. The
// returned registry is nil unless metrics are enabled.
func NewFromSettings(s *Settings, opts ...Option) (*Client, *metrics.Prometheus, error) {
	logger, err := log.FromConfig(s.Log)
	if err != nil {
		return nil, nil, err
	}

	execOpts := []corehttp.Option{
		corehttp.WithTimeout(s.Core.Timeout),
		corehttp.WithMaxRedirects(s.Core.MaxRedirects),
		corehttp.WithSink(corehttp.LogSink(logger)),
	}

	var prom *metrics.Prometheus
	if s.Metrics.Enabled {
		prom = metrics.New()
		m, err := metrics.NewClientMetrics(prom.Registry())
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.UnknownCode, "register client metrics")
		}
		execOpts = append(execOpts, corehttp.WithObserver(m))
	}

	opts = append([]Option{WithLogger(logger), WithExecutor(corehttp.New(execOpts...))}, opts...)
	c, err := New(s.Core.URL, s.Core.Port, opts...)
	if err != nil {
		return nil, nil, err
	}
	return c, prom, nil
}

// endpoint builds the URL of a core endpoint with optional query pairs
func (c *Client) endpoint(name string, query ...string) string {
	b := c.base.Clone().AppendPath(name)
	for i := 0; i+1 < len(query); i += 2 {
		b.Query(query[i], query[i+1])
	}
	return b.String()
}
