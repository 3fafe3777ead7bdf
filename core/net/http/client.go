package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB

	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 30
)

// Observer records the duration and outcome of each request
type Observer interface {
	Observe(verb, outcome string, elapsed time.Duration)
}

// Client executes requests against a transport and converts every outcome,
// including transport failures, into a Result. It is safe for concurrent use.
type Client struct {
	doer         Doer
	httpClient   *http.Client
	timeout      time.Duration
	maxRedirects int
	sink         Sink
	observer     Observer
	bufferPool   sync.Pool
}

// Option configures the HTTP client
type Option func(*Client)

// WithClient sets a custom HTTP client. A nil CheckRedirect is replaced on a copy
// by the redirect limit policy.
func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTransport sets the transport directly; timeout and redirect options are then ignored
func WithTransport(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithTimeout sets the overall time budget of a request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRedirects sets how many redirects are followed before giving up
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithSink sets the diagnostic sink for failed requests
func WithSink(sink Sink) Option {
	return func(c *Client) {
		c.sink = sink
	}
}

// WithObserver sets the request metrics observer
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client. Without options it uses a 30s timeout, follows up to
// 30 redirects and logs failures through the global logger.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.sink == nil {
		c.sink = LogSink(nil)
	}
	if c.doer == nil {
		c.doer = c.buildHTTPClient()
	}

	return c
}

func (c *Client) buildHTTPClient() *http.Client {
	if c.httpClient == nil {
		return &http.Client{
			Timeout:       c.timeout,
			CheckRedirect: limitRedirects(c.maxRedirects),
		}
	}

	hc := *c.httpClient
	if hc.CheckRedirect == nil {
		hc.CheckRedirect = limitRedirects(c.maxRedirects)
	}
	return &hc
}

// limitRedirects stops following redirects once limit have been followed
func limitRedirects(limit int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > limit {
			return ErrTooManyRedirects
		}
		return nil
	}
}

// RequestOption holds options for individual HTTP requests
type RequestOption struct {
	ctx    context.Context
	header map[string]string
}

// WithContext sets a custom context for the request
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets multiple headers for the request
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

func newRequestOption(opts []func(*RequestOption)) *RequestOption {
	opt := &RequestOption{header: make(map[string]string, 4)}
	for _, o := range opts {
		o(opt)
	}
	if opt.ctx == nil {
		opt.ctx = context.Background()
	}
	return opt
}

// Request sends one request and returns its Result. It never panics on
// transport failures and never returns nil.
func (c *Client) Request(verb Verb, url string, body any, opts ...func(*RequestOption)) *Result {
	opt := newRequestOption(opts)
	if opt.header[HeaderRequestID] == "" {
		opt.header[HeaderRequestID] = uuid.NewString()
	}

	start := time.Now()
	res := c.execute(verb, url, body, opt)
	if c.observer != nil {
		c.observer.Observe(string(verb), res.Kind().String(), time.Since(start))
	}
	return res
}

func (c *Client) execute(verb Verb, url string, body any, opt *RequestOption) *Result {
	requestID := opt.header[HeaderRequestID]
	fail := func(kind FailureKind, statusCode int, cause error) *Result {
		return newFailure(c.sink, failure{
			kind:       kind,
			statusCode: statusCode,
			message:    kind.Message() + " host: " + url + " args: " + describeArgs(body, opt.header),
			cause:      cause,
			verb:       verb,
			uri:        url,
			requestID:  requestID,
		})
	}

	invoke, ok := dispatch(verb)
	if !ok {
		return fail(KindUnknown, 0, fmt.Errorf("unsupported verb %q", verb))
	}

	buf := c.getBuffer()
	defer c.putBuffer(buf)

	var payload io.Reader
	if body != nil {
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fail(KindUnknown, 0, err)
		}
		payload = bytes.NewReader(buf.Bytes())
		if _, set := opt.header[HeaderContentType]; !set {
			opt.header[HeaderContentType] = ContentTypeJSON
		}
	}

	resp, err := invoke(c.doer, opt.ctx, url, payload, opt.header)
	if err != nil {
		return fail(classify(err), 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(classify(err), 0, err)
	}

	if isErrorStatus(resp.StatusCode) {
		return fail(KindHTTPStatus, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	data, err := decodeBody(resp.Header, raw)
	if err != nil {
		return fail(KindMalformedBody, resp.StatusCode, err)
	}

	return &Result{
		statusCode: resp.StatusCode,
		data:       data,
		verb:       verb,
		uri:        url,
		requestID:  requestID,
	}
}

// decodeBody parses JSON bodies and passes everything else through as text.
func decodeBody(h http.Header, raw []byte) (any, error) {
	if len(raw) == 0 || !isJSON(h) {
		return string(raw), nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// describeArgs renders the request options for error messages.
func describeArgs(body any, header map[string]string) string {
	args := make(map[string]any, 2)
	if body != nil {
		args["json"] = body
	}
	if len(header) > 0 {
		args["headers"] = header
	}

	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}

func (c *Client) getBuffer() *bytes.Buffer {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool unless it grew too large
func (c *Client) putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxBufferSize {
		c.bufferPool.Put(buf)
	}
}

// Get performs a GET request
func (c *Client) Get(url string, opts ...func(*RequestOption)) *Result {
	return c.Request(VerbGet, url, nil, opts...)
}

// Post performs a POST request with an optional JSON body
func (c *Client) Post(url string, body any, opts ...func(*RequestOption)) *Result {
	return c.Request(VerbPost, url, body, opts...)
}

// Put performs a PUT request with an optional JSON body
func (c *Client) Put(url string, body any, opts ...func(*RequestOption)) *Result {
	return c.Request(VerbPut, url, body, opts...)
}
