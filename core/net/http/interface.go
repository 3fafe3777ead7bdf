package http

import "net/http"

// Doer performs one HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor issues requests and reports every outcome as a Result
type Executor interface {
	Request(verb Verb, url string, body any, opts ...func(*RequestOption)) *Result
	Get(url string, opts ...func(*RequestOption)) *Result
	Post(url string, body any, opts ...func(*RequestOption)) *Result
	Put(url string, body any, opts ...func(*RequestOption)) *Result
}
