package http

import (
	"context"
	"io"
	"net/http"
)

// Verb is one of the supported HTTP methods
type Verb string

const (
	VerbGet  Verb = http.MethodGet
	VerbPost Verb = http.MethodPost
	VerbPut  Verb = http.MethodPut
)

// invokeFunc performs the transport call for a verb.
type invokeFunc func(doer Doer, ctx context.Context, url string, body io.Reader, header map[string]string) (*http.Response, error)

var verbs = map[Verb]invokeFunc{
	VerbGet:  bind(http.MethodGet),
	VerbPost: bind(http.MethodPost),
	VerbPut:  bind(http.MethodPut),
}

func bind(method string) invokeFunc {
	return func(doer Doer, ctx context.Context, url string, body io.Reader, header map[string]string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		for k, v := range header {
			req.Header.Set(k, v)
		}
		return doer.Do(req)
	}
}

// dispatch resolves the transport call for v.
func dispatch(v Verb) (invokeFunc, bool) {
	fn, ok := verbs[v]
	return fn, ok
}

// Valid reports whether v is a supported verb
func (v Verb) Valid() bool {
	_, ok := verbs[v]
	return ok
}
