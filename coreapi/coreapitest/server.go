// Package coreapitest provides an in-process core service for tests.
package coreapitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const contentTypeJSON = "application/json"

// Request is a request received by the fake service
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte
}

// Server is a fake core service. Records persisted through /core/persist get
// an "id" and become queryable as process instances when their _metadata.type
// is processInstance.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	operations []map[string]any
	instances  []map[string]any
	persisted  []map[string]any
	requests   []Request
	failStatus int
	nextID     int
}

// NewServer starts a fake core service; close it with Close.
func NewServer() *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{}

	engine := gin.New()
	engine.Use(s.capture)
	core := engine.Group("/core")
	core.GET("/operation", s.getOperation)
	core.GET("/processInstance", s.getProcessInstance)
	core.POST("/persist", s.persist)

	s.Server = httptest.NewServer(engine)
	return s
}

// AddOperation registers an operation; its "event" field is matched by byEvent.
func (s *Server) AddOperation(op map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operations = append(s.operations, op)
}

// AddProcessInstance registers a process instance matched by its "id".
func (s *Server) AddProcessInstance(pi map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = append(s.instances, pi)
}

// FailWith makes every following request answer with status; 0 restores normal behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Persisted returns the records stored so far.
func (s *Server) Persisted() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.persisted...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) capture(c *gin.Context) {
	body, _ := c.GetRawData()
	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  query,
		Body:   body,
	})
	status := s.failStatus
	s.mu.Unlock()

	if status != 0 {
		writeJSON(c, status, map[string]any{"error": http.StatusText(status)})
		c.Abort()
		return
	}
	c.Set("body", body)
	c.Next()
}

func (s *Server) getOperation(c *gin.Context) {
	if c.Query("filter") != "byEvent" {
		writeJSON(c, http.StatusBadRequest, map[string]any{"error": "unsupported filter"})
		return
	}
	writeJSON(c, http.StatusOK, s.match(func() []map[string]any { return s.operations }, "event", c.Query("event")))
}

func (s *Server) getProcessInstance(c *gin.Context) {
	if c.Query("filter") != "byId" {
		writeJSON(c, http.StatusBadRequest, map[string]any{"error": "unsupported filter"})
		return
	}
	writeJSON(c, http.StatusOK, s.match(func() []map[string]any { return s.instances }, "id", c.Query("id")))
}

func (s *Server) match(list func() []map[string]any, key, value string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0, 1)
	for _, rec := range list() {
		if fmt.Sprint(rec[key]) == value {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Server) persist(c *gin.Context) {
	raw, _ := c.Get("body")
	body, _ := raw.([]byte)

	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		writeJSON(c, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	s.mu.Lock()
	for _, rec := range records {
		s.nextID++
		rec["id"] = fmt.Sprintf("X%d", s.nextID)
		s.persisted = append(s.persisted, rec)
		if md, ok := rec["_metadata"].(map[string]any); ok && md["type"] == "processInstance" {
			s.instances = append(s.instances, rec)
		}
	}
	s.mu.Unlock()

	writeJSON(c, http.StatusOK, records)
}

// writeJSON answers with Content-Type exactly application/json; gin's c.JSON
// appends a charset parameter.
func writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, contentTypeJSON, body)
}
