package coreapi

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corehttp "github.com/kochabx/coresdk/core/net/http"
	"github.com/kochabx/coresdk/coreapi/coreapitest"
	"github.com/kochabx/coresdk/log"
)

var fixedNow = time.Date(2018, 1, 15, 19, 44, 9, 619000000, time.UTC)

func newTestClient(t *testing.T, srv *coreapitest.Server) (*Client, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWriter(&buf)
	c, err := New(srv.URL, 0,
		WithLogger(logger),
		WithClock(func() time.Time { return fixedNow }),
		WithExecutor(corehttp.New(corehttp.WithSink(corehttp.LogSink(logger)))),
	)
	require.NoError(t, err)
	return c, &buf
}

func TestCreateProcessInstance(t *testing.T) {
	srv := coreapitest.NewServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv)

	got, res := c.CreateProcessInstance(context.Background(), Record{"systemId": "S1", "processId": "P1"}, "evt.start")

	require.False(t, res.HasError(), res.ErrorMessage())
	require.NotNil(t, got)
	assert.Equal(t, "X1", got["id"])

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/core/persist", reqs[0].Path)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	require.Len(t, body, 1)
	assert.Equal(t, "S1", body[0]["systemId"])
	assert.Equal(t, "P1", body[0]["processId"])
	assert.Equal(t, "evt.start", body[0]["origin_event_name"])
	assert.Equal(t, "created", body[0]["status"])
	assert.Equal(t, float64(fixedNow.UnixMilli()), body[0]["startExecution"])
	assert.Equal(t, map[string]any{"type": "processInstance", "changeTrack": "create"}, body[0]["_metadata"])
}

func TestCreateReproductionInstance(t *testing.T) {
	srv := coreapitest.NewServer()
	defer srv.Close()
	c, logs := newTestClient(t, srv)

	got, res := c.CreateReproductionInstance(context.Background(), Record{
		"systemId":    "S1",
		"processId":   "P1",
		"original_id": "orig-1",
		"instance_id": "inst-1",
		"owner":       "alice",
	})

	require.False(t, res.HasError(), res.ErrorMessage())
	require.NotNil(t, got)
	assert.Equal(t, "X1", got["id"])
	assert.Equal(t, "2018-01-15 19:44:09.619000", got["start_date"])
	assert.Equal(t, "inst-1", got["instance_id"])
	assert.Equal(t, map[string]any{"type": "reproduction", "changeTrack": "create"}, got["_metadata"])
	assert.Contains(t, logs.String(), "create reproduction instance")
}

func TestGetOperationByEvent(t *testing.T) {
	srv := coreapitest.NewServer()
	defer srv.Close()
	srv.AddOperation(map[string]any{"id": "op-1", "event": "evt.start", "systemId": "S1", "processId": "P1"})
	c, _ := newTestClient(t, srv)

	op, res := c.GetOperationByEvent(context.Background(), "evt.start")
	require.False(t, res.HasError(), res.ErrorMessage())
	assert.Equal(t, "op-1", op["id"])

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/core/operation", reqs[0].Path)
	assert.Equal(t, map[string]string{"filter": "byEvent", "event": "evt.start"}, reqs[0].Query)

	op, res = c.GetOperationByEvent(context.Background(), "evt.unknown")
	assert.Nil(t, op)
	assert.False(t, res.HasError())
}

func TestProcessInstanceRoundTrip(t *testing.T) {
	srv := coreapitest.NewServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	created, res := c.CreateProcessInstance(ctx, Record{"systemId": "S1", "processId": "P1"}, "evt.start")
	require.False(t, res.HasError(), res.ErrorMessage())

	id := created["id"].(string)
	got1, res1 := c.GetProcessInstanceByInstanceID(ctx, id)
	got2, res2 := c.GetProcessInstanceByInstanceID(ctx, id)

	require.False(t, res1.HasError())
	assert.Equal(t, id, got1["id"])
	assert.Equal(t, res1.Data(), res2.Data())
	assert.Equal(t, got1, got2)

	missing, res := c.GetProcessInstanceByInstanceID(ctx, "abc")
	assert.Nil(t, missing)
	assert.False(t, res.HasError())
}

func TestOperationsOnFailure(t *testing.T) {
	srv := coreapitest.NewServer()
	defer srv.Close()
	srv.AddOperation(map[string]any{"id": "op-1", "event": "evt.start"})
	srv.FailWith(http.StatusServiceUnavailable)
	c, logs := newTestClient(t, srv)

	op, res := c.GetOperationByEvent(context.Background(), "evt.start")
	assert.Nil(t, op)
	require.True(t, res.HasError())
	code, _ := res.StatusCode()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, logs.String(), "Request failed.")

	created, res := c.CreateProcessInstance(context.Background(), Record{"systemId": "S1"}, "evt.start")
	assert.Nil(t, created)
	assert.True(t, res.HasError())

	srv.FailWith(0)
	op, _ = c.GetOperationByEvent(context.Background(), "evt.start")
	assert.NotNil(t, op)
}

func TestUnreachableCore(t *testing.T) {
	srv := coreapitest.NewServer()
	url := srv.URL
	srv.Close()

	c, err := New(url, 0, WithLogger(log.NewWriter(&bytes.Buffer{})))
	require.NoError(t, err)

	pi, res := c.GetProcessInstanceByInstanceID(context.Background(), "abc")
	assert.Nil(t, pi)
	require.True(t, res.HasError())
	assert.Equal(t, corehttp.KindConnection, res.Kind())
}

func TestPersist(t *testing.T) {
	srv := coreapitest.NewServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv)

	res := c.Persist(context.Background(), map[string]any{"a": 1}, map[string]any{"b": 2})
	require.False(t, res.HasError(), res.ErrorMessage())
	assert.Len(t, res.Data(), 2)
	assert.Len(t, srv.Persisted(), 2)

	res = c.Persist(context.Background())
	require.False(t, res.HasError(), res.ErrorMessage())
	assert.Equal(t, []any{}, res.Data())
}
