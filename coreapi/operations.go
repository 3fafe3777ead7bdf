package coreapi

import (
	"context"

	corehttp "github.com/kochabx/coresdk/core/net/http"
)

// Persist stores records through /core/persist. The body is always a JSON array.
func (c *Client) Persist(ctx context.Context, records ...any) *corehttp.Result {
	if records == nil {
		records = []any{}
	}
	return c.exec.Post(c.endpoint("persist"), records, corehttp.WithContext(ctx))
}

// GetOperationByEvent returns the operation subscribed to event, or nil when
// there is none or the request failed; the Result tells the two apart.
func (c *Client) GetOperationByEvent(ctx context.Context, event string) (Record, *corehttp.Result) {
	res := c.exec.Get(c.endpoint("operation", "filter", "byEvent", "event", event), corehttp.WithContext(ctx))
	return first(res), res
}

// GetProcessInstanceByInstanceID returns the process instance with id, or nil.
func (c *Client) GetProcessInstanceByInstanceID(ctx context.Context, id string) (Record, *corehttp.Result) {
	res := c.exec.Get(c.endpoint("processInstance", "filter", "byId", "id", id), corehttp.WithContext(ctx))
	return first(res), res
}

// CreateReproductionInstance persists a new reproduction of an existing
// instance. reproduction must carry systemId, processId, original_id,
// instance_id and owner.
func (c *Client) CreateReproductionInstance(ctx context.Context, reproduction Record) (Record, *corehttp.Result) {
	c.logger.Info().Any("reproduction_instance", reproduction).Msg("create reproduction instance")

	res := c.Persist(ctx, ReproductionInstance{
		SystemID:   reproduction["systemId"],
		ProcessID:  reproduction["processId"],
		OriginalID: reproduction["original_id"],
		InstanceID: reproduction["instance_id"],
		Owner:      reproduction["owner"],
		StartDate:  c.now().Format(startDateLayout),
		Metadata:   Metadata{Type: TypeReproduction, ChangeTrack: changeTrackCreate},
	})
	return first(res), res
}

// CreateProcessInstance persists a new execution of operation triggered by eventName.
func (c *Client) CreateProcessInstance(ctx context.Context, operation Record, eventName string) (Record, *corehttp.Result) {
	c.logger.Info().Any("operation", operation).Str("event", eventName).Msg("create process instance")

	res := c.Persist(ctx, ProcessInstance{
		SystemID:        operation["systemId"],
		ProcessID:       operation["processId"],
		OriginEventName: eventName,
		StartExecution:  c.now().UnixMilli(),
		Status:          StatusCreated,
		Metadata:        Metadata{Type: TypeProcessInstance, ChangeTrack: changeTrackCreate},
	})
	return first(res), res
}

// first unwraps a Result: the first object of a sequence, or the object itself.
// Failures, empty data and non-object values give nil.
func first(res *corehttp.Result) Record {
	if res == nil || res.HasError() {
		return nil
	}

	switch v := res.Data().(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		rec, _ := v[0].(map[string]any)
		return rec
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		return v
	default:
		return nil
	}
}
