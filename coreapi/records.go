package coreapi

// Record is a JSON object returned by the core service
type Record = map[string]any

const (
	changeTrackCreate = "create"

	TypeReproduction    = "reproduction"
	TypeProcessInstance = "processInstance"

	StatusCreated = "created"
)

// startDateLayout renders reproduction start dates, e.g. 2018-01-15 19:44:09.619000
const startDateLayout = "2006-01-02 15:04:05.000000"

// Metadata tells the core service what kind of record is persisted and how
type Metadata struct {
	Type        string `json:"type"`
	ChangeTrack string `json:"changeTrack"`
}

// ReproductionInstance is the persisted form of a reproduction request
type ReproductionInstance struct {
	SystemID   any      `json:"systemId"`
	ProcessID  any      `json:"processId"`
	OriginalID any      `json:"original_id"`
	InstanceID any      `json:"instance_id"`
	Owner      any      `json:"owner"`
	StartDate  string   `json:"start_date"`
	Metadata   Metadata `json:"_metadata"`
}

// ProcessInstance is the persisted form of a new process execution
type ProcessInstance struct {
	SystemID        any      `json:"systemId"`
	ProcessID       any      `json:"processId"`
	OriginEventName string   `json:"origin_event_name"`
	StartExecution  int64    `json:"startExecution"` // epoch milliseconds
	Status          string   `json:"status"`
	Metadata        Metadata `json:"_metadata"`
}
