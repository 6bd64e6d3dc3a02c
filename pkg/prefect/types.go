// Package prefect is a typed client for the workflow engine's REST API.
//
// Only the surface the kitchen needs is covered: flow runs and their
// states, deployments, work pools and their workers, artifacts, and
// block documents (secrets).
package prefect

import "time"

// StateType is the lifecycle state of a flow run.
type StateType string

const (
	Scheduled  StateType = "SCHEDULED"
	Pending    StateType = "PENDING"
	Running    StateType = "RUNNING"
	Paused     StateType = "PAUSED"
	Cancelling StateType = "CANCELLING"
	Cancelled  StateType = "CANCELLED"
	Completed  StateType = "COMPLETED"
	Failed     StateType = "FAILED"
	Crashed    StateType = "CRASHED"
)

// ActiveStates are the states counted against a user's run quota.
var ActiveStates = []StateType{Running, Scheduled, Pending}

// State is a flow run state, as sent to set_state.
type State struct {
	Type    StateType `json:"type"`
	Name    string    `json:"name,omitempty"`
	Message string    `json:"message,omitempty"`
}

// FlowRun is a run of a deployed flow.
type FlowRun struct {
	Id              string         `json:"id"`
	Name            string         `json:"name"`
	Parameters      map[string]any `json:"parameters"`
	StateName       string         `json:"state_name"`
	StateType       StateType      `json:"state_type"`
	Tags            []string       `json:"tags"`
	Created         time.Time      `json:"created"`
	ParentTaskRunId *string        `json:"parent_task_run_id"`
}

// HasTags is true when the run carries every one of the given tags.
func (r FlowRun) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, t := range r.Tags {
			if t == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SetStateStatus is the engine's verdict on a state transition request.
type SetStateStatus string

const (
	SetStateAccept SetStateStatus = "ACCEPT"
	SetStateReject SetStateStatus = "REJECT"
	SetStateAbort  SetStateStatus = "ABORT"
	SetStateWait   SetStateStatus = "WAIT"
)

// SetStateResult is the response of a set_state (or resume) call.
type SetStateResult struct {
	Status  SetStateStatus `json:"status"`
	Details struct {
		Reason string `json:"reason"`
	} `json:"details"`
}

// Deployment binds a flow entrypoint to a work pool.
type Deployment struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	FlowId       string   `json:"flow_id"`
	Entrypoint   string   `json:"entrypoint"`
	WorkPoolName string   `json:"work_pool_name"`
	Tags         []string `json:"tags"`
}

// DeploymentCreate is the request body for registering a deployment.
type DeploymentCreate struct {
	Name         string           `json:"name"`
	FlowId       string           `json:"flow_id"`
	Description  string           `json:"description,omitempty"`
	Entrypoint   string           `json:"entrypoint,omitempty"`
	Path         string           `json:"path,omitempty"`
	WorkPoolName string           `json:"work_pool_name,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	Parameters   map[string]any   `json:"parameters,omitempty"`
	JobVariables map[string]any   `json:"job_variables,omitempty"`
	PullSteps    []map[string]any `json:"pull_steps,omitempty"`
}

// Flow is a named flow entrypoint known to the engine.
type Flow struct {
	Id   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// WorkPoolStatus is the readiness of a work pool.
type WorkPoolStatus string

const (
	WorkPoolReady    WorkPoolStatus = "READY"
	WorkPoolNotReady WorkPoolStatus = "NOT_READY"
	WorkPoolPaused   WorkPoolStatus = "PAUSED"
)

// WorkPool routes queued runs to workers.
type WorkPool struct {
	Id     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Status WorkPoolStatus `json:"status"`
}

// WorkPoolCreate is the request body for registering a work pool.
type WorkPoolCreate struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// WorkerStatus is the liveness of a worker process.
type WorkerStatus string

const (
	WorkerOnline  WorkerStatus = "ONLINE"
	WorkerOffline WorkerStatus = "OFFLINE"
)

// Worker is a process polling a work pool.
type Worker struct {
	Id                string       `json:"id"`
	Name              string       `json:"name"`
	Status            WorkerStatus `json:"status"`
	LastHeartbeatTime *time.Time   `json:"last_heartbeat_time"`
}

// Artifact is an output table or note a flow run published.
type Artifact struct {
	Id          string `json:"id"`
	Type        string `json:"type"`
	Key         string `json:"key"`
	Data        any    `json:"data"`
	Description string `json:"description"`
}

// BlockType identifies a kind of block document (e.g. "secret").
type BlockType struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BlockSchema is a version of a block type's data layout.
type BlockSchema struct {
	Id          string `json:"id"`
	BlockTypeId string `json:"block_type_id"`
}

// BlockDocument is a stored configuration blob, typically a secret.
type BlockDocument struct {
	Id            string         `json:"id"`
	Name          string         `json:"name"`
	Data          map[string]any `json:"data,omitempty"`
	BlockSchemaId string         `json:"block_schema_id"`
	BlockTypeId   string         `json:"block_type_id"`
}
