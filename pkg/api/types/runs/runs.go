// Package runs has request/response types of the kitchen API about flow runs.
package runs

import (
	"time"
)

// Detail is a flow run as the kitchen API reports it.
type Detail struct {
	RunId      string         `json:"runId"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	StateName  string         `json:"stateName"`
	StateType  string         `json:"stateType"`
	Tags       []string       `json:"tags"`
	Created    time.Time      `json:"created"`
}

func (d Detail) Equal(o Detail) bool {
	if len(d.Tags) != len(o.Tags) {
		return false
	}
	for i := range d.Tags {
		if d.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return d.RunId == o.RunId &&
		d.Name == o.Name &&
		d.StateName == o.StateName &&
		d.StateType == o.StateType &&
		d.Created.Equal(o.Created)
}

// Artifact is a table artifact attached to a flow run.
type Artifact struct {
	Type        string `json:"type"`
	Key         string `json:"key"`
	Data        any    `json:"data"`
	Description string `json:"description"`
}
