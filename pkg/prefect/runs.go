package prefect

import (
	"context"
	"net/http"
)

func (c *client) FindFlowRuns(ctx context.Context, filter FlowRunFilter) ([]FlowRun, error) {
	req := flowRunFilterRequest{
		FlowRuns: filter.body(),
		Sort:     "CREATED_DESC",
	}

	runs := []FlowRun{}
	if err := c.do(ctx, http.MethodPost, c.apipath("flow_runs", "filter"), req, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *client) GetFlowRun(ctx context.Context, runId string) (FlowRun, error) {
	var run FlowRun
	if err := c.do(ctx, http.MethodGet, c.apipath("flow_runs", runId), nil, &run); err != nil {
		return FlowRun{}, err
	}
	return run, nil
}

func (c *client) SetFlowRunState(ctx context.Context, runId string, state State) (SetStateResult, error) {
	req := struct {
		State State `json:"state"`
		Force bool  `json:"force"`
	}{State: state}

	var result SetStateResult
	if err := c.do(
		ctx, http.MethodPost, c.apipath("flow_runs", runId, "set_state"), req, &result,
	); err != nil {
		return SetStateResult{}, err
	}
	return result, nil
}

func (c *client) ResumeFlowRun(ctx context.Context, runId string) (SetStateResult, error) {
	var result SetStateResult
	if err := c.do(
		ctx, http.MethodPost, c.apipath("flow_runs", runId, "resume"), struct{}{}, &result,
	); err != nil {
		return SetStateResult{}, err
	}
	return result, nil
}

func (c *client) FindArtifacts(ctx context.Context, flowRunId string) ([]Artifact, error) {
	req := artifactFilterRequest{
		Artifacts: &artifactFilter{FlowRunId: &idFilter{Any: []string{flowRunId}}},
	}

	artifacts := []Artifact{}
	if err := c.do(ctx, http.MethodPost, c.apipath("artifacts", "filter"), req, &artifacts); err != nil {
		return nil, err
	}
	return artifacts, nil
}
