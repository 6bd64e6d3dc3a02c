package rest

import (
	"context"
	"fmt"
	"net/http"

	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
)

func (c *client) FindRuns(ctx context.Context, state string) ([]apiruns.Detail, error) {
	url := c.apipath("runs")
	if state != "" {
		url += "?state=" + state
	}
	resp, err := c.request(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	runs := []apiruns.Detail{}
	if err := unmarshalJsonResponse(
		resp, &runs,
		MessageFor{
			Status4xx: "cannot list runs",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *client) GetRun(ctx context.Context, runId string) (apiruns.Detail, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("runs", runId), nil)
	if err != nil {
		return apiruns.Detail{}, err
	}
	defer resp.Body.Close()

	var run apiruns.Detail
	if err := unmarshalJsonResponse(
		resp, &run,
		MessageFor{
			Status4xx: fmt.Sprintf("run %s is not found", runId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apiruns.Detail{}, err
	}
	return run, nil
}

func (c *client) GetRunArtifacts(ctx context.Context, runId string) ([]apiruns.Artifact, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("runs", runId, "artifacts"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	artifacts := []apiruns.Artifact{}
	if err := unmarshalJsonResponse(
		resp, &artifacts,
		MessageFor{
			Status4xx: fmt.Sprintf("artifacts of run %s are not available", runId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// postRunAction issues a state-change request and expects no body back.
func (c *client) postRunAction(ctx context.Context, runId, action string) error {
	resp, err := c.request(ctx, http.MethodPost, c.apipath("runs", runId, action), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[struct{}](
		resp, nil,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot %s run %s", action, runId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}

func (c *client) CancelRun(ctx context.Context, runId string) error {
	return c.postRunAction(ctx, runId, "cancel")
}

func (c *client) PauseRun(ctx context.Context, runId string) error {
	return c.postRunAction(ctx, runId, "pause")
}

func (c *client) ResumeRun(ctx context.Context, runId string) error {
	return c.postRunAction(ctx, runId, "resume")
}
