package prefect

import (
	"context"
	"errors"
	"net/http"
)

func (c *client) FindDeployments(ctx context.Context, names []string) ([]Deployment, error) {
	req := deploymentFilterRequest{}
	if len(names) > 0 {
		req.Deployments = &deploymentFilter{Name: &nameFilter{Any: names}}
	}

	deps := []Deployment{}
	if err := c.do(ctx, http.MethodPost, c.apipath("deployments", "filter"), req, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (c *client) CreateDeployment(ctx context.Context, dep DeploymentCreate) (Deployment, error) {
	var created Deployment
	if err := c.do(ctx, http.MethodPost, c.apipath("deployments"), dep, &created); err != nil {
		return Deployment{}, err
	}
	return created, nil
}

func (c *client) CreateFlowRunFromDeployment(
	ctx context.Context, deploymentId string,
	parameters map[string]any, tags []string,
) (FlowRun, error) {
	req := struct {
		Parameters map[string]any `json:"parameters,omitempty"`
		Tags       []string       `json:"tags,omitempty"`
	}{Parameters: parameters, Tags: tags}

	var run FlowRun
	if err := c.do(
		ctx, http.MethodPost,
		c.apipath("deployments", deploymentId, "create_flow_run"),
		req, &run,
	); err != nil {
		return FlowRun{}, err
	}
	return run, nil
}

func (c *client) EnsureFlow(ctx context.Context, name string) (Flow, error) {
	req := struct {
		Name string `json:"name"`
	}{Name: name}

	var flow Flow
	err := c.do(ctx, http.MethodPost, c.apipath("flows"), req, &flow)
	if err == nil {
		return flow, nil
	}

	// 409 means the flow is already registered. Look it up by name.
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		return Flow{}, err
	}
	if err := c.do(ctx, http.MethodGet, c.apipath("flows", "name", name), nil, &flow); err != nil {
		return Flow{}, err
	}
	return flow, nil
}
