package prefect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotFound is returned when the engine reports 404 for an object.
var ErrNotFound = errors.New("object not found")

// APIError is a non-2xx response from the engine.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf(
		"workflow engine API: %s %s: status %d: %s",
		e.Method, e.Path, e.StatusCode, e.Body,
	)
}

// Client is the surface of the workflow engine the kitchen uses.
type Client interface {
	// Hello checks reachability of the engine API.
	Hello(ctx context.Context) error

	// Healthy reports whether the engine's health endpoint answers true.
	Healthy(ctx context.Context) bool

	FindFlowRuns(ctx context.Context, filter FlowRunFilter) ([]FlowRun, error)
	GetFlowRun(ctx context.Context, runId string) (FlowRun, error)
	SetFlowRunState(ctx context.Context, runId string, state State) (SetStateResult, error)
	ResumeFlowRun(ctx context.Context, runId string) (SetStateResult, error)

	FindDeployments(ctx context.Context, names []string) ([]Deployment, error)
	CreateDeployment(ctx context.Context, dep DeploymentCreate) (Deployment, error)
	CreateFlowRunFromDeployment(
		ctx context.Context, deploymentId string,
		parameters map[string]any, tags []string,
	) (FlowRun, error)

	// EnsureFlow registers a flow name, or fetches it when it already exists.
	EnsureFlow(ctx context.Context, name string) (Flow, error)

	GetWorkPool(ctx context.Context, name string) (WorkPool, error)
	CreateWorkPool(ctx context.Context, pool WorkPoolCreate) (WorkPool, error)
	FindWorkers(ctx context.Context, workPoolName string) ([]Worker, error)

	FindArtifacts(ctx context.Context, flowRunId string) ([]Artifact, error)

	GetBlockTypeBySlug(ctx context.Context, slug string) (BlockType, error)
	FindBlockSchemas(ctx context.Context, blockTypeId string) ([]BlockSchema, error)
	FindBlockDocuments(ctx context.Context, names []string) ([]BlockDocument, error)
	CreateBlockDocument(ctx context.Context, doc BlockDocument) (BlockDocument, error)
}

type client struct {
	api        string
	apiKey     string
	httpclient *http.Client
}

type Option func(*client) *client

// WithAPIKey sends the key as a bearer token on every request
// (needed against the hosted engine, not the self-hosted server).
func WithAPIKey(key string) Option {
	return func(c *client) *client {
		c.apiKey = key
		return c
	}
}

// WithHTTPClient swaps the underlying HTTP client (tests, custom TLS).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) *client {
		c.httpclient = hc
		return c
	}
}

// NewClient creates a Client for the engine API rooted at apiRoot
// (e.g. "http://prefect-server:4200/api").
func NewClient(apiRoot string, options ...Option) (Client, error) {
	if !strings.Contains(apiRoot, "://") {
		return nil, fmt.Errorf("api root is not an absolute URL: %s", apiRoot)
	}
	c := &client{
		api:        strings.TrimSuffix(apiRoot, "/"),
		httpclient: new(http.Client),
	}
	for _, opt := range options {
		c = opt(c)
	}
	return c, nil
}

func (c *client) apipath(path ...string) string {
	for i, p := range path {
		path[i] = strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	}
	return strings.Join(append([]string{c.api}, path...), "/")
}

func (c *client) do(
	ctx context.Context, method string, path string, reqBody any, respBody any,
) error {
	var r io.Reader
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if respBody == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(respBody)
}

func (c *client) Hello(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.apipath("hello"), nil, nil)
}

func (c *client) Healthy(ctx context.Context) bool {
	var ok bool
	if err := c.do(ctx, http.MethodGet, c.apipath("health"), nil, &ok); err != nil {
		return false
	}
	return ok
}
