package mock

import (
	"context"
	"errors"

	dbmock "github.com/mediacloud/sous-chef-kitchen/internal/testutils/mock"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
)

type Client struct {
	Impl struct {
		Hello           func(ctx context.Context) error
		Healthy         func(ctx context.Context) bool
		FindFlowRuns    func(ctx context.Context, filter prefect.FlowRunFilter) ([]prefect.FlowRun, error)
		GetFlowRun      func(ctx context.Context, runId string) (prefect.FlowRun, error)
		SetFlowRunState func(ctx context.Context, runId string, state prefect.State) (prefect.SetStateResult, error)
		ResumeFlowRun   func(ctx context.Context, runId string) (prefect.SetStateResult, error)

		FindDeployments             func(ctx context.Context, names []string) ([]prefect.Deployment, error)
		CreateDeployment            func(ctx context.Context, dep prefect.DeploymentCreate) (prefect.Deployment, error)
		CreateFlowRunFromDeployment func(ctx context.Context, deploymentId string, parameters map[string]any, tags []string) (prefect.FlowRun, error)
		EnsureFlow                  func(ctx context.Context, name string) (prefect.Flow, error)

		GetWorkPool    func(ctx context.Context, name string) (prefect.WorkPool, error)
		CreateWorkPool func(ctx context.Context, pool prefect.WorkPoolCreate) (prefect.WorkPool, error)
		FindWorkers    func(ctx context.Context, workPoolName string) ([]prefect.Worker, error)

		FindArtifacts func(ctx context.Context, flowRunId string) ([]prefect.Artifact, error)

		GetBlockTypeBySlug  func(ctx context.Context, slug string) (prefect.BlockType, error)
		FindBlockSchemas    func(ctx context.Context, blockTypeId string) ([]prefect.BlockSchema, error)
		FindBlockDocuments  func(ctx context.Context, names []string) ([]prefect.BlockDocument, error)
		CreateBlockDocument func(ctx context.Context, doc prefect.BlockDocument) (prefect.BlockDocument, error)
	}

	Calls struct {
		FindFlowRuns    dbmock.CallLog[prefect.FlowRunFilter]
		GetFlowRun      dbmock.CallLog[string]
		SetFlowRunState dbmock.CallLog[struct {
			RunId string
			State prefect.State
		}]
		ResumeFlowRun dbmock.CallLog[string]

		FindDeployments             dbmock.CallLog[[]string]
		CreateDeployment            dbmock.CallLog[prefect.DeploymentCreate]
		CreateFlowRunFromDeployment dbmock.CallLog[struct {
			DeploymentId string
			Parameters   map[string]any
			Tags         []string
		}]
		EnsureFlow dbmock.CallLog[string]

		GetWorkPool    dbmock.CallLog[string]
		CreateWorkPool dbmock.CallLog[prefect.WorkPoolCreate]
		FindWorkers    dbmock.CallLog[string]

		FindArtifacts dbmock.CallLog[string]

		GetBlockTypeBySlug  dbmock.CallLog[string]
		FindBlockSchemas    dbmock.CallLog[string]
		FindBlockDocuments  dbmock.CallLog[[]string]
		CreateBlockDocument dbmock.CallLog[prefect.BlockDocument]
	}
}

func New() *Client {
	return &Client{}
}

var _ prefect.Client = &Client{}

var errShouldNotBeCalled = errors.New("it should not be called")

func (m *Client) Hello(ctx context.Context) error {
	if m.Impl.Hello != nil {
		return m.Impl.Hello(ctx)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) Healthy(ctx context.Context) bool {
	if m.Impl.Healthy != nil {
		return m.Impl.Healthy(ctx)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) FindFlowRuns(ctx context.Context, filter prefect.FlowRunFilter) ([]prefect.FlowRun, error) {
	m.Calls.FindFlowRuns = append(m.Calls.FindFlowRuns, filter)
	if m.Impl.FindFlowRuns != nil {
		return m.Impl.FindFlowRuns(ctx, filter)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) GetFlowRun(ctx context.Context, runId string) (prefect.FlowRun, error) {
	m.Calls.GetFlowRun = append(m.Calls.GetFlowRun, runId)
	if m.Impl.GetFlowRun != nil {
		return m.Impl.GetFlowRun(ctx, runId)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) SetFlowRunState(ctx context.Context, runId string, state prefect.State) (prefect.SetStateResult, error) {
	m.Calls.SetFlowRunState = append(m.Calls.SetFlowRunState, struct {
		RunId string
		State prefect.State
	}{RunId: runId, State: state})
	if m.Impl.SetFlowRunState != nil {
		return m.Impl.SetFlowRunState(ctx, runId, state)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) ResumeFlowRun(ctx context.Context, runId string) (prefect.SetStateResult, error) {
	m.Calls.ResumeFlowRun = append(m.Calls.ResumeFlowRun, runId)
	if m.Impl.ResumeFlowRun != nil {
		return m.Impl.ResumeFlowRun(ctx, runId)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) FindDeployments(ctx context.Context, names []string) ([]prefect.Deployment, error) {
	m.Calls.FindDeployments = append(m.Calls.FindDeployments, names)
	if m.Impl.FindDeployments != nil {
		return m.Impl.FindDeployments(ctx, names)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) CreateDeployment(ctx context.Context, dep prefect.DeploymentCreate) (prefect.Deployment, error) {
	m.Calls.CreateDeployment = append(m.Calls.CreateDeployment, dep)
	if m.Impl.CreateDeployment != nil {
		return m.Impl.CreateDeployment(ctx, dep)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) CreateFlowRunFromDeployment(
	ctx context.Context, deploymentId string, parameters map[string]any, tags []string,
) (prefect.FlowRun, error) {
	m.Calls.CreateFlowRunFromDeployment = append(m.Calls.CreateFlowRunFromDeployment, struct {
		DeploymentId string
		Parameters   map[string]any
		Tags         []string
	}{DeploymentId: deploymentId, Parameters: parameters, Tags: tags})
	if m.Impl.CreateFlowRunFromDeployment != nil {
		return m.Impl.CreateFlowRunFromDeployment(ctx, deploymentId, parameters, tags)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) EnsureFlow(ctx context.Context, name string) (prefect.Flow, error) {
	m.Calls.EnsureFlow = append(m.Calls.EnsureFlow, name)
	if m.Impl.EnsureFlow != nil {
		return m.Impl.EnsureFlow(ctx, name)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) GetWorkPool(ctx context.Context, name string) (prefect.WorkPool, error) {
	m.Calls.GetWorkPool = append(m.Calls.GetWorkPool, name)
	if m.Impl.GetWorkPool != nil {
		return m.Impl.GetWorkPool(ctx, name)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) CreateWorkPool(ctx context.Context, pool prefect.WorkPoolCreate) (prefect.WorkPool, error) {
	m.Calls.CreateWorkPool = append(m.Calls.CreateWorkPool, pool)
	if m.Impl.CreateWorkPool != nil {
		return m.Impl.CreateWorkPool(ctx, pool)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) FindWorkers(ctx context.Context, workPoolName string) ([]prefect.Worker, error) {
	m.Calls.FindWorkers = append(m.Calls.FindWorkers, workPoolName)
	if m.Impl.FindWorkers != nil {
		return m.Impl.FindWorkers(ctx, workPoolName)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) FindArtifacts(ctx context.Context, flowRunId string) ([]prefect.Artifact, error) {
	m.Calls.FindArtifacts = append(m.Calls.FindArtifacts, flowRunId)
	if m.Impl.FindArtifacts != nil {
		return m.Impl.FindArtifacts(ctx, flowRunId)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) GetBlockTypeBySlug(ctx context.Context, slug string) (prefect.BlockType, error) {
	m.Calls.GetBlockTypeBySlug = append(m.Calls.GetBlockTypeBySlug, slug)
	if m.Impl.GetBlockTypeBySlug != nil {
		return m.Impl.GetBlockTypeBySlug(ctx, slug)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) FindBlockSchemas(ctx context.Context, blockTypeId string) ([]prefect.BlockSchema, error) {
	m.Calls.FindBlockSchemas = append(m.Calls.FindBlockSchemas, blockTypeId)
	if m.Impl.FindBlockSchemas != nil {
		return m.Impl.FindBlockSchemas(ctx, blockTypeId)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) FindBlockDocuments(ctx context.Context, names []string) ([]prefect.BlockDocument, error) {
	m.Calls.FindBlockDocuments = append(m.Calls.FindBlockDocuments, names)
	if m.Impl.FindBlockDocuments != nil {
		return m.Impl.FindBlockDocuments(ctx, names)
	}
	panic(errShouldNotBeCalled)
}

func (m *Client) CreateBlockDocument(ctx context.Context, doc prefect.BlockDocument) (prefect.BlockDocument, error) {
	m.Calls.CreateBlockDocument = append(m.Calls.CreateBlockDocument, doc)
	if m.Impl.CreateBlockDocument != nil {
		return m.Impl.CreateBlockDocument(ctx, doc)
	}
	panic(errShouldNotBeCalled)
}
