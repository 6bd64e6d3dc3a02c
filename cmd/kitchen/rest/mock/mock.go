package mock

import (
	"context"

	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	tmock "github.com/mediacloud/sous-chef-kitchen/internal/testutils/mock"
	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	apiorders "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/orders"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
)

type StartRecipeArgs struct {
	Name       string
	Parameters map[string]any
}

type Client struct {
	Impl struct {
		ListRecipes     func(ctx context.Context) ([]apirecipes.Summary, error)
		GetRecipeSchema func(ctx context.Context, name string) (apirecipes.Schema, error)
		StartRecipe     func(ctx context.Context, name string, parameters map[string]any) (apiruns.Detail, error)
		FindRuns        func(ctx context.Context, state string) ([]apiruns.Detail, error)
		GetRun          func(ctx context.Context, runId string) (apiruns.Detail, error)
		GetRunArtifacts func(ctx context.Context, runId string) ([]apiruns.Artifact, error)
		CancelRun       func(ctx context.Context, runId string) error
		PauseRun        func(ctx context.Context, runId string) error
		ResumeRun       func(ctx context.Context, runId string) error
		ValidateAuth    func(ctx context.Context) (apiauth.Status, error)
		CreateSession   func(ctx context.Context) (apiauth.Session, error)
		SystemStatus    func(ctx context.Context) (apisystem.Status, error)
		FindOrders      func(ctx context.Context) ([]apiorders.Detail, error)
	}
	Calls struct {
		ListRecipes     tmock.CallLog[struct{}]
		GetRecipeSchema tmock.CallLog[string]
		StartRecipe     tmock.CallLog[StartRecipeArgs]
		FindRuns        tmock.CallLog[string]
		GetRun          tmock.CallLog[string]
		GetRunArtifacts tmock.CallLog[string]
		CancelRun       tmock.CallLog[string]
		PauseRun        tmock.CallLog[string]
		ResumeRun       tmock.CallLog[string]
		ValidateAuth    tmock.CallLog[struct{}]
		CreateSession   tmock.CallLog[struct{}]
		SystemStatus    tmock.CallLog[struct{}]
		FindOrders      tmock.CallLog[struct{}]
	}
}

var _ rest.KitchenClient = &Client{}

func New() *Client {
	return &Client{}
}

func (m *Client) ListRecipes(ctx context.Context) ([]apirecipes.Summary, error) {
	m.Calls.ListRecipes = append(m.Calls.ListRecipes, struct{}{})
	if m.Impl.ListRecipes == nil {
		panic("ListRecipes: it should not be called")
	}
	return m.Impl.ListRecipes(ctx)
}

func (m *Client) GetRecipeSchema(ctx context.Context, name string) (apirecipes.Schema, error) {
	m.Calls.GetRecipeSchema = append(m.Calls.GetRecipeSchema, name)
	if m.Impl.GetRecipeSchema == nil {
		panic("GetRecipeSchema: it should not be called")
	}
	return m.Impl.GetRecipeSchema(ctx, name)
}

func (m *Client) StartRecipe(ctx context.Context, name string, parameters map[string]any) (apiruns.Detail, error) {
	m.Calls.StartRecipe = append(m.Calls.StartRecipe, StartRecipeArgs{Name: name, Parameters: parameters})
	if m.Impl.StartRecipe == nil {
		panic("StartRecipe: it should not be called")
	}
	return m.Impl.StartRecipe(ctx, name, parameters)
}

func (m *Client) FindRuns(ctx context.Context, state string) ([]apiruns.Detail, error) {
	m.Calls.FindRuns = append(m.Calls.FindRuns, state)
	if m.Impl.FindRuns == nil {
		panic("FindRuns: it should not be called")
	}
	return m.Impl.FindRuns(ctx, state)
}

func (m *Client) GetRun(ctx context.Context, runId string) (apiruns.Detail, error) {
	m.Calls.GetRun = append(m.Calls.GetRun, runId)
	if m.Impl.GetRun == nil {
		panic("GetRun: it should not be called")
	}
	return m.Impl.GetRun(ctx, runId)
}

func (m *Client) GetRunArtifacts(ctx context.Context, runId string) ([]apiruns.Artifact, error) {
	m.Calls.GetRunArtifacts = append(m.Calls.GetRunArtifacts, runId)
	if m.Impl.GetRunArtifacts == nil {
		panic("GetRunArtifacts: it should not be called")
	}
	return m.Impl.GetRunArtifacts(ctx, runId)
}

func (m *Client) CancelRun(ctx context.Context, runId string) error {
	m.Calls.CancelRun = append(m.Calls.CancelRun, runId)
	if m.Impl.CancelRun == nil {
		panic("CancelRun: it should not be called")
	}
	return m.Impl.CancelRun(ctx, runId)
}

func (m *Client) PauseRun(ctx context.Context, runId string) error {
	m.Calls.PauseRun = append(m.Calls.PauseRun, runId)
	if m.Impl.PauseRun == nil {
		panic("PauseRun: it should not be called")
	}
	return m.Impl.PauseRun(ctx, runId)
}

func (m *Client) ResumeRun(ctx context.Context, runId string) error {
	m.Calls.ResumeRun = append(m.Calls.ResumeRun, runId)
	if m.Impl.ResumeRun == nil {
		panic("ResumeRun: it should not be called")
	}
	return m.Impl.ResumeRun(ctx, runId)
}

func (m *Client) ValidateAuth(ctx context.Context) (apiauth.Status, error) {
	m.Calls.ValidateAuth = append(m.Calls.ValidateAuth, struct{}{})
	if m.Impl.ValidateAuth == nil {
		panic("ValidateAuth: it should not be called")
	}
	return m.Impl.ValidateAuth(ctx)
}

func (m *Client) CreateSession(ctx context.Context) (apiauth.Session, error) {
	m.Calls.CreateSession = append(m.Calls.CreateSession, struct{}{})
	if m.Impl.CreateSession == nil {
		panic("CreateSession: it should not be called")
	}
	return m.Impl.CreateSession(ctx)
}

func (m *Client) SystemStatus(ctx context.Context) (apisystem.Status, error) {
	m.Calls.SystemStatus = append(m.Calls.SystemStatus, struct{}{})
	if m.Impl.SystemStatus == nil {
		panic("SystemStatus: it should not be called")
	}
	return m.Impl.SystemStatus(ctx)
}

func (m *Client) FindOrders(ctx context.Context) ([]apiorders.Detail, error) {
	m.Calls.FindOrders = append(m.Calls.FindOrders, struct{}{})
	if m.Impl.FindOrders == nil {
		panic("FindOrders: it should not be called")
	}
	return m.Impl.FindOrders(ctx)
}
