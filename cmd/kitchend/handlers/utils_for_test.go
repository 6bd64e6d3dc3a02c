package handlers_test

import (
	"context"

	handlers "github.com/mediacloud/sous-chef-kitchen/cmd/kitchend/handlers"
	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen"
)

type CallLog[T any] []T

func (l CallLog[T]) Times() int {
	return len(l)
}

// mockChef stubs the chef seams handlers depend on.
type mockChef struct {
	Impl struct {
		RecipeList   func(isAdmin bool) []apirecipes.Summary
		RecipeSchema func(name string, isAdmin bool) (apirecipes.Schema, error)
		Start        func(ctx context.Context, order kitchen.Order) (apiruns.Detail, error)

		FetchAllRuns      func(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error)
		FetchActiveRuns   func(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error)
		FetchPausedRuns   func(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error)
		FetchRunById      func(ctx context.Context, runId string) (apiruns.Detail, error)
		FetchRunArtifacts func(ctx context.Context, runId string) ([]apiruns.Artifact, error)

		CancelRun func(ctx context.Context, runId string, requiredTags []string) error
		PauseRun  func(ctx context.Context, runId string, tags []string) error
		ResumeRun func(ctx context.Context, runId string, tags []string) error

		SystemStatus func(ctx context.Context) apisystem.Status
	}
	Calls struct {
		Start     CallLog[kitchen.Order]
		CancelRun CallLog[struct {
			RunId string
			Tags  []string
		}]
		FetchAllRuns    CallLog[fetchScope]
		FetchActiveRuns CallLog[fetchScope]
		FetchPausedRuns CallLog[fetchScope]
	}
}

// fetchScope records how a fetch was resolved from the request.
type fetchScope struct {
	Tags     []string
	Subflows bool
}

func (m *mockChef) RecipeList(isAdmin bool) []apirecipes.Summary {
	if m.Impl.RecipeList != nil {
		return m.Impl.RecipeList(isAdmin)
	}
	panic("it should not be called")
}

func (m *mockChef) RecipeSchema(name string, isAdmin bool) (apirecipes.Schema, error) {
	if m.Impl.RecipeSchema != nil {
		return m.Impl.RecipeSchema(name, isAdmin)
	}
	panic("it should not be called")
}

func (m *mockChef) Start(ctx context.Context, order kitchen.Order) (apiruns.Detail, error) {
	m.Calls.Start = append(m.Calls.Start, order)
	if m.Impl.Start != nil {
		return m.Impl.Start(ctx, order)
	}
	panic("it should not be called")
}

func (m *mockChef) FetchAllRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
	m.Calls.FetchAllRuns = append(m.Calls.FetchAllRuns, fetchScope{Tags: tags, Subflows: withSubflows})
	if m.Impl.FetchAllRuns != nil {
		return m.Impl.FetchAllRuns(ctx, tags, withSubflows)
	}
	panic("it should not be called")
}

func (m *mockChef) FetchActiveRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
	m.Calls.FetchActiveRuns = append(m.Calls.FetchActiveRuns, fetchScope{Tags: tags, Subflows: withSubflows})
	if m.Impl.FetchActiveRuns != nil {
		return m.Impl.FetchActiveRuns(ctx, tags, withSubflows)
	}
	panic("it should not be called")
}

func (m *mockChef) FetchPausedRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
	m.Calls.FetchPausedRuns = append(m.Calls.FetchPausedRuns, fetchScope{Tags: tags, Subflows: withSubflows})
	if m.Impl.FetchPausedRuns != nil {
		return m.Impl.FetchPausedRuns(ctx, tags, withSubflows)
	}
	panic("it should not be called")
}

func (m *mockChef) FetchRunById(ctx context.Context, runId string) (apiruns.Detail, error) {
	if m.Impl.FetchRunById != nil {
		return m.Impl.FetchRunById(ctx, runId)
	}
	panic("it should not be called")
}

func (m *mockChef) FetchRunArtifacts(ctx context.Context, runId string) ([]apiruns.Artifact, error) {
	if m.Impl.FetchRunArtifacts != nil {
		return m.Impl.FetchRunArtifacts(ctx, runId)
	}
	panic("it should not be called")
}

func (m *mockChef) CancelRun(ctx context.Context, runId string, requiredTags []string) error {
	m.Calls.CancelRun = append(m.Calls.CancelRun, struct {
		RunId string
		Tags  []string
	}{RunId: runId, Tags: requiredTags})
	if m.Impl.CancelRun != nil {
		return m.Impl.CancelRun(ctx, runId, requiredTags)
	}
	panic("it should not be called")
}

func (m *mockChef) PauseRun(ctx context.Context, runId string, tags []string) error {
	if m.Impl.PauseRun != nil {
		return m.Impl.PauseRun(ctx, runId, tags)
	}
	panic("it should not be called")
}

func (m *mockChef) ResumeRun(ctx context.Context, runId string, tags []string) error {
	if m.Impl.ResumeRun != nil {
		return m.Impl.ResumeRun(ctx, runId, tags)
	}
	panic("it should not be called")
}

func (m *mockChef) SystemStatus(ctx context.Context) apisystem.Status {
	if m.Impl.SystemStatus != nil {
		return m.Impl.SystemStatus(ctx)
	}
	panic("it should not be called")
}

func userIdentity(email, slug string) handlers.Identity {
	return handlers.Identity{
		Email: email,
		Status: apiauth.Status{
			MediaCloudAuthorized: true,
			SousChefAuthorized:   true,
			TagSlug:              slug,
		},
	}
}

func staffIdentity(email, slug string) handlers.Identity {
	return handlers.Identity{
		Email: email,
		Status: apiauth.Status{
			MediaCloudAuthorized: true,
			MediaCloudStaff:      true,
			FullTextAuthorized:   true,
			SousChefAuthorized:   true,
			TagSlug:              slug,
		},
	}
}
