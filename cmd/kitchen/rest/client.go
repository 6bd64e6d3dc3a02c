package rest

import (
	"context"
	"net/http"
	"path"
	"strings"

	kprof "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/config/profiles"
	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	apiorders "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/orders"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
)

// KitchenClient talks to the kitchen API on behalf of one profile.
type KitchenClient interface {
	// ListRecipes returns the recipes the caller may order.
	ListRecipes(ctx context.Context) ([]apirecipes.Summary, error)

	// GetRecipeSchema returns the parameter schema of a recipe.
	GetRecipeSchema(ctx context.Context, name string) (apirecipes.Schema, error)

	// StartRecipe orders a recipe and returns the created run.
	StartRecipe(ctx context.Context, name string, parameters map[string]any) (apiruns.Detail, error)

	// FindRuns lists the caller's runs. state is "active", "paused" or
	// "all" ("" means all).
	FindRuns(ctx context.Context, state string) ([]apiruns.Detail, error)

	// GetRun returns one run.
	GetRun(ctx context.Context, runId string) (apiruns.Detail, error)

	// GetRunArtifacts returns the artifacts a finished run published.
	GetRunArtifacts(ctx context.Context, runId string) ([]apiruns.Artifact, error)

	// CancelRun asks the engine to cancel a run.
	CancelRun(ctx context.Context, runId string) error

	// PauseRun pauses an active run.
	PauseRun(ctx context.Context, runId string) error

	// ResumeRun resumes a paused run.
	ResumeRun(ctx context.Context, runId string) error

	// ValidateAuth reports how far the profile's credentials reach.
	ValidateAuth(ctx context.Context) (apiauth.Status, error)

	// CreateSession trades the profile's credentials for a session token.
	CreateSession(ctx context.Context) (apiauth.Session, error)

	// SystemStatus reports kitchen and engine readiness.
	SystemStatus(ctx context.Context) (apisystem.Status, error)

	// FindOrders lists the caller's journaled orders.
	FindOrders(ctx context.Context) ([]apiorders.Detail, error)
}

type client struct {
	httpclient *http.Client
	apiRoot    string
	email      string
	apiKey     string
	session    string
}

// NewClient creates a KitchenClient for the profile.
//
// When the profile has a fresh cached session, it is sent instead of
// the API key, sparing the server an upstream validation per request.
func NewClient(prof *kprof.KitchenProfile) (KitchenClient, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	c := &client{
		httpclient: new(http.Client),
		apiRoot:    strings.TrimSuffix(prof.ApiRoot, "/"),
		email:      prof.Email,
		apiKey:     prof.ApiKey,
	}
	if prof.Session.Fresh() {
		c.session = prof.Session.Token
	}
	return c, nil
}

func (c *client) apipath(parts ...string) string {
	p := path.Join(parts...)
	return c.apiRoot + "/" + p + "/"
}

// authorize sets the credential headers on a request.
func (c *client) authorize(req *http.Request) {
	if c.session != "" {
		req.Header.Set("Authorization", "Bearer "+c.session)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Mediacloud-Email", c.email)
}
