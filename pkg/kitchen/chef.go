// Package kitchen is the domain core: it fields recipe orders, applies
// the kitchen's authorization and quota rules, and drives the workflow
// engine to cook them.
package kitchen

import (
	"context"
	"fmt"

	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
	"github.com/mediacloud/sous-chef-kitchen/pkg/recipe"
)

// BaseTag marks every flow run owned by the kitchen.
const BaseTag = "kitchen"

// EmailParam is the recipe parameter that receives the requester's
// address when the recipe declares it.
const EmailParam = "EMAIL_TO"

// Chef fields orders from the kitchen API to the workflow engine.
type Chef struct {
	engine  prefect.Client
	recipes *recipe.Registry

	deployment   string
	workPool     string
	maxUserFlows int
}

// New creates a Chef.
//
// deployment is the engine deployment orders are enqueued into,
// workPool the pool whose readiness SystemStatus reports, and
// maxUserFlows the per-user active run quota (0 disables the quota).
func New(
	engine prefect.Client,
	recipes *recipe.Registry,
	deployment string,
	workPool string,
	maxUserFlows int,
) *Chef {
	return &Chef{
		engine:       engine,
		recipes:      recipes,
		deployment:   deployment,
		workPool:     workPool,
		maxUserFlows: maxUserFlows,
	}
}

// MaxUserFlows is the per-user active run quota.
func (c *Chef) MaxUserFlows() int {
	return c.maxUserFlows
}

// Order is a request to start a recipe.
type Order struct {
	Recipe     string
	Parameters map[string]any

	// Tags of the requester (their tag slug). BaseTag is always added.
	Tags []string

	// Email of the authenticated requester, injected into EmailParam
	// when the recipe declares it.
	Email string

	IsAdmin            bool
	FullTextAuthorized bool
}

// Start validates and enqueues an order, returning the created flow run.
func (c *Chef) Start(ctx context.Context, order Order) (apiruns.Detail, error) {
	r, ok := c.recipes.Get(order.Recipe)
	if !ok {
		return apiruns.Detail{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, order.Recipe)
	}
	if r.AdminOnly && !order.IsAdmin {
		return apiruns.Detail{}, fmt.Errorf("%w: %s", ErrAdminOnly, order.Recipe)
	}

	params, err := r.ValidateParams(order.Parameters)
	if err != nil {
		return apiruns.Detail{}, fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}
	injectEmail(r, params, order.Email)

	tags := withBaseTag(order.Tags)

	if c.maxUserFlows > 0 {
		active, err := c.FetchActiveRuns(ctx, order.Tags, false)
		if err != nil {
			return apiruns.Detail{}, err
		}
		if len(active) >= c.maxUserFlows {
			return apiruns.Detail{}, fmt.Errorf(
				"%w: %d/%d runs active, wait for them to finish or cancel them",
				ErrQuotaExceeded, len(active), c.maxUserFlows,
			)
		}
	}

	deps, err := c.engine.FindDeployments(ctx, []string{c.deployment})
	if err != nil {
		return apiruns.Detail{}, err
	}
	if len(deps) == 0 {
		return apiruns.Detail{}, fmt.Errorf("%w: %s", ErrNoDeployment, c.deployment)
	}

	// The deployed flow receives the order, not the rendered pipeline:
	// rendering happens at cook time against the worker's recipe copy.
	flowParams := map[string]any{
		"recipe_name":                 order.Recipe,
		"tags":                        tags,
		"parameters":                  params,
		"return_restricted_artifacts": order.FullTextAuthorized,
	}

	run, err := c.engine.CreateFlowRunFromDeployment(ctx, deps[0].Id, flowParams, tags)
	if err != nil {
		return apiruns.Detail{}, err
	}
	return composeDetail(run), nil
}

func injectEmail(r recipe.Recipe, params map[string]any, email string) {
	if email == "" {
		return
	}
	declared := false
	for _, p := range r.Params {
		if p.Name == EmailParam {
			declared = true
			break
		}
	}
	if !declared {
		return
	}

	var list []string
	switch v := params[EmailParam].(type) {
	case nil:
	case string:
		if v != "" {
			list = []string{v}
		}
	case []string:
		list = v
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				list = append(list, s)
			}
		}
	}
	for _, e := range list {
		if e == email {
			params[EmailParam] = list
			return
		}
	}
	params[EmailParam] = append(list, email)
}

func withBaseTag(tags []string) []string {
	for _, t := range tags {
		if t == BaseTag {
			return append([]string{}, tags...)
		}
	}
	return append(append([]string{}, tags...), BaseTag)
}

// RecipeList returns the catalog, hiding admin-only recipes from
// non-admin callers.
func (c *Chef) RecipeList(isAdmin bool) []apirecipes.Summary {
	all := c.recipes.List()
	out := make([]apirecipes.Summary, 0, len(all))
	for _, r := range all {
		if r.AdminOnly && !isAdmin {
			continue
		}
		out = append(out, r.Summary())
	}
	return out
}

// RecipeSchema returns the parameter schema of a recipe. Admin-only
// recipes are reported as not found to non-admin callers so their
// existence does not leak.
func (c *Chef) RecipeSchema(name string, isAdmin bool) (apirecipes.Schema, error) {
	r, ok := c.recipes.Get(name)
	if !ok || (r.AdminOnly && !isAdmin) {
		return apirecipes.Schema{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	return r.Schema(), nil
}
