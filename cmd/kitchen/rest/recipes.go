package rest

import (
	"context"
	"fmt"
	"net/http"

	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
)

func (c *client) ListRecipes(ctx context.Context) ([]apirecipes.Summary, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("recipes"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	recipes := []apirecipes.Summary{}
	if err := unmarshalJsonResponse(
		resp, &recipes,
		MessageFor{
			Status4xx: "cannot list recipes",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *client) GetRecipeSchema(ctx context.Context, name string) (apirecipes.Schema, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("recipes", name, "schema"), nil)
	if err != nil {
		return apirecipes.Schema{}, err
	}
	defer resp.Body.Close()

	var schema apirecipes.Schema
	if err := unmarshalJsonResponse(
		resp, &schema,
		MessageFor{
			Status4xx: fmt.Sprintf("recipe %s is not found", name),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apirecipes.Schema{}, err
	}
	return schema, nil
}

func (c *client) StartRecipe(
	ctx context.Context, name string, parameters map[string]any,
) (apiruns.Detail, error) {
	resp, err := c.request(
		ctx, http.MethodPost, c.apipath("recipes", name, "order"),
		apirecipes.Order{Parameters: parameters},
	)
	if err != nil {
		return apiruns.Detail{}, err
	}
	defer resp.Body.Close()

	var run apiruns.Detail
	if err := unmarshalJsonResponse(
		resp, &run,
		MessageFor{
			Status4xx: fmt.Sprintf("the kitchen rejected the order for %s", name),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apiruns.Detail{}, err
	}
	return run, nil
}
