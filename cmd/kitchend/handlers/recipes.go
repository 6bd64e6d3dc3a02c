package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/errors"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/mediacloud/sous-chef-kitchen/pkg/domain/order"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen"
)

// RecipeBook lists recipes and their parameter schemas.
type RecipeBook interface {
	RecipeList(isAdmin bool) []apirecipes.Summary
	RecipeSchema(name string, isAdmin bool) (apirecipes.Schema, error)
}

// OrderTaker accepts recipe orders.
type OrderTaker interface {
	Start(ctx context.Context, order kitchen.Order) (apiruns.Detail, error)
}

func RecipeListHandler(book RecipeBook) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		return c.JSON(http.StatusOK, book.RecipeList(id.IsAdmin()))
	}
}

func RecipeSchemaHandler(book RecipeBook) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		schema, err := book.RecipeSchema(c.Param("name"), id.IsAdmin())
		if err != nil {
			return recipeError(err)
		}
		return c.JSON(http.StatusOK, schema)
	}
}

// RecipeOrderHandler enqueues a recipe order as a flow run.
//
// The accepted order is journaled best-effort: a journal failure is
// logged but the run, already enqueued, is reported to the caller.
func RecipeOrderHandler(taker OrderTaker, journal order.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}

		var req apirecipes.Order
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("request body should be a json object", err)
		}

		ctx := c.Request().Context()
		run, err := taker.Start(ctx, kitchen.Order{
			Recipe:             c.Param("name"),
			Parameters:         req.Parameters,
			Tags:               []string{id.Status.TagSlug},
			Email:              id.Email,
			IsAdmin:            id.IsAdmin(),
			FullTextAuthorized: id.Status.FullTextAuthorized,
		})
		if err != nil {
			return recipeError(err)
		}

		if journal != nil {
			if _, err := journal.Register(ctx, order.Order{
				RunId:      run.RunId,
				Recipe:     c.Param("name"),
				Email:      id.Email,
				TagSlug:    id.Status.TagSlug,
				Parameters: run.Parameters,
			}); err != nil {
				c.Logger().Warnf("order for run %s not journaled: %s", run.RunId, err)
			}
		}

		return c.JSON(http.StatusCreated, run)
	}
}

func recipeError(err error) error {
	switch {
	case errors.Is(err, kitchen.ErrRecipeNotFound):
		return apierr.NotFound()
	case errors.Is(err, kitchen.ErrAdminOnly):
		return apierr.Forbidden("recipe is admin-only", err)
	case errors.Is(err, kitchen.ErrInvalidParams):
		return apierr.BadRequest("parameters do not satisfy the recipe schema", err)
	case errors.Is(err, kitchen.ErrQuotaExceeded):
		return apierr.Conflict(
			"too many active runs",
			apierr.WithError(err),
			apierr.WithAdvice("wait for your runs to finish, or cancel some"),
		)
	case errors.Is(err, kitchen.ErrNoDeployment):
		return apierr.ServiceUnavailable("kitchen deployment is not provisioned", err)
	default:
		return apierr.InternalServerError(err)
	}
}
