package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/errors"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen"
)

// RunFetcher reads kitchen run state from the workflow engine.
type RunFetcher interface {
	FetchAllRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error)
	FetchActiveRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error)
	FetchPausedRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error)
	FetchRunById(ctx context.Context, runId string) (apiruns.Detail, error)
	FetchRunArtifacts(ctx context.Context, runId string) ([]apiruns.Artifact, error)
}

// RunController changes kitchen run state.
type RunController interface {
	CancelRun(ctx context.Context, runId string, requiredTags []string) error
	PauseRun(ctx context.Context, runId string, tags []string) error
	ResumeRun(ctx context.Context, runId string, tags []string) error
}

// scopeTags are the tags a caller's run queries are restricted to.
// Staff see every kitchen run; others only their own.
func scopeTags(id Identity) []string {
	if id.IsAdmin() {
		return nil
	}
	return []string{id.Status.TagSlug}
}

// FindRunsHandler lists runs. ?state=active|paused|all selects by state
// (default all); ?subflows includes subflow runs.
func FindRunsHandler(fetcher RunFetcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}

		subflows := false
		if qp := c.QueryParams(); qp.Has("subflows") {
			subflows = qp.Get("subflows") != "false"
		}

		var (
			runs []apiruns.Detail
			err  error
		)
		ctx := c.Request().Context()
		switch state := c.QueryParam("state"); state {
		case "", "all":
			runs, err = fetcher.FetchAllRuns(ctx, scopeTags(id), subflows)
		case "active":
			runs, err = fetcher.FetchActiveRuns(ctx, scopeTags(id), subflows)
		case "paused":
			runs, err = fetcher.FetchPausedRuns(ctx, scopeTags(id), subflows)
		default:
			return apierr.BadRequest(`"state" should be one of "active", "paused" or "all"`, nil)
		}
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, runs)
	}
}

func GetRunHandler(fetcher RunFetcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}

		run, err := fetcher.FetchRunById(c.Request().Context(), c.Param("runId"))
		if err != nil {
			return runError(err)
		}
		if !ownsRun(id, run) {
			return apierr.NotFound()
		}
		return c.JSON(http.StatusOK, run)
	}
}

func RunArtifactsHandler(fetcher RunFetcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}

		ctx := c.Request().Context()
		runId := c.Param("runId")

		run, err := fetcher.FetchRunById(ctx, runId)
		if err != nil {
			return runError(err)
		}
		if !ownsRun(id, run) {
			return apierr.NotFound()
		}

		artifacts, err := fetcher.FetchRunArtifacts(ctx, runId)
		if err != nil {
			return runError(err)
		}
		return c.JSON(http.StatusOK, artifacts)
	}
}

func CancelRunHandler(ctl RunController) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		if err := ctl.CancelRun(
			c.Request().Context(), c.Param("runId"), scopeTags(id),
		); err != nil {
			return runError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func PauseRunHandler(ctl RunController) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		if err := ctl.PauseRun(
			c.Request().Context(), c.Param("runId"), scopeTags(id),
		); err != nil {
			return runError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func ResumeRunHandler(ctl RunController) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		if err := ctl.ResumeRun(
			c.Request().Context(), c.Param("runId"), scopeTags(id),
		); err != nil {
			return runError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// ownsRun: staff see every run; others only runs tagged with their slug.
// Non-kitchen runs are invisible to everyone.
func ownsRun(id Identity, run apiruns.Detail) bool {
	if !hasTag(run, kitchen.BaseTag) {
		return false
	}
	if id.IsAdmin() {
		return true
	}
	return hasTag(run, id.Status.TagSlug)
}

func hasTag(run apiruns.Detail, tag string) bool {
	for _, t := range run.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func runError(err error) error {
	switch {
	case errors.Is(err, kitchen.ErrRunNotFound):
		return apierr.NotFound()
	case errors.Is(err, kitchen.ErrRunNotAuthorized):
		return apierr.Forbidden("run is not yours", err)
	case errors.Is(err, kitchen.ErrStateRefused):
		return apierr.Conflict("engine refused the state change", apierr.WithError(err))
	default:
		return apierr.InternalServerError(err)
	}
}
