package kitchen

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
)

var uuidPattern = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`,
)

func composeDetail(run prefect.FlowRun) apiruns.Detail {
	return apiruns.Detail{
		RunId:      run.Id,
		Name:       run.Name,
		Parameters: run.Parameters,
		StateName:  run.StateName,
		StateType:  string(run.StateType),
		Tags:       run.Tags,
		Created:    run.Created,
	}
}

func composeArtifact(a prefect.Artifact) apiruns.Artifact {
	return apiruns.Artifact{
		Type:        a.Type,
		Key:         a.Key,
		Data:        a.Data,
		Description: a.Description,
	}
}

// FetchAllRuns returns every kitchen run matching tags, newest first.
// Subflow runs (those with a parent task run) are excluded unless
// withSubflows is set.
func (c *Chef) FetchAllRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
	return c.fetchRuns(ctx, tags, nil, withSubflows)
}

// FetchActiveRuns returns running, scheduled and pending kitchen runs.
func (c *Chef) FetchActiveRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
	return c.fetchRuns(ctx, tags, prefect.ActiveStates, withSubflows)
}

// FetchPausedRuns returns paused kitchen runs.
func (c *Chef) FetchPausedRuns(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
	return c.fetchRuns(ctx, tags, []prefect.StateType{prefect.Paused}, withSubflows)
}

func (c *Chef) fetchRuns(
	ctx context.Context, tags []string, states []prefect.StateType, withSubflows bool,
) ([]apiruns.Detail, error) {
	runs, err := c.engine.FindFlowRuns(ctx, prefect.FlowRunFilter{
		TagsAll:    withBaseTag(tags),
		StateTypes: states,
	})
	if err != nil {
		return nil, err
	}

	out := make([]apiruns.Detail, 0, len(runs))
	for _, r := range runs {
		if r.ParentTaskRunId != nil && !withSubflows {
			continue
		}
		out = append(out, composeDetail(r))
	}
	return out, nil
}

// FetchRunById returns one run by its UUID.
func (c *Chef) FetchRunById(ctx context.Context, runId string) (apiruns.Detail, error) {
	if !uuidPattern.MatchString(runId) {
		return apiruns.Detail{}, fmt.Errorf("%w: %q is not a UUID", ErrRunNotFound, runId)
	}
	run, err := c.engine.GetFlowRun(ctx, runId)
	if errors.Is(err, prefect.ErrNotFound) {
		return apiruns.Detail{}, fmt.Errorf("%w: %s", ErrRunNotFound, runId)
	}
	if err != nil {
		return apiruns.Detail{}, err
	}
	return composeDetail(run), nil
}

// FetchRunArtifacts returns the artifacts a run published.
func (c *Chef) FetchRunArtifacts(ctx context.Context, runId string) ([]apiruns.Artifact, error) {
	if !uuidPattern.MatchString(runId) {
		return nil, fmt.Errorf("%w: %q is not a UUID", ErrRunNotFound, runId)
	}
	artifacts, err := c.engine.FindArtifacts(ctx, runId)
	if err != nil {
		return nil, err
	}
	out := make([]apiruns.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, composeArtifact(a))
	}
	return out, nil
}

// CancelRun moves a run to CANCELLING.
//
// The run must carry every one of requiredTags (plus the base tag):
// a caller may only cancel their own runs, unless they pass no tags
// (the admin path, which still requires the base tag).
func (c *Chef) CancelRun(ctx context.Context, runId string, requiredTags []string) error {
	if !uuidPattern.MatchString(runId) {
		return fmt.Errorf("%w: %q is not a UUID", ErrRunNotFound, runId)
	}
	run, err := c.engine.GetFlowRun(ctx, runId)
	if errors.Is(err, prefect.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runId)
	}
	if err != nil {
		return err
	}

	required := withBaseTag(requiredTags)
	if !run.HasTags(required) {
		return fmt.Errorf(
			"%w: run %s requires %v, has %v", ErrRunNotAuthorized, runId, required, run.Tags,
		)
	}

	result, err := c.engine.SetFlowRunState(
		ctx, runId, prefect.State{Type: prefect.Cancelling},
	)
	if err != nil {
		return err
	}
	if result.Status == prefect.SetStateAbort {
		return fmt.Errorf("%w: %s", ErrStateRefused, result.Details.Reason)
	}
	return nil
}

// PauseRun pauses an active run carrying the caller's tags.
func (c *Chef) PauseRun(ctx context.Context, runId string, tags []string) error {
	active, err := c.FetchActiveRuns(ctx, tags, false)
	if err != nil {
		return err
	}
	if !containsRun(active, runId) {
		return fmt.Errorf("%w: no active run %s", ErrRunNotFound, runId)
	}

	result, err := c.engine.SetFlowRunState(ctx, runId, prefect.State{Type: prefect.Paused})
	if err != nil {
		return err
	}
	if result.Status == prefect.SetStateAbort || result.Status == prefect.SetStateReject {
		return fmt.Errorf("%w: %s", ErrStateRefused, result.Details.Reason)
	}
	return nil
}

// ResumeRun resumes a paused run carrying the caller's tags.
func (c *Chef) ResumeRun(ctx context.Context, runId string, tags []string) error {
	paused, err := c.FetchPausedRuns(ctx, tags, false)
	if err != nil {
		return err
	}
	if !containsRun(paused, runId) {
		return fmt.Errorf("%w: no paused run %s", ErrRunNotFound, runId)
	}

	result, err := c.engine.ResumeFlowRun(ctx, runId)
	if err != nil {
		return err
	}
	if result.Status == prefect.SetStateAbort || result.Status == prefect.SetStateReject {
		return fmt.Errorf("%w: %s", ErrStateRefused, result.Details.Reason)
	}
	return nil
}

func containsRun(runs []apiruns.Detail, runId string) bool {
	for _, r := range runs {
		if r.RunId == runId {
			return true
		}
	}
	return false
}
