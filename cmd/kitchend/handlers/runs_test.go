package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	handlers "github.com/mediacloud/sous-chef-kitchen/cmd/kitchend/handlers"
	httptestutil "github.com/mediacloud/sous-chef-kitchen/internal/testutils/http"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/cmp"
)

const runId = "f2b5f6c1-9df1-4d5e-bd6b-2b1b1f9a7a10"

func TestFindRunsHandler(t *testing.T) {

	t.Run("it scopes the query by caller, state and subflows", func(t *testing.T) {
		type when struct {
			request  string
			identity handlers.Identity
		}
		type then struct {
			fetched  func(m *mockChef) CallLog[fetchScope]
			tags     []string
			subflows bool
		}

		for name, testcase := range map[string]struct {
			when
			then
		}{
			"a plain user asking all runs is pinned to their slug": {
				when{
					request:  "/api/runs/",
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
				},
				then{
					fetched: func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchAllRuns },
					tags:    []string{"user-user-cafe0123"},
				},
			},
			"staff asking all runs see everything": {
				when{
					request:  "/api/runs/?state=all",
					identity: staffIdentity("admin@example.org", "user-admin-beef4567"),
				},
				then{
					fetched: func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchAllRuns },
					tags:    nil,
				},
			},
			"state=active selects active runs": {
				when{
					request:  "/api/runs/?state=active",
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
				},
				then{
					fetched: func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchActiveRuns },
					tags:    []string{"user-user-cafe0123"},
				},
			},
			"state=paused selects paused runs": {
				when{
					request:  "/api/runs/?state=paused",
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
				},
				then{
					fetched: func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchPausedRuns },
					tags:    []string{"user-user-cafe0123"},
				},
			},
			"subflows=true includes subflow runs": {
				when{
					request:  "/api/runs/?subflows=true",
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
				},
				then{
					fetched:  func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchAllRuns },
					tags:     []string{"user-user-cafe0123"},
					subflows: true,
				},
			},
			"a bare subflows flag counts as true": {
				when{
					request:  "/api/runs/?state=active&subflows",
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
				},
				then{
					fetched:  func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchActiveRuns },
					tags:     []string{"user-user-cafe0123"},
					subflows: true,
				},
			},
			"subflows=false stays parent-only": {
				when{
					request:  "/api/runs/?subflows=false",
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
				},
				then{
					fetched: func(m *mockChef) CallLog[fetchScope] { return m.Calls.FetchAllRuns },
					tags:    []string{"user-user-cafe0123"},
				},
			},
		} {
			t.Run(name, func(t *testing.T) {
				fetcher := &mockChef{}
				found := []apiruns.Detail{{RunId: runId, StateType: "RUNNING"}}
				fetch := func(ctx context.Context, tags []string, withSubflows bool) ([]apiruns.Detail, error) {
					return found, nil
				}
				fetcher.Impl.FetchAllRuns = fetch
				fetcher.Impl.FetchActiveRuns = fetch
				fetcher.Impl.FetchPausedRuns = fetch

				e := echo.New()
				c, resp := httptestutil.Get(e, testcase.when.request)
				handlers.SetIdentity(c, testcase.when.identity)

				if err := handlers.FindRunsHandler(fetcher)(c); err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				if resp.Code != http.StatusOK {
					t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
				}

				calls := testcase.then.fetched(fetcher)
				if calls.Times() != 1 {
					t.Fatalf("fetch is called %d times, want 1", calls.Times())
				}
				if !cmp.SliceEq(calls[0].Tags, testcase.then.tags) {
					t.Errorf("tags: got %v, want %v", calls[0].Tags, testcase.then.tags)
				}
				if calls[0].Subflows != testcase.then.subflows {
					t.Errorf("subflows: got %v, want %v", calls[0].Subflows, testcase.then.subflows)
				}

				var body []apiruns.Detail
				if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
					t.Fatalf("response is not json: %s", err)
				}
				if len(body) != 1 || body[0].RunId != runId {
					t.Errorf("body: got %+v", body)
				}
			})
		}
	})

	t.Run("it rejects an unknown state", func(t *testing.T) {
		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/runs/?state=meditating")
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		err := handlers.FindRunsHandler(&mockChef{})(c)
		var httperr *echo.HTTPError
		if !errors.As(err, &httperr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		}
		if httperr.Code != http.StatusBadRequest {
			t.Errorf("status code: got %d, want %d", httperr.Code, http.StatusBadRequest)
		}
	})
}

func TestGetRunHandler(t *testing.T) {

	t.Run("it hides runs not owned by the caller", func(t *testing.T) {
		type when struct {
			identity handlers.Identity
			runTags  []string
		}
		type then struct {
			statusCode int
		}

		for name, testcase := range map[string]struct {
			when
			then
		}{
			"the owner sees their run": {
				when{
					identity: userIdentity("user@example.org", "user-user-cafe0123"),
					runTags:  []string{kitchen.BaseTag, "user-user-cafe0123"},
				},
				then{statusCode: http.StatusOK},
			},
			"staff see any kitchen run": {
				when{
					identity: staffIdentity("admin@example.org", "user-admin-beef4567"),
					runTags:  []string{kitchen.BaseTag, "user-user-cafe0123"},
				},
				then{statusCode: http.StatusOK},
			},
			"another user's run reads as missing": {
				when{
					identity: userIdentity("other@example.org", "user-other-0badf00d"),
					runTags:  []string{kitchen.BaseTag, "user-user-cafe0123"},
				},
				then{statusCode: http.StatusNotFound},
			},
			"runs outside the kitchen are invisible even to staff": {
				when{
					identity: staffIdentity("admin@example.org", "user-admin-beef4567"),
					runTags:  []string{"some-other-system"},
				},
				then{statusCode: http.StatusNotFound},
			},
		} {
			t.Run(name, func(t *testing.T) {
				fetcher := &mockChef{}
				fetcher.Impl.FetchRunById = func(ctx context.Context, id string) (apiruns.Detail, error) {
					return apiruns.Detail{RunId: id, Tags: testcase.when.runTags}, nil
				}

				e := echo.New()
				c, resp := httptestutil.Get(e, "/api/runs/"+runId+"/")
				c.SetParamNames("runId")
				c.SetParamValues(runId)
				handlers.SetIdentity(c, testcase.when.identity)

				err := handlers.GetRunHandler(fetcher)(c)
				if testcase.then.statusCode == http.StatusOK {
					if err != nil {
						t.Fatalf("unexpected error: %s", err)
					}
					if resp.Code != http.StatusOK {
						t.Errorf("status code: got %d, want 200", resp.Code)
					}
					return
				}

				var httperr *echo.HTTPError
				if !errors.As(err, &httperr) {
					t.Fatalf("error is not echo.HTTPError: %+v", err)
				}
				if httperr.Code != testcase.then.statusCode {
					t.Errorf("status code: got %d, want %d", httperr.Code, testcase.then.statusCode)
				}
			})
		}
	})

	t.Run("it returns 404 for a missing run", func(t *testing.T) {
		fetcher := &mockChef{}
		fetcher.Impl.FetchRunById = func(ctx context.Context, id string) (apiruns.Detail, error) {
			return apiruns.Detail{}, fmt.Errorf("%w: %s", kitchen.ErrRunNotFound, id)
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/runs/"+runId+"/")
		c.SetParamNames("runId")
		c.SetParamValues(runId)
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		err := handlers.GetRunHandler(fetcher)(c)
		var httperr *echo.HTTPError
		if !errors.As(err, &httperr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		}
		if httperr.Code != http.StatusNotFound {
			t.Errorf("status code: got %d, want 404", httperr.Code)
		}
	})
}

func TestCancelRunHandler(t *testing.T) {

	t.Run("it cancels with the caller's scope", func(t *testing.T) {
		ctl := &mockChef{}
		ctl.Impl.CancelRun = func(ctx context.Context, id string, tags []string) error {
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(e, "/api/runs/"+runId+"/cancel/", nil)
		c.SetParamNames("runId")
		c.SetParamValues(runId)
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		if err := handlers.CancelRunHandler(ctl)(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("status code: got %d, want 204", resp.Code)
		}
		if ctl.Calls.CancelRun.Times() != 1 {
			t.Fatalf("CancelRun is called %d times, want 1", ctl.Calls.CancelRun.Times())
		}
		call := ctl.Calls.CancelRun[0]
		if call.RunId != runId {
			t.Errorf("run id: got %s", call.RunId)
		}
		if !cmp.SliceEq(call.Tags, []string{"user-user-cafe0123"}) {
			t.Errorf("tags: got %v", call.Tags)
		}
	})

	t.Run("it maps chef errors to http errors", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			chefErr error
			want    int
		}{
			"404 when the run is missing": {
				chefErr: fmt.Errorf("%w: %s", kitchen.ErrRunNotFound, runId),
				want:    http.StatusNotFound,
			},
			"403 when the run is someone else's": {
				chefErr: fmt.Errorf("%w: %s", kitchen.ErrRunNotAuthorized, runId),
				want:    http.StatusForbidden,
			},
			"409 when the engine refuses": {
				chefErr: fmt.Errorf("%w: already terminal", kitchen.ErrStateRefused),
				want:    http.StatusConflict,
			},
		} {
			t.Run(name, func(t *testing.T) {
				ctl := &mockChef{}
				ctl.Impl.CancelRun = func(context.Context, string, []string) error {
					return testcase.chefErr
				}

				e := echo.New()
				c, _ := httptestutil.Post(e, "/api/runs/"+runId+"/cancel/", nil)
				c.SetParamNames("runId")
				c.SetParamValues(runId)
				handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

				err := handlers.CancelRunHandler(ctl)(c)
				var httperr *echo.HTTPError
				if !errors.As(err, &httperr) {
					t.Fatalf("error is not echo.HTTPError: %+v", err)
				}
				if httperr.Code != testcase.want {
					t.Errorf("status code: got %d, want %d", httperr.Code, testcase.want)
				}
			})
		}
	})
}

func TestPauseResumeHandlers(t *testing.T) {

	t.Run("pause returns 204 on success", func(t *testing.T) {
		ctl := &mockChef{}
		ctl.Impl.PauseRun = func(ctx context.Context, id string, tags []string) error {
			if id != runId {
				t.Errorf("run id: got %s", id)
			}
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(e, "/api/runs/"+runId+"/pause/", nil)
		c.SetParamNames("runId")
		c.SetParamValues(runId)
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		if err := handlers.PauseRunHandler(ctl)(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("status code: got %d, want 204", resp.Code)
		}
	})

	t.Run("resume returns 404 when the run is not paused", func(t *testing.T) {
		ctl := &mockChef{}
		ctl.Impl.ResumeRun = func(context.Context, string, []string) error {
			return fmt.Errorf("%w: no paused run", kitchen.ErrRunNotFound)
		}

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/runs/"+runId+"/resume/", nil)
		c.SetParamNames("runId")
		c.SetParamValues(runId)
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		err := handlers.ResumeRunHandler(ctl)(c)
		var httperr *echo.HTTPError
		if !errors.As(err, &httperr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		}
		if httperr.Code != http.StatusNotFound {
			t.Errorf("status code: got %d, want 404", httperr.Code)
		}
	})
}
