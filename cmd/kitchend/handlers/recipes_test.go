package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	handlers "github.com/mediacloud/sous-chef-kitchen/cmd/kitchend/handlers"
	httptestutil "github.com/mediacloud/sous-chef-kitchen/internal/testutils/http"
	apierr "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/errors"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/mediacloud/sous-chef-kitchen/pkg/domain/order"
	mockorder "github.com/mediacloud/sous-chef-kitchen/pkg/domain/order/db/mock"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/cmp"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/try"
)

func TestRecipeListHandler(t *testing.T) {

	t.Run("it returns recipes the caller may see", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			identity  handlers.Identity
			wantAdmin bool
		}{
			"when the caller is a plain user": {
				identity:  userIdentity("user@example.org", "user-user-cafe0123"),
				wantAdmin: false,
			},
			"when the caller is staff": {
				identity:  staffIdentity("admin@example.org", "user-admin-beef4567"),
				wantAdmin: true,
			},
		} {
			t.Run(name, func(t *testing.T) {
				book := &mockChef{}
				listed := []apirecipes.Summary{
					{Name: "top-words", Description: "count words"},
				}
				gotAdmin := false
				book.Impl.RecipeList = func(isAdmin bool) []apirecipes.Summary {
					gotAdmin = isAdmin
					return listed
				}

				e := echo.New()
				c, resp := httptestutil.Get(e, "/api/recipes/")
				handlers.SetIdentity(c, testcase.identity)

				err := handlers.RecipeListHandler(book)(c)
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				if gotAdmin != testcase.wantAdmin {
					t.Errorf("isAdmin: got %v, want %v", gotAdmin, testcase.wantAdmin)
				}
				if resp.Code != http.StatusOK {
					t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
				}

				body := try.To(func() ([]apirecipes.Summary, error) {
					var b []apirecipes.Summary
					err := json.Unmarshal(resp.Body.Bytes(), &b)
					return b, err
				}()).OrFatal(t)
				if !cmp.SliceEq(body, listed) {
					t.Errorf("body: got %+v, want %+v", body, listed)
				}
			})
		}
	})
}

func TestRecipeSchemaHandler(t *testing.T) {

	t.Run("it returns the schema of a recipe", func(t *testing.T) {
		book := &mockChef{}
		schema := apirecipes.Schema{
			Recipe: "top-words",
			Params: []apirecipes.ParamSpec{
				{Name: "QUERY", Type: "string", Required: true},
			},
		}
		book.Impl.RecipeSchema = func(name string, isAdmin bool) (apirecipes.Schema, error) {
			if name != "top-words" {
				t.Errorf("recipe name: got %s, want top-words", name)
			}
			return schema, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/recipes/top-words/schema/")
		c.SetParamNames("name")
		c.SetParamValues("top-words")
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		if err := handlers.RecipeSchemaHandler(book)(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
		}
	})

	t.Run("it maps chef errors to http errors", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			chefErr error
			want    int
		}{
			"404 when the recipe does not exist": {
				chefErr: fmt.Errorf("%w: nope", kitchen.ErrRecipeNotFound),
				want:    http.StatusNotFound,
			},
			"403 when the recipe is admin-only": {
				chefErr: fmt.Errorf("%w: secret", kitchen.ErrAdminOnly),
				want:    http.StatusForbidden,
			},
			"500 otherwise": {
				chefErr: errors.New("engine is on fire"),
				want:    http.StatusInternalServerError,
			},
		} {
			t.Run(name, func(t *testing.T) {
				book := &mockChef{}
				book.Impl.RecipeSchema = func(string, bool) (apirecipes.Schema, error) {
					return apirecipes.Schema{}, testcase.chefErr
				}

				e := echo.New()
				c, _ := httptestutil.Get(e, "/api/recipes/nope/schema/")
				c.SetParamNames("name")
				c.SetParamValues("nope")
				handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

				err := handlers.RecipeSchemaHandler(book)(c)
				if err == nil {
					t.Fatal("no error is returned")
				}
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

func TestRecipeOrderHandler(t *testing.T) {

	t.Run("it enqueues an order and journals it", func(t *testing.T) {
		taker := &mockChef{}
		enqueued := apiruns.Detail{
			RunId:     "f2b5f6c1-9df1-4d5e-bd6b-2b1b1f9a7a10",
			Name:      "brave-capybara",
			StateType: "SCHEDULED",
			Tags:      []string{kitchen.BaseTag, "user-user-cafe0123"},
			Parameters: map[string]any{
				"QUERY": "climate",
			},
		}
		taker.Impl.Start = func(ctx context.Context, o kitchen.Order) (apiruns.Detail, error) {
			return enqueued, nil
		}

		journal := mockorder.NewOrderInterface()
		journal.Impl.Register = func(ctx context.Context, o order.Order) (int64, error) {
			return 42, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/recipes/top-words/order/",
			strings.NewReader(`{"parameters": {"QUERY": "climate"}}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("name")
		c.SetParamValues("top-words")
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		if err := handlers.RecipeOrderHandler(taker, journal)(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusCreated)
		}

		if taker.Calls.Start.Times() != 1 {
			t.Fatalf("Start is called %d times, want 1", taker.Calls.Start.Times())
		}
		started := taker.Calls.Start[0]
		if started.Recipe != "top-words" {
			t.Errorf("recipe: got %s, want top-words", started.Recipe)
		}
		if started.Email != "user@example.org" {
			t.Errorf("email: got %s", started.Email)
		}
		if started.IsAdmin {
			t.Error("plain user should not order as admin")
		}
		if !cmp.SliceEq(started.Tags, []string{"user-user-cafe0123"}) {
			t.Errorf("tags: got %v", started.Tags)
		}

		if journal.Calls.Register.Times() != 1 {
			t.Fatalf("Register is called %d times, want 1", journal.Calls.Register.Times())
		}
		journaled := journal.Calls.Register[0]
		if journaled.RunId != enqueued.RunId {
			t.Errorf("journaled run id: got %s, want %s", journaled.RunId, enqueued.RunId)
		}
	})

	t.Run("it survives a journal failure", func(t *testing.T) {
		taker := &mockChef{}
		taker.Impl.Start = func(ctx context.Context, o kitchen.Order) (apiruns.Detail, error) {
			return apiruns.Detail{RunId: "f2b5f6c1-9df1-4d5e-bd6b-2b1b1f9a7a10"}, nil
		}
		journal := mockorder.NewOrderInterface()
		journal.Impl.Register = func(ctx context.Context, o order.Order) (int64, error) {
			return 0, errors.New("db is down")
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/recipes/top-words/order/",
			strings.NewReader(`{"parameters": {}}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("name")
		c.SetParamValues("top-words")
		handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

		if err := handlers.RecipeOrderHandler(taker, journal)(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusCreated)
		}
	})

	t.Run("it maps chef errors to http errors", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			chefErr error
			want    int
		}{
			"400 on invalid parameters": {
				chefErr: fmt.Errorf("%w: QUERY is required", kitchen.ErrInvalidParams),
				want:    http.StatusBadRequest,
			},
			"409 when the quota is spent": {
				chefErr: fmt.Errorf("%w: 3/3", kitchen.ErrQuotaExceeded),
				want:    http.StatusConflict,
			},
			"503 when no deployment is provisioned": {
				chefErr: fmt.Errorf("%w: kitchen", kitchen.ErrNoDeployment),
				want:    http.StatusServiceUnavailable,
			},
		} {
			t.Run(name, func(t *testing.T) {
				taker := &mockChef{}
				taker.Impl.Start = func(context.Context, kitchen.Order) (apiruns.Detail, error) {
					return apiruns.Detail{}, testcase.chefErr
				}

				e := echo.New()
				c, _ := httptestutil.Post(
					e, "/api/recipes/top-words/order/",
					strings.NewReader(`{"parameters": {}}`),
					httptestutil.ContentType("application/json"),
				)
				c.SetParamNames("name")
				c.SetParamValues("top-words")
				handlers.SetIdentity(c, userIdentity("user@example.org", "user-user-cafe0123"))

				err := handlers.RecipeOrderHandler(taker, nil)(c)
				var httperr *echo.HTTPError
				if !errors.As(err, &httperr) {
					t.Fatalf("error is not echo.HTTPError: %+v", err)
				}
				if httperr.Code != testcase.want {
					t.Errorf("status code: got %d, want %d", httperr.Code, testcase.want)
				}
				if _, ok := httperr.Message.(apierr.ErrorMessage); !ok {
					t.Errorf("message is not ErrorMessage: %+v", httperr.Message)
				}
			})
		}
	})
}
