package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/errors"
	apiorders "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/orders"
	"github.com/mediacloud/sous-chef-kitchen/pkg/domain/order"
)

// FindOrdersHandler lists journaled orders, newest first.
//
// Staff may pass ?email= to inspect another user's orders; everyone
// else is pinned to their own. ?since= and ?until= take RFC3339.
func FindOrdersHandler(journal order.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		if journal == nil {
			return apierr.ServiceUnavailable("order journal is not configured", nil)
		}

		query := order.FindQuery{Email: id.Email}
		if id.IsAdmin() {
			query.Email = c.QueryParam("email")
		}

		if since := c.QueryParam("since"); since != "" {
			t, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return apierr.BadRequest(`"since" should be a RFC3339 date-time`, err)
			}
			query.Since = &t
		}
		if until := c.QueryParam("until"); until != "" {
			t, err := time.Parse(time.RFC3339, until)
			if err != nil {
				return apierr.BadRequest(`"until" should be a RFC3339 date-time`, err)
			}
			query.Until = &t
		}

		found, err := journal.Find(c.Request().Context(), query)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := make([]apiorders.Detail, 0, len(found))
		for _, o := range found {
			resp = append(resp, o.ComposeDetail())
		}
		return c.JSON(http.StatusOK, resp)
	}
}
