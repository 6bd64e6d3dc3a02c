package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	cerr "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/errors"
	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	apiorders "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/orders"
)

func (c *client) ValidateAuth(ctx context.Context) (apiauth.Status, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("auth", "validate"), nil)
	if err != nil {
		return apiauth.Status{}, err
	}
	defer resp.Body.Close()

	// Recognized but unauthorized credentials answer 403 with the same
	// status document, so decode that too.
	if resp.StatusCode < 300 || resp.StatusCode == http.StatusForbidden {
		var status apiauth.Status
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return apiauth.Status{}, cerr.NewCuiError(
				"unexpected response from the kitchen", cerr.WithCause(err),
			)
		}
		return status, nil
	}

	return apiauth.Status{}, unmarshalJsonResponse[struct{}](
		resp, nil,
		MessageFor{
			Status4xx: "the kitchen rejected your credentials",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}

func (c *client) CreateSession(ctx context.Context) (apiauth.Session, error) {
	resp, err := c.request(ctx, http.MethodPost, c.apipath("auth", "session"), nil)
	if err != nil {
		return apiauth.Session{}, err
	}
	defer resp.Body.Close()

	var session apiauth.Session
	if err := unmarshalJsonResponse(
		resp, &session,
		MessageFor{
			Status4xx: "the kitchen rejected your credentials",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apiauth.Session{}, err
	}
	return session, nil
}

func (c *client) FindOrders(ctx context.Context) ([]apiorders.Detail, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("orders"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	orders := []apiorders.Detail{}
	if err := unmarshalJsonResponse(
		resp, &orders,
		MessageFor{
			Status4xx: "cannot list orders",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return orders, nil
}
