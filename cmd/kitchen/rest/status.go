package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	cerr "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/errors"
	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
)

func (c *client) SystemStatus(ctx context.Context) (apisystem.Status, error) {
	resp, err := c.request(ctx, http.MethodGet, c.apipath("system", "status"), nil)
	if err != nil {
		return apisystem.Status{}, err
	}
	defer resp.Body.Close()

	// A kitchen that is up but not ready answers 503 with the same
	// status document, so decode that too.
	if resp.StatusCode < 300 || resp.StatusCode == http.StatusServiceUnavailable {
		var status apisystem.Status
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return apisystem.Status{}, cerr.NewCuiError(
				"unexpected response from the kitchen", cerr.WithCause(err),
			)
		}
		return status, nil
	}

	return apisystem.Status{}, unmarshalJsonResponse[struct{}](
		resp, nil,
		MessageFor{
			Status4xx: "cannot query the kitchen status",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}
