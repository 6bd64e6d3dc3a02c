package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	cerr "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/errors"
	apierr "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/errors"
)

// MessageFor titles errors by HTTP status code range.
type MessageFor struct {
	Status4xx string
	Status5xx string
}

func (c *client) request(
	ctx context.Context, method, url string, body any,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.httpclient.Do(req)
}

// unmarshalJsonResponse decodes a 2xx response into v, or converts an
// error response into a CUIError carrying the server's message.
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	if resp.StatusCode < 300 {
		if v == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return cerr.NewCuiError(
				"unexpected response from the kitchen", cerr.WithCause(err),
			)
		}
		return nil
	}

	message := messageFor.Status5xx
	if resp.StatusCode < 500 {
		message = messageFor.Status4xx
	}
	if message == "" {
		message = resp.Status
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerr.NewCuiError(message, cerr.WithCause(err))
	}

	var em apierr.ErrorMessage
	if err := json.Unmarshal(body, &em); err == nil && em.Reason != "" {
		return cerr.NewCuiError(
			message,
			cerr.WithDetail(func(summary string) (string, error) {
				return summary + "\n" + em.String(), nil
			}),
		)
	}
	return cerr.NewCuiError(
		message,
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + string(body), nil
		}),
	)
}
