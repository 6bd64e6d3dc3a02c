// Package mediacloud is a minimal client for the Media Cloud API,
// covering only what the kitchen needs: resolving an API key to a
// user profile for authorization.
package mediacloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Profile is the upstream view of an API key's owner.
type Profile struct {
	Email   string   `json:"email"`
	IsStaff bool     `json:"is_staff"`
	Groups  []string `json:"groups"`

	// Message is set instead of profile fields when the key resolves
	// to nothing ("User Not Found").
	Message string `json:"message"`
}

// Found is false when the upstream answered with a not-found message
// instead of a profile.
func (p Profile) Found() bool {
	return p.Message != "User Not Found"
}

// Authorizer resolves an API key to a Profile.
type Authorizer interface {
	UserProfile(ctx context.Context, apiKey string) (Profile, error)
}

type client struct {
	api        string
	httpclient *http.Client
}

type Option func(*client) *client

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) *client {
		c.httpclient = hc
		return c
	}
}

// NewClient creates an Authorizer against the Media Cloud API rooted
// at apiRoot (e.g. "https://search.mediacloud.org/api").
func NewClient(apiRoot string, options ...Option) (Authorizer, error) {
	if !strings.Contains(apiRoot, "://") {
		return nil, fmt.Errorf("api root is not an absolute URL: %s", apiRoot)
	}
	c := &client{
		api:        strings.TrimSuffix(apiRoot, "/"),
		httpclient: new(http.Client),
	}
	for _, opt := range options {
		c = opt(c)
	}
	return c, nil
}

func (c *client) UserProfile(ctx context.Context, apiKey string) (Profile, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.api+"/auth/profile", nil,
	)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		return Profile{Message: "User Not Found"}, nil
	case resp.StatusCode < 200 || 300 <= resp.StatusCode:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Profile{}, fmt.Errorf(
			"media cloud API: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}

	var prof Profile
	if err := json.NewDecoder(resp.Body).Decode(&prof); err != nil {
		return Profile{}, err
	}
	return prof, nil
}
