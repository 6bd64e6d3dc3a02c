// Package auth has request/response types of the kitchen API about authorization.
package auth

import "time"

// Status reports how far the supplied credentials reach.
type Status struct {
	MediaCloudAuthorized bool   `json:"mediaCloudAuthorized"`
	MediaCloudStaff      bool   `json:"mediaCloudStaff"`
	FullTextAuthorized   bool   `json:"fullTextAuthorized"`
	SousChefAuthorized   bool   `json:"sousChefAuthorized"`
	TagSlug              string `json:"tagSlug,omitempty"`
}

// Authorized is true when the caller may use the kitchen at all.
func (s Status) Authorized() bool {
	return s.MediaCloudAuthorized && s.SousChefAuthorized
}

// Session is a short-lived token standing in for upstream validation.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
