package kitchen

import (
	"context"
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"

	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	"github.com/mediacloud/sous-chef-kitchen/pkg/mediacloud"
)

var tagUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// TagSlug derives the per-user run tag from credentials: a readable
// prefix from the email's local part plus a short hash so two users
// with the same local part never share runs.
func TagSlug(email, apiKey string) string {
	base := strings.ToLower(email)
	if at := strings.Index(base, "@"); at >= 0 {
		base = base[:at]
	}
	base = tagUnsafe.ReplaceAllString(base, "-")

	digest := sha1.Sum([]byte(email + ":" + apiKey))
	return fmt.Sprintf("user-%s-%x", base, digest[:4])
}

// Validator checks caller credentials against the Media Cloud API.
type Validator struct {
	upstream mediacloud.Authorizer
}

func NewValidator(upstream mediacloud.Authorizer) *Validator {
	return &Validator{upstream: upstream}
}

// ValidateAuth resolves email+key to an authorization status.
//
// A Media Cloud user is a sous-chef user; staff users additionally get
// full-text access. Any upstream failure leaves the status unauthorized
// rather than failing the request.
func (v *Validator) ValidateAuth(ctx context.Context, email, apiKey string) apiauth.Status {
	status := apiauth.Status{}
	if email == "" || apiKey == "" {
		return status
	}

	prof, err := v.upstream.UserProfile(ctx, apiKey)
	if err != nil {
		return status
	}
	if !prof.Found() {
		return status
	}

	status.MediaCloudAuthorized = true
	status.MediaCloudStaff = prof.IsStaff
	status.FullTextAuthorized = prof.IsStaff
	status.SousChefAuthorized = true
	status.TagSlug = TagSlug(email, apiKey)
	return status
}
