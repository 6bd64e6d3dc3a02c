package mock

import (
	"context"
	"errors"

	dbmock "github.com/mediacloud/sous-chef-kitchen/internal/testutils/mock"
	"github.com/mediacloud/sous-chef-kitchen/pkg/mediacloud"
)

type Authorizer struct {
	Impl struct {
		UserProfile func(ctx context.Context, apiKey string) (mediacloud.Profile, error)
	}
	Calls struct {
		UserProfile dbmock.CallLog[string]
	}
}

func New() *Authorizer {
	return &Authorizer{}
}

var _ mediacloud.Authorizer = &Authorizer{}

func (m *Authorizer) UserProfile(ctx context.Context, apiKey string) (mediacloud.Profile, error) {
	m.Calls.UserProfile = append(m.Calls.UserProfile, apiKey)
	if m.Impl.UserProfile != nil {
		return m.Impl.UserProfile(ctx, apiKey)
	}
	panic(errors.New("it should not be called"))
}
