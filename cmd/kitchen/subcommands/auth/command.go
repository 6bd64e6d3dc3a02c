package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	kprof "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/config/profiles"
	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	"github.com/youta-t/flarc"
)

type Flags struct {
	ApiRoot    string `flag:"api-root" metavar:"URL" help:"root URL of the kitchen API"`
	Email      string `flag:"email" help:"your Media Cloud account email"`
	ApiKey     string `flag:"api-key" help:"your Media Cloud API key"`
	NoValidate bool   `flag:"no-validate" help:"save the profile without checking it against the kitchen"`
}

// NewClient builds a kitchen client for the profile being registered.
type NewClient func(prof *kprof.KitchenProfile) (krst.KitchenClient, error)

type Option struct {
	newClient NewClient
}

func WithClientFactory(newClient NewClient) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.newClient = newClient
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		newClient: krst.NewClient,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Register kitchen credentials into your profile store.",
		Flags{},
		flarc.Args{},
		common.NewTaskWithCommonFlag(Task(option.newClient)),
		flarc.WithDescription(`
Register (or update) a kitchen profile.

Flags you omit keep their current value in the profile, so refreshing
an expired session is just:

	{{ .Command }}

Unless --no-validate is passed, the credentials are checked against
the kitchen and a session token is cached in the profile. The cached
session spares the kitchen one upstream check per request.
`),
	)
}

func Task(newClient NewClient) common.TaskWithCommonFlag[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		store, err := kprof.LoadProfileStore(commonFlag.ProfileStore)
		if errors.Is(err, kprof.ErrProfileStoreNotFound) {
			store = kprof.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf(
				"%w: failed to load the profile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}

		prof, ok := store[commonFlag.Profile]
		if !ok {
			prof = &kprof.KitchenProfile{}
			store[commonFlag.Profile] = prof
		}

		flags := cl.Flags()
		if flags.ApiRoot != "" {
			prof.ApiRoot = flags.ApiRoot
		}
		if flags.Email != "" {
			prof.Email = flags.Email
		}
		if flags.ApiKey != "" {
			prof.ApiKey = flags.ApiKey
		}
		prof.Session = kprof.CachedSession{}

		if err := prof.Verify(); err != nil {
			return fmt.Errorf("%w: pass --api-root, --email and --api-key", err)
		}

		if !flags.NoValidate {
			client, err := newClient(prof)
			if err != nil {
				return err
			}

			status, err := client.ValidateAuth(ctx)
			if err != nil {
				return err
			}
			if !status.Authorized() {
				return fmt.Errorf(
					"the kitchen rejected the credentials for %s: %s",
					prof.Email, describe(status),
				)
			}
			logger.Printf("authorized as %s (%s)", prof.Email, describe(status))

			session, err := client.CreateSession(ctx)
			if err != nil {
				return err
			}
			prof.Session = kprof.CachedSession{
				Token:     session.Token,
				ExpiresAt: session.ExpiresAt,
			}
		}

		if err := store.Save(commonFlag.ProfileStore); err != nil {
			return fmt.Errorf(
				"%w: failed to save the profile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}
		logger.Printf(
			"profile '%s' is saved in %s",
			commonFlag.Profile, commonFlag.ProfileStore,
		)
		return nil
	}
}

func describe(status apiauth.Status) string {
	switch {
	case status.MediaCloudStaff:
		return "staff"
	case status.FullTextAuthorized:
		return "full-text access"
	default:
		return "standard access"
	}
}
