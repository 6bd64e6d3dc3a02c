package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	kprof "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/config/profiles"
	krest "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/logger"
	"github.com/youta-t/flarc"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTaskWithCommonFlag wires the group-level common flags into a task.
//
// Commands that manage the profile store itself (like `kitchen auth`)
// use this directly; everything else goes through NewTask.
func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		return task(
			ctx,
			logger.For(cl.Fullname(), cl.Stderr()),
			commonFlag,
			cl,
			newpos,
		)
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	client krest.KitchenClient,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {

	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := kprof.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, kprof.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w: profile store (%s) is not found. Please try `kitchen auth` first",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to load the profile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}
		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		client, err := krest.NewClient(prof)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create a kitchen client. Your profile (%s in %s) can be broken.\n\nRun `kitchen auth` again to repair it",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, client, cl, params)
	})
}
