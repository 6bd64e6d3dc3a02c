package list

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/youta-t/flarc"
)

type Flags struct {
	State string `flag:"state" alias:"s" metavar:"active|paused|all" help:"list only runs in this state"`
	All   bool   `flag:"all" alias:"A" help:"list all runs, active or not. Same as --state all."`
}

type Option struct {
	findRuns FindRuns
}

type FindRuns func(
	ctx context.Context,
	client krst.KitchenClient,
	state string,
) ([]apiruns.Detail, error)

func WithRunner(findRuns FindRuns) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.findRuns = findRuns
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		findRuns: RunFindRuns,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List your runs.",
		Flags{
			State: "active",
		},
		flarc.Args{},
		common.NewTask(Task(option.findRuns)),
		flarc.WithDescription(`
List your runs. Media Cloud staff see every run the kitchen started.

By default only active runs are listed. Pass --all (or --state all)
to include finished ones, or --state paused for paused ones.
`),
	)
}

func Task(findRuns FindRuns) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		flags := cl.Flags()

		state := flags.State
		if flags.All {
			state = "all"
		}
		switch state {
		case "active", "paused", "all":
		default:
			return fmt.Errorf(
				"%w: --state should be one of active, paused or all: %s",
				flarc.ErrUsage, state,
			)
		}

		runs, err := findRuns(ctx, client, state)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(runs); err != nil {
			logger.Panicf("fail to dump found runs")
		}
		return nil
	}
}

func RunFindRuns(
	ctx context.Context, client krst.KitchenClient, state string,
) ([]apiruns.Detail, error) {
	return client.FindRuns(ctx, state)
}
