package show

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

const ARG_RUNID = "RUN_ID"

type Option struct {
	showInfo ShowInfo
}

type ShowInfo func(
	ctx context.Context,
	client krst.KitchenClient,
	runId string,
) (apiruns.Detail, error)

func WithRunner(showInfo ShowInfo) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.showInfo = showInfo
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		showInfo: RunShowRun,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show the run with the specified run id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_RUNID, Required: true,
				Help: "id of the run to be shown",
			},
		},
		common.NewTask(Task(option.showInfo)),
		flarc.WithDescription(`
Show one run: its recipe, parameters, state and tags.
`),
	)
}

func Task(showInfo ShowInfo) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		runId := cl.Args()[ARG_RUNID][0]

		run, err := showInfo(ctx, client, runId)
		if err != nil {
			return fmt.Errorf("%w: run id: %s", err, runId)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(run); err != nil {
			logger.Panicf("fail to dump the found run")
		}
		return nil
	}
}

func RunShowRun(
	ctx context.Context, client krst.KitchenClient, runId string,
) (apiruns.Detail, error) {
	return client.GetRun(ctx, runId)
}
