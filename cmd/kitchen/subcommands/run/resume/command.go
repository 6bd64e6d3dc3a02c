package resume

import (
	"context"
	"log"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	"github.com/youta-t/flarc"
)

const ARG_RUNID = "RUN_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Resume a paused run.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_RUNID, Required: true,
				Help: "id of the run to be resumed",
			},
		},
		common.NewTask(Task(func(
			ctx context.Context, client krst.KitchenClient, runId string,
		) error {
			return client.ResumeRun(ctx, runId)
		})),
	)
}

func Task(resume func(context.Context, krst.KitchenClient, string) error) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		runId := cl.Args()[ARG_RUNID][0]
		if err := resume(ctx, client, runId); err != nil {
			return err
		}
		logger.Printf("run %s is resuming.", runId)
		return nil
	}
}
