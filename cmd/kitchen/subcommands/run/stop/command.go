package stop

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
		"Cancel a run.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_RUNID, Required: true,
				Help: "id of the run to be cancelled",
			},
		},
		common.NewTask(Task(func(
			ctx context.Context, client krst.KitchenClient, runId string,
		) error {
			return client.CancelRun(ctx, runId)
		})),
		flarc.WithDescription(`
Ask the pipeline engine to cancel a run. Cancelling is asynchronous:
the run keeps its state until the engine's worker acknowledges it.
`),
	)
}

func Task(cancel func(context.Context, krst.KitchenClient, string) error) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		runId := cl.Args()[ARG_RUNID][0]
		if err := cancel(ctx, client, runId); err != nil {
			return err
		}
		logger.Printf("run %s is cancelling.", runId)
		return nil
	}
}
