package artifacts

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
	fetch Fetch
}

type Fetch func(
	ctx context.Context,
	client krst.KitchenClient,
	runId string,
) ([]apiruns.Artifact, error)

func WithRunner(fetch Fetch) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.fetch = fetch
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		fetch: RunFetchArtifacts,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show the artifacts a run published.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_RUNID, Required: true,
				Help: "id of the run whose artifacts are shown",
			},
		},
		common.NewTask(Task(option.fetch)),
		flarc.WithDescription(`
Show the table artifacts a run published: row counts, sample links
and whatever else the recipe's flow reported.
`),
	)
}

func Task(fetch Fetch) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		runId := cl.Args()[ARG_RUNID][0]

		artifacts, err := fetch(ctx, client, runId)
		if err != nil {
			return fmt.Errorf("%w: run id: %s", err, runId)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(artifacts); err != nil {
			logger.Panicf("fail to dump the artifacts")
		}
		return nil
	}
}

func RunFetchArtifacts(
	ctx context.Context, client krst.KitchenClient, runId string,
) ([]apiruns.Artifact, error) {
	return client.GetRunArtifacts(ctx, runId)
}
