package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
	"github.com/youta-t/flarc"
)

type Option struct {
	systemStatus SystemStatus
}

type SystemStatus func(
	ctx context.Context,
	client krst.KitchenClient,
) (apisystem.Status, error)

func WithRunner(systemStatus SystemStatus) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.systemStatus = systemStatus
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		systemStatus: RunSystemStatus,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Report readiness of the kitchen and its backends.",
		struct{}{},
		flarc.Args{},
		common.NewTask(Task(option.systemStatus)),
		flarc.WithDescription(`
Report readiness of the kitchen and everything behind it: the
pipeline engine, the work pool and its workers.

The command exits non-zero when any component is not ready, so it
can double as a health probe.
`),
	)
}

func Task(systemStatus SystemStatus) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		status, err := systemStatus(ctx, client)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(status); err != nil {
			logger.Panicf("fail to dump the kitchen status")
		}

		if !status.Ready() {
			return fmt.Errorf("the kitchen is not ready")
		}
		return nil
	}
}

func RunSystemStatus(
	ctx context.Context, client krst.KitchenClient,
) (apisystem.Status, error) {
	return client.SystemStatus(ctx)
}
