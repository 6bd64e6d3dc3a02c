package orders

import (
	"context"
	"encoding/json"
	"log"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apiorders "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/orders"
	"github.com/youta-t/flarc"
)

type Option struct {
	findOrders FindOrders
}

type FindOrders func(
	ctx context.Context,
	client krst.KitchenClient,
) ([]apiorders.Detail, error)

func WithRunner(findOrders FindOrders) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.findOrders = findOrders
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		findOrders: RunFindOrders,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List your journaled orders.",
		struct{}{},
		flarc.Args{},
		common.NewTask(Task(option.findOrders)),
		flarc.WithDescription(`
List the orders the kitchen journaled for your account, newest first.

The journal outlives the pipeline engine's run history, so this is
the place to look for runs the engine has already forgotten.
`),
	)
}

func Task(findOrders FindOrders) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		orders, err := findOrders(ctx, client)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(orders); err != nil {
			logger.Panicf("fail to dump found orders")
		}
		return nil
	}
}

func RunFindOrders(
	ctx context.Context, client krst.KitchenClient,
) ([]apiorders.Detail, error) {
	return client.FindOrders(ctx)
}
