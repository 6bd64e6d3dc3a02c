package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	"github.com/youta-t/flarc"
)

const ARG_RECIPE = "RECIPE"

type Option struct {
	getSchema GetSchema
}

type GetSchema func(
	ctx context.Context,
	client krst.KitchenClient,
	name string,
) (apirecipes.Schema, error)

func WithRunner(getSchema GetSchema) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.getSchema = getSchema
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		getSchema: RunGetSchema,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show the parameter schema of a recipe.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_RECIPE, Required: true,
				Help: "name of the recipe to be shown",
			},
		},
		common.NewTask(Task(option.getSchema)),
		flarc.WithDescription(`
Show the parameters a recipe accepts: their types, defaults and
whether each one is required.
`),
	)
}

func Task(getSchema GetSchema) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		name := cl.Args()[ARG_RECIPE][0]

		schema, err := getSchema(ctx, client, name)
		if err != nil {
			return fmt.Errorf("%w: recipe: %s", err, name)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(schema); err != nil {
			logger.Panicf("fail to dump the recipe schema")
		}
		return nil
	}
}

func RunGetSchema(
	ctx context.Context, client krst.KitchenClient, name string,
) (apirecipes.Schema, error) {
	return client.GetRecipeSchema(ctx, name)
}
