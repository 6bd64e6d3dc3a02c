package list

import (
	"context"
	"encoding/json"
	"log"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
	"github.com/youta-t/flarc"
)

type Option struct {
	listRecipes ListRecipes
}

type ListRecipes func(
	ctx context.Context,
	client krst.KitchenClient,
) ([]apirecipes.Summary, error)

func WithRunner(listRecipes ListRecipes) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.listRecipes = listRecipes
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		listRecipes: RunListRecipes,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List the recipes you may order.",
		struct{}{},
		flarc.Args{},
		common.NewTask(Task(option.listRecipes)),
		flarc.WithDescription(`
List the recipes this kitchen serves.

Recipes restricted to Media Cloud staff are listed only when your
credentials carry staff status.
`),
	)
}

func Task(listRecipes ListRecipes) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		recipes, err := listRecipes(ctx, client)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(recipes); err != nil {
			logger.Panicf("fail to dump the recipe list")
		}
		return nil
	}
}

func RunListRecipes(
	ctx context.Context, client krst.KitchenClient,
) ([]apirecipes.Summary, error) {
	return client.ListRecipes(ctx)
}
