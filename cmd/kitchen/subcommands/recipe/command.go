package recipe

import (
	recipe_list "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/recipe/list"
	recipe_schema "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/recipe/schema"
	recipe_start "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/recipe/start"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	list, err := recipe_list.New()
	if err != nil {
		return nil, err
	}
	schema, err := recipe_schema.New()
	if err != nil {
		return nil, err
	}
	start, err := recipe_start.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Browse and order kitchen recipes.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("schema", schema),
		flarc.WithSubcommand("start", start),
	)
}
