package start

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	krst "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/rest"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	apiruns "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/runs"
	"github.com/youta-t/flarc"
)

const ARG_RECIPE = "RECIPE"

type Flags struct {
	Param      []string `flag:"param" alias:"p" help:"recipe parameter in the form key=value. Repeatable."`
	ParamsFile string   `flag:"params-file" help:"JSON file holding recipe parameters. Pass - to read stdin. --param overrides it per key."`
}

type Option struct {
	startRecipe StartRecipe
}

type StartRecipe func(
	ctx context.Context,
	client krst.KitchenClient,
	name string,
	parameters map[string]any,
) (apiruns.Detail, error)

func WithRunner(startRecipe StartRecipe) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.startRecipe = startRecipe
		return opt
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		startRecipe: RunStartRecipe,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Order a recipe and start a new run.",
		Flags{},
		flarc.Args{
			{
				Name: ARG_RECIPE, Required: true,
				Help: "name of the recipe to be started",
			},
		},
		common.NewTask(Task(option.startRecipe)),
		flarc.WithDescription(`
Order a recipe. The kitchen validates the parameters against the
recipe's schema and enqueues a run on the pipeline engine.

Parameter values given with --param are decoded as JSON when they
parse as JSON, and taken as strings otherwise:

	{{ .Command }} my-recipe --param query=climate --param days=30
`),
	)
}

func Task(startRecipe StartRecipe) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.KitchenClient,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		name := cl.Args()[ARG_RECIPE][0]
		flags := cl.Flags()

		parameters, err := loadParamsFile(flags.ParamsFile, cl.Stdin())
		if err != nil {
			return err
		}
		for _, p := range flags.Param {
			key, value, found := strings.Cut(p, "=")
			if !found {
				return fmt.Errorf(
					"%w: --param should be formed as key=value: %s",
					flarc.ErrUsage, p,
				)
			}
			parameters[key] = decodeValue(value)
		}

		run, err := startRecipe(ctx, client, name, parameters)
		if err != nil {
			return fmt.Errorf("%w: recipe: %s", err, name)
		}

		logger.Printf("run %s is ordered.", run.RunId)
		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(run); err != nil {
			logger.Panicf("fail to dump the ordered run")
		}
		return nil
	}
}

func loadParamsFile(name string, stdin io.Reader) (map[string]any, error) {
	parameters := map[string]any{}
	if name == "" {
		return parameters, nil
	}

	var source io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		source = f
	}

	if err := json.NewDecoder(source).Decode(&parameters); err != nil {
		return nil, fmt.Errorf("%w: cannot read parameters from %s", err, name)
	}
	return parameters, nil
}

// decodeValue takes a --param value as JSON if it parses, so numbers
// and booleans keep their type, and as a plain string otherwise.
func decodeValue(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}

func RunStartRecipe(
	ctx context.Context, client krst.KitchenClient, name string, parameters map[string]any,
) (apiruns.Detail, error) {
	return client.StartRecipe(ctx, name, parameters)
}
