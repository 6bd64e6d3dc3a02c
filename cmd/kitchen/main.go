package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	subauth "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/auth"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/common"
	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/logger"
	suborders "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/orders"
	subrecipe "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/recipe"
	subrun "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run"
	substatus "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/status"
	subver "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/version"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.DefaultCommonFlags()).OrFatal(logger)
	auth := try.To(subauth.New()).OrFatal(logger)
	recipe := try.To(subrecipe.New()).OrFatal(logger)
	run := try.To(subrun.New()).OrFatal(logger)
	orders := try.To(suborders.New()).OrFatal(logger)
	status := try.To(substatus.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	kitchen := try.To(
		flarc.NewCommandGroup(
			"Sous Chef Kitchen commandline interface",
			cf,
			flarc.WithSubcommand("auth", auth),
			flarc.WithSubcommand("recipe", recipe),
			flarc.WithSubcommand("run", run),
			flarc.WithSubcommand("orders", orders),
			flarc.WithSubcommand("status", status),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, kitchen, flarc.WithHelp(true)))
}
