package run

import (
	run_artifacts "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run/artifacts"
	run_list "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run/list"
	run_pause "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run/pause"
	run_resume "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run/resume"
	run_show "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run/show"
	run_stop "github.com/mediacloud/sous-chef-kitchen/cmd/kitchen/subcommands/run/stop"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	list, err := run_list.New()
	if err != nil {
		return nil, err
	}
	show, err := run_show.New()
	if err != nil {
		return nil, err
	}
	artifacts, err := run_artifacts.New()
	if err != nil {
		return nil, err
	}
	stop, err := run_stop.New()
	if err != nil {
		return nil, err
	}
	pause, err := run_pause.New()
	if err != nil {
		return nil, err
	}
	resume, err := run_resume.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Watch and control kitchen runs.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("artifacts", artifacts),
		flarc.WithSubcommand("stop", stop),
		flarc.WithSubcommand("pause", pause),
		flarc.WithSubcommand("resume", resume),
	)
}
