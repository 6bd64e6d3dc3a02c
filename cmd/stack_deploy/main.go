package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	kcd "github.com/mediacloud/sous-chef-kitchen/pkg/configs/deploy"
	"github.com/mediacloud/sous-chef-kitchen/pkg/deploy"
)

func main() {
	logger := log.New(os.Stderr, "stack_deploy: ", log.LstdFlags)

	configPath := flag.String("config", "deploy.yaml", "deploy config path")
	worktree := flag.String("C", ".", "git worktree to resolve the image tag from")
	dryRun := flag.Bool("dry-run", false, "print the rendered stack config and stop")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Fatalf("usage: %s [flags] <environment>", os.Args[0])
	}
	envName := flag.Arg(0)

	conf, err := kcd.LoadDeployConfig(*configPath)
	if err != nil {
		logger.Fatalf("can not read deploy config: %s", err)
	}

	ctx := context.Background()

	git, err := deploy.InspectGit(ctx, *worktree)
	if err != nil {
		logger.Fatalf("can not inspect worktree %s: %s", *worktree, err)
	}
	logger.Printf("worktree %s: tag=%s exact=%v dirty=%v", *worktree, git.Tag, git.ExactTag, git.Dirty)

	d := deploy.New(conf, nil, nil)
	plan, err := d.Plan(ctx, envName, git)
	if err != nil {
		logger.Fatalf("can not plan deploy to %s: %s", envName, err)
	}
	logger.Printf(
		"plan: stack=%s image=%s bias=%d", plan.Stack, plan.Image, plan.Bias,
	)

	if *dryRun {
		fmt.Print(string(plan.Rendered))
		return
	}

	if err := d.Apply(ctx, plan); err != nil {
		logger.Fatalf("deploy failed: %s", err)
	}
	logger.Printf("deployed %s to stack %s", plan.Image, plan.Stack)
}
