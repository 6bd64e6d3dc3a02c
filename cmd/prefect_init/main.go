package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/mediacloud/sous-chef-kitchen/cmd/prefect_init/provision"
	"github.com/mediacloud/sous-chef-kitchen/pkg/configs/manifest"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/retry"
)

func main() {
	logger := log.New(os.Stderr, "prefect_init: ", log.LstdFlags)

	apiRoot := flag.String("api", os.Getenv("SC_PREFECT_API_ROOT"), "engine api root")
	manifestPath := flag.String("manifest", "deployment.yaml", "deployment manifest path")
	workPoolType := flag.String("work-pool-type", "process", "work pool type to create when missing")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up waiting for the engine after this long")
	flag.Parse()

	if *apiRoot == "" {
		logger.Fatal("engine api root is required (-api or SC_PREFECT_API_ROOT)")
	}

	m, err := manifest.LoadDeploymentManifest(*manifestPath)
	if err != nil {
		logger.Fatalf("can not read deployment manifest: %s", err)
	}

	engine, err := prefect.NewClient(*apiRoot, prefect.WithAPIKey(os.Getenv("SC_PREFECT_API_KEY")))
	if err != nil {
		logger.Fatalf("engine api root %s is invalid: %s", *apiRoot, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger.Printf("waiting for the engine at %s ...", *apiRoot)
	if err := provision.WaitHealthy(ctx, engine, retry.ExponentialBackoff(time.Second, 1.5)); err != nil {
		logger.Fatalf("engine did not come up: %s", err)
	}

	pool, err := provision.EnsureWorkPool(ctx, engine, m.WorkPool, *workPoolType)
	if err != nil {
		logger.Fatalf("can not ensure work pool %s: %s", m.WorkPool, err)
	}
	logger.Printf("work pool %s is ready (type %s).", pool.Name, pool.Type)

	if err := provision.RegisterBlocks(ctx, engine, logger, provision.BlocksFromEnv()); err != nil {
		logger.Fatalf("can not register secret blocks: %s", err)
	}

	if _, err := provision.ApplyManifest(ctx, engine, logger, m); err != nil {
		logger.Fatalf("can not apply deployment manifest: %s", err)
	}

	logger.Println("engine is provisioned.")
}
