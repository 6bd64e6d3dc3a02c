// Package provision brings a fresh workflow engine up to what the
// kitchen expects: a reachable API, a work pool, secret blocks and the
// kitchen deployment.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mediacloud/sous-chef-kitchen/pkg/configs/manifest"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/retry"
)

// WaitHealthy blocks until the engine API answers, retrying with b.
func WaitHealthy(ctx context.Context, engine prefect.Client, b retry.Backoff) error {
	return retry.Blocking(ctx, b, func() error {
		if err := engine.Hello(ctx); err != nil {
			return fmt.Errorf("%w: engine not up yet: %s", retry.ErrRetry, err)
		}
		return nil
	})
}

// EnsureWorkPool returns the named pool, creating a poolType pool when
// it is missing.
func EnsureWorkPool(
	ctx context.Context, engine prefect.Client, name, poolType string,
) (prefect.WorkPool, error) {
	pool, err := engine.GetWorkPool(ctx, name)
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, prefect.ErrNotFound) {
		return prefect.WorkPool{}, err
	}
	return engine.CreateWorkPool(ctx, prefect.WorkPoolCreate{Name: name, Type: poolType})
}

// SecretBlock is one block document to register.
type SecretBlock struct {
	Name     string
	TypeSlug string
	Data     map[string]any
}

// BlocksFromEnv assembles the kitchen's secret blocks from SC_*
// variables. Blocks whose variables are absent are skipped.
func BlocksFromEnv() []SecretBlock {
	blocks := []SecretBlock{}

	if key, ok := os.LookupEnv("SC_S3_ACCESS_KEY"); ok {
		blocks = append(blocks, SecretBlock{
			Name:     "kitchen-s3",
			TypeSlug: "secret",
			Data: map[string]any{
				"value": map[string]any{
					"endpoint":   os.Getenv("SC_S3_ENDPOINT"),
					"access_key": key,
					"secret_key": os.Getenv("SC_S3_SECRET_KEY"),
					"bucket":     os.Getenv("SC_S3_BUCKET"),
				},
			},
		})
	}

	if user, ok := os.LookupEnv("SC_EMAIL_USER"); ok {
		blocks = append(blocks, SecretBlock{
			Name:     "kitchen-email",
			TypeSlug: "secret",
			Data: map[string]any{
				"value": map[string]any{
					"host":     os.Getenv("SC_EMAIL_HOST"),
					"user":     user,
					"password": os.Getenv("SC_EMAIL_PASSWORD"),
				},
			},
		})
	}

	if key, ok := os.LookupEnv("SC_MEDIACLOUD_API_KEY"); ok {
		blocks = append(blocks, SecretBlock{
			Name:     "kitchen-mediacloud",
			TypeSlug: "secret",
			Data:     map[string]any{"value": key},
		})
	}

	return blocks
}

// RegisterBlocks creates each block unless a document with that name
// already exists. Existing blocks are left untouched so a re-run does
// not clobber rotated secrets.
func RegisterBlocks(
	ctx context.Context, engine prefect.Client, logger *log.Logger, blocks []SecretBlock,
) error {
	for _, b := range blocks {
		existing, err := engine.FindBlockDocuments(ctx, []string{b.Name})
		if err != nil {
			return fmt.Errorf("look up block %s: %w", b.Name, err)
		}
		if len(existing) > 0 {
			logger.Printf("block %s already registered. skipped.", b.Name)
			continue
		}

		blockType, err := engine.GetBlockTypeBySlug(ctx, b.TypeSlug)
		if err != nil {
			return fmt.Errorf("block type %s: %w", b.TypeSlug, err)
		}
		schemas, err := engine.FindBlockSchemas(ctx, blockType.Id)
		if err != nil {
			return fmt.Errorf("block schemas of %s: %w", b.TypeSlug, err)
		}
		if len(schemas) == 0 {
			return fmt.Errorf("block type %s has no schema", b.TypeSlug)
		}

		if _, err := engine.CreateBlockDocument(ctx, prefect.BlockDocument{
			Name:          b.Name,
			Data:          b.Data,
			BlockTypeId:   blockType.Id,
			BlockSchemaId: schemas[0].Id,
		}); err != nil {
			return fmt.Errorf("register block %s: %w", b.Name, err)
		}
		logger.Printf("block %s registered.", b.Name)
	}
	return nil
}

// ApplyManifest registers the flow and its deployment. An existing
// deployment with the manifest's name is reused as-is.
func ApplyManifest(
	ctx context.Context, engine prefect.Client, logger *log.Logger, m *manifest.DeploymentManifest,
) (prefect.Deployment, error) {
	existing, err := engine.FindDeployments(ctx, []string{m.Deployment})
	if err != nil {
		return prefect.Deployment{}, err
	}
	if len(existing) > 0 {
		logger.Printf("deployment %s already applied. skipped.", m.Deployment)
		return existing[0], nil
	}

	flow, err := engine.EnsureFlow(ctx, m.Flow)
	if err != nil {
		return prefect.Deployment{}, fmt.Errorf("flow %s: %w", m.Flow, err)
	}

	dep, err := engine.CreateDeployment(ctx, prefect.DeploymentCreate{
		Name:         m.Deployment,
		FlowId:       flow.Id,
		Description:  m.Description,
		Entrypoint:   m.Entrypoint,
		Path:         m.Path,
		WorkPoolName: m.WorkPool,
		Tags:         m.Tags,
		Parameters:   m.Parameters,
		JobVariables: m.JobVariables,
	})
	if err != nil {
		return prefect.Deployment{}, fmt.Errorf("deployment %s: %w", m.Deployment, err)
	}
	logger.Printf("deployment %s applied (flow %s).", m.Deployment, m.Flow)
	return dep, nil
}
