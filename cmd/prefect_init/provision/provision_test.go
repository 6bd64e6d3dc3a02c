package provision_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/mediacloud/sous-chef-kitchen/cmd/prefect_init/provision"
	"github.com/mediacloud/sous-chef-kitchen/pkg/configs/manifest"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
	mockprefect "github.com/mediacloud/sous-chef-kitchen/pkg/prefect/mock"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/retry"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/try"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestWaitHealthy(t *testing.T) {

	t.Run("it retries until the engine answers", func(t *testing.T) {
		engine := mockprefect.New()
		failures := 3
		engine.Impl.Hello = func(ctx context.Context) error {
			if failures > 0 {
				failures -= 1
				return errors.New("connection refused")
			}
			return nil
		}

		err := provision.WaitHealthy(
			context.Background(), engine, retry.StaticBackoff(time.Millisecond),
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if failures != 0 {
			t.Errorf("remaining failures: %d, want 0", failures)
		}
	})

	t.Run("it gives up when the context expires", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.Hello = func(ctx context.Context) error {
			return errors.New("connection refused")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := provision.WaitHealthy(ctx, engine, retry.StaticBackoff(time.Millisecond))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error: got %v, want DeadlineExceeded", err)
		}
	})
}

func TestEnsureWorkPool(t *testing.T) {

	t.Run("it leaves an existing pool alone", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.GetWorkPool = func(ctx context.Context, name string) (prefect.WorkPool, error) {
			return prefect.WorkPool{Id: "pool-1", Name: name, Type: "process"}, nil
		}

		pool := try.To(provision.EnsureWorkPool(
			context.Background(), engine, "kitchen-pool", "process",
		)).OrFatal(t)
		if pool.Id != "pool-1" {
			t.Errorf("pool: got %+v", pool)
		}
		if engine.Calls.CreateWorkPool.Times() != 0 {
			t.Error("CreateWorkPool should not be called")
		}
	})

	t.Run("it creates a missing pool", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.GetWorkPool = func(ctx context.Context, name string) (prefect.WorkPool, error) {
			return prefect.WorkPool{}, prefect.ErrNotFound
		}
		engine.Impl.CreateWorkPool = func(ctx context.Context, p prefect.WorkPoolCreate) (prefect.WorkPool, error) {
			return prefect.WorkPool{Id: "pool-new", Name: p.Name, Type: p.Type}, nil
		}

		pool := try.To(provision.EnsureWorkPool(
			context.Background(), engine, "kitchen-pool", "process",
		)).OrFatal(t)
		if pool.Id != "pool-new" || pool.Type != "process" {
			t.Errorf("pool: got %+v", pool)
		}
		if engine.Calls.CreateWorkPool.Times() != 1 {
			t.Errorf("CreateWorkPool is called %d times, want 1", engine.Calls.CreateWorkPool.Times())
		}
	})
}

func TestRegisterBlocks(t *testing.T) {

	blocks := []provision.SecretBlock{
		{Name: "kitchen-mediacloud", TypeSlug: "secret", Data: map[string]any{"value": "key-1234"}},
	}

	t.Run("it registers a new block with the type's schema", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.FindBlockDocuments = func(ctx context.Context, names []string) ([]prefect.BlockDocument, error) {
			return []prefect.BlockDocument{}, nil
		}
		engine.Impl.GetBlockTypeBySlug = func(ctx context.Context, slug string) (prefect.BlockType, error) {
			return prefect.BlockType{Id: "type-1", Slug: slug}, nil
		}
		engine.Impl.FindBlockSchemas = func(ctx context.Context, blockTypeId string) ([]prefect.BlockSchema, error) {
			return []prefect.BlockSchema{{Id: "schema-1", BlockTypeId: blockTypeId}}, nil
		}
		engine.Impl.CreateBlockDocument = func(ctx context.Context, doc prefect.BlockDocument) (prefect.BlockDocument, error) {
			return doc, nil
		}

		if err := provision.RegisterBlocks(
			context.Background(), engine, quietLogger(), blocks,
		); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		if engine.Calls.CreateBlockDocument.Times() != 1 {
			t.Fatalf("CreateBlockDocument is called %d times, want 1",
				engine.Calls.CreateBlockDocument.Times())
		}
		created := engine.Calls.CreateBlockDocument[0]
		if created.Name != "kitchen-mediacloud" {
			t.Errorf("block name: got %s", created.Name)
		}
		if created.BlockSchemaId != "schema-1" || created.BlockTypeId != "type-1" {
			t.Errorf("block wiring: got %+v", created)
		}
	})

	t.Run("it does not clobber an existing block", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.FindBlockDocuments = func(ctx context.Context, names []string) ([]prefect.BlockDocument, error) {
			return []prefect.BlockDocument{{Id: "doc-1", Name: names[0]}}, nil
		}

		if err := provision.RegisterBlocks(
			context.Background(), engine, quietLogger(), blocks,
		); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if engine.Calls.CreateBlockDocument.Times() != 0 {
			t.Error("CreateBlockDocument should not be called")
		}
	})
}

func TestApplyManifest(t *testing.T) {

	m := &manifest.DeploymentManifest{
		Flow:       "sous-chef-recipe",
		Deployment: "kitchen",
		WorkPool:   "kitchen-pool",
		Entrypoint: "flows/run_recipe.py:run_recipe",
		Tags:       []string{"kitchen"},
	}

	t.Run("it registers flow and deployment", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.FindDeployments = func(ctx context.Context, names []string) ([]prefect.Deployment, error) {
			return []prefect.Deployment{}, nil
		}
		engine.Impl.EnsureFlow = func(ctx context.Context, name string) (prefect.Flow, error) {
			return prefect.Flow{Id: "flow-1", Name: name}, nil
		}
		engine.Impl.CreateDeployment = func(ctx context.Context, d prefect.DeploymentCreate) (prefect.Deployment, error) {
			return prefect.Deployment{Id: "dep-1", Name: d.Name, FlowId: d.FlowId}, nil
		}

		dep := try.To(provision.ApplyManifest(
			context.Background(), engine, quietLogger(), m,
		)).OrFatal(t)
		if dep.Id != "dep-1" {
			t.Errorf("deployment: got %+v", dep)
		}

		if engine.Calls.CreateDeployment.Times() != 1 {
			t.Fatalf("CreateDeployment is called %d times, want 1",
				engine.Calls.CreateDeployment.Times())
		}
		created := engine.Calls.CreateDeployment[0]
		if created.FlowId != "flow-1" {
			t.Errorf("flow id: got %s", created.FlowId)
		}
		if created.WorkPoolName != "kitchen-pool" {
			t.Errorf("work pool: got %s", created.WorkPoolName)
		}
		if created.Entrypoint != m.Entrypoint {
			t.Errorf("entrypoint: got %s", created.Entrypoint)
		}
	})

	t.Run("it reuses an applied deployment", func(t *testing.T) {
		engine := mockprefect.New()
		engine.Impl.FindDeployments = func(ctx context.Context, names []string) ([]prefect.Deployment, error) {
			return []prefect.Deployment{{Id: "dep-old", Name: names[0]}}, nil
		}

		dep := try.To(provision.ApplyManifest(
			context.Background(), engine, quietLogger(), m,
		)).OrFatal(t)
		if dep.Id != "dep-old" {
			t.Errorf("deployment: got %+v", dep)
		}
		if engine.Calls.EnsureFlow.Times() != 0 {
			t.Error("EnsureFlow should not be called")
		}
	})
}
