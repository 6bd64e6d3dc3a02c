package deploy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kcd "github.com/mediacloud/sous-chef-kitchen/pkg/configs/deploy"
	"github.com/mediacloud/sous-chef-kitchen/pkg/deploy"
	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/try"
)

type fakeRegistry struct {
	known map[string]bool
	asked []string
}

func (f *fakeRegistry) Exists(ctx context.Context, ref string) (bool, error) {
	f.asked = append(f.asked, ref)
	return f.known[ref], nil
}

type fakeRunner struct {
	commands [][]string
	stdin    []byte
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	f.commands = append(f.commands, append([]string{name}, args...))
	f.stdin = stdin
	return nil, f.err
}

type ctxCheckingRegistry struct {
	t     *testing.T
	check func(ctx context.Context) bool
	asked bool
}

func (f *ctxCheckingRegistry) Exists(ctx context.Context, ref string) (bool, error) {
	f.asked = true
	if !f.check(ctx) {
		f.t.Errorf("the caller's context is lost at the registry check")
	}
	return true, nil
}

const template = `
services:
  kitchen:
    image: "${DEPLOY_IMAGE}"
    ports:
      - "${API_PORT}:8000"
    environment:
      SC_DEPLOY_ENV: "${DEPLOY_ENV}"
`

func writeConfig(t *testing.T) *kcd.DeployConfig {
	t.Helper()
	dir := t.TempDir()
	tpl := filepath.Join(dir, "stack.yml.tmpl")
	if err := os.WriteFile(tpl, []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}
	return try.To(kcd.Unmarshal([]byte(`
registry: registry.example.org/mediacloud/kitchen
template: ` + tpl + `
ports:
  API_PORT: 8000
environments:
  dev:
    bias: 200
    stack: kitchen-dev
  prod:
    bias: 0
    stack: kitchen
    requireCleanTag: true
`))).OrFatal(t)
}

func TestDeployerPlan(t *testing.T) {

	t.Run("it renders a biased stack for a known image", func(t *testing.T) {
		conf := writeConfig(t)
		registry := &fakeRegistry{known: map[string]bool{
			"registry.example.org/mediacloud/kitchen:v1.2.3-4-gabcdef0": true,
		}}
		d := deploy.New(conf, &fakeRunner{}, registry)

		plan := try.To(d.Plan(
			context.Background(), "dev",
			deploy.GitInfo{Tag: "v1.2.3-4-gabcdef0", ExactTag: false, Dirty: true},
		)).OrFatal(t)

		if plan.Stack != "kitchen-dev" {
			t.Errorf("stack: got %s", plan.Stack)
		}
		if plan.Bias != 200 {
			t.Errorf("bias: got %d", plan.Bias)
		}

		rendered := string(plan.Rendered)
		if !strings.Contains(rendered, "registry.example.org/mediacloud/kitchen:v1.2.3-4-gabcdef0") {
			t.Errorf("rendered config misses the image:\n%s", rendered)
		}
		if !strings.Contains(rendered, "8200") {
			t.Errorf("rendered config misses the biased port:\n%s", rendered)
		}
	})

	t.Run("the caller's context reaches collaborators", func(t *testing.T) {
		type ctxKey struct{}
		ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

		conf := writeConfig(t)
		registry := &ctxCheckingRegistry{
			t:     t,
			check: func(got context.Context) bool { return got.Value(ctxKey{}) == "marker" },
		}
		d := deploy.New(conf, &fakeRunner{}, registry)

		_ = try.To(d.Plan(
			ctx, "dev", deploy.GitInfo{Tag: "v1.2.3-4-gabcdef0"},
		)).OrFatal(t)

		if !registry.asked {
			t.Error("the registry should be asked")
		}
	})

	t.Run("prod refuses a dirty worktree", func(t *testing.T) {
		d := deploy.New(writeConfig(t), &fakeRunner{}, &fakeRegistry{})

		_, err := d.Plan(
			context.Background(), "prod",
			deploy.GitInfo{Tag: "v1.2.3", ExactTag: true, Dirty: true},
		)
		if !errors.Is(err, deploy.ErrDirtyWorktree) {
			t.Errorf("error: got %v, want ErrDirtyWorktree", err)
		}
	})

	t.Run("prod refuses an untagged HEAD", func(t *testing.T) {
		d := deploy.New(writeConfig(t), &fakeRunner{}, &fakeRegistry{})

		_, err := d.Plan(
			context.Background(), "prod",
			deploy.GitInfo{Tag: "v1.2.3-4-gabcdef0", ExactTag: false, Dirty: false},
		)
		if !errors.Is(err, deploy.ErrNotTagged) {
			t.Errorf("error: got %v, want ErrNotTagged", err)
		}
	})

	t.Run("it refuses an image the registry does not know", func(t *testing.T) {
		d := deploy.New(writeConfig(t), &fakeRunner{}, &fakeRegistry{})

		_, err := d.Plan(
			context.Background(), "dev",
			deploy.GitInfo{Tag: "v9.9.9"},
		)
		if !errors.Is(err, deploy.ErrImageMissing) {
			t.Errorf("error: got %v, want ErrImageMissing", err)
		}
	})

	t.Run("it fails on a template variable nothing binds", func(t *testing.T) {
		conf := writeConfig(t)
		tpl := filepath.Join(t.TempDir(), "stack.yml.tmpl")
		if err := os.WriteFile(tpl, []byte(`
services:
  kitchen:
    image: "${DEPLOY_IMAGE}"
    environment:
      TYPO: "${NO_SUCH_VARIABLE?required}"
`), 0o644); err != nil {
			t.Fatal(err)
		}
		conf.Template = tpl

		registry := &fakeRegistry{known: map[string]bool{
			"registry.example.org/mediacloud/kitchen:v1.0.0": true,
		}}
		d := deploy.New(conf, &fakeRunner{}, registry)

		if _, err := d.Plan(
			context.Background(), "dev", deploy.GitInfo{Tag: "v1.0.0"},
		); err == nil {
			t.Error("no error on unbound template variable")
		}
	})
}

func TestDeployerApply(t *testing.T) {

	t.Run("it feeds the rendered config to docker stack deploy", func(t *testing.T) {
		runner := &fakeRunner{}
		d := deploy.New(writeConfig(t), runner, &fakeRegistry{})

		plan := &deploy.Plan{
			Stack:    "kitchen-dev",
			Rendered: []byte("services: {}\n"),
		}
		if err := d.Apply(context.Background(), plan); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		if len(runner.commands) != 1 {
			t.Fatalf("runner is called %d times, want 1", len(runner.commands))
		}
		want := []string{"docker", "stack", "deploy", "--compose-file", "-", "kitchen-dev"}
		got := runner.commands[0]
		if len(got) != len(want) {
			t.Fatalf("command: got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("command: got %v, want %v", got, want)
			}
		}
		if string(runner.stdin) != "services: {}\n" {
			t.Errorf("stdin: got %q", string(runner.stdin))
		}
	})

	t.Run("it surfaces a failed deploy", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("exit status 1")}
		d := deploy.New(writeConfig(t), runner, &fakeRegistry{})

		err := d.Apply(context.Background(), &deploy.Plan{Stack: "kitchen", Rendered: []byte("x")})
		if err == nil {
			t.Error("no error on failed docker command")
		}
	})
}
