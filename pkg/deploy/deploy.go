// Package deploy renders the kitchen's Compose stack template for one
// environment and hands it to Docker Swarm.
package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"

	kcd "github.com/mediacloud/sous-chef-kitchen/pkg/configs/deploy"
)

var (
	// ErrDirtyWorktree : the environment demands an exact tag and the
	// worktree has uncommitted changes.
	ErrDirtyWorktree = errors.New("worktree is dirty")

	// ErrNotTagged : the environment demands an exact tag and HEAD is not
	// at one.
	ErrNotTagged = errors.New("HEAD is not at a tag")

	// ErrImageMissing : the resolved image tag is not in the registry.
	ErrImageMissing = errors.New("image is not in the registry")
)

// Runner executes an external command, feeding stdin when non-nil.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// ImageChecker answers whether an image reference is pullable.
type ImageChecker interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// Plan is a resolved deployment: everything decided, nothing executed.
type Plan struct {
	Environment string
	Stack       string
	Bias        int
	Image       string
	Tag         string

	// Rendered is the interpolated, validated Compose config.
	Rendered []byte
}

// Deployer turns a deploy config plus a git worktree into running stacks.
type Deployer struct {
	conf     *kcd.DeployConfig
	runner   Runner
	registry ImageChecker
}

func New(conf *kcd.DeployConfig, runner Runner, registry ImageChecker) *Deployer {
	if runner == nil {
		runner = execRunner{}
	}
	if registry == nil {
		registry = craneChecker{}
	}
	return &Deployer{conf: conf, runner: runner, registry: registry}
}

// Plan resolves the image tag from git, checks environment policy and
// the registry, and renders the stack template.
func (d *Deployer) Plan(ctx context.Context, envName string, git GitInfo) (*Plan, error) {
	env, err := d.conf.Environment(envName)
	if err != nil {
		return nil, err
	}

	if env.RequireCleanTag {
		if git.Dirty {
			return nil, fmt.Errorf("%w: commit before deploying to %s", ErrDirtyWorktree, envName)
		}
		if !git.ExactTag {
			return nil, fmt.Errorf("%w: tag a release before deploying to %s", ErrNotTagged, envName)
		}
	}

	image := d.conf.Registry + ":" + git.Tag
	ok, err := d.registry.Exists(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("registry check for %s: %w", image, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageMissing, image)
	}

	rendered, err := d.render(ctx, env, envName, image)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Environment: envName,
		Stack:       env.Stack,
		Bias:        env.Bias,
		Image:       image,
		Tag:         git.Tag,
		Rendered:    rendered,
	}, nil
}

// Apply hands the rendered config to `docker stack deploy`.
func (d *Deployer) Apply(ctx context.Context, plan *Plan) error {
	_, err := d.runner.Run(
		ctx, plan.Rendered,
		"docker", "stack", "deploy", "--compose-file", "-", plan.Stack,
	)
	if err != nil {
		return fmt.Errorf("docker stack deploy %s: %w", plan.Stack, err)
	}
	return nil
}

// render interpolates the template with the process environment plus the
// deploy variables, and re-marshals the validated project.
//
// An unset variable referenced by the template fails the load, so a typo
// surfaces here rather than as a half-configured stack.
func (d *Deployer) render(ctx context.Context, env kcd.Environment, envName, image string) ([]byte, error) {
	content, err := os.ReadFile(d.conf.Template)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", d.conf.Template, err)
	}

	vars := composetypes.Mapping{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[key] = value
	}
	vars["DEPLOY_ENV"] = envName
	vars["DEPLOY_STACK"] = env.Stack
	vars["DEPLOY_BIAS"] = strconv.Itoa(env.Bias)
	vars["DEPLOY_IMAGE"] = image
	for name, base := range d.conf.Ports {
		vars[name] = strconv.Itoa(base + env.Bias)
	}

	details := composetypes.ConfigDetails{
		WorkingDir: filepath.Dir(d.conf.Template),
		ConfigFiles: []composetypes.ConfigFile{
			{Filename: d.conf.Template, Content: content},
		},
		Environment: vars,
	}
	project, err := loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SetProjectName(env.Stack, true)
		o.SkipValidation = false
	})
	if err != nil {
		return nil, fmt.Errorf("render template %s: %w", d.conf.Template, err)
	}

	return project.MarshalYAML()
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

type craneChecker struct{}

func (craneChecker) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := crane.Digest(
		ref,
		crane.WithContext(ctx),
		crane.WithAuthFromKeychain(authn.DefaultKeychain),
	)
	if err == nil {
		return true, nil
	}
	var terr *transport.Error
	if errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, err
}
