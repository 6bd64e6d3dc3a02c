package deploy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment is one deploy target of the kitchen stack.
type Environment struct {
	// Bias offsets every published port so stacks for different
	// environments coexist on one Swarm.
	Bias int `yaml:"bias"`

	// Stack is the Docker stack name deployed into.
	Stack string `yaml:"stack"`

	// RequireCleanTag demands HEAD be exactly at a tag with a clean
	// worktree. Set for production.
	RequireCleanTag bool `yaml:"requireCleanTag"`
}

// DeployConfig drives cmd/stack_deploy.
type DeployConfig struct {
	// Registry is the image registry+repository, like
	// "docker.io/mediacloud/sous-chef-kitchen".
	Registry string `yaml:"registry"`

	// Template is the path of the Compose stack template to interpolate.
	Template string `yaml:"template"`

	// Ports are base published ports by variable name. Each is exported
	// to the template shifted by the environment's bias.
	Ports map[string]int `yaml:"ports"`

	Environments map[string]Environment `yaml:"environments"`
}

func LoadDeployConfig(filepath string) (*DeployConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*DeployConfig, error) {
	var out DeployConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	if out.Registry == "" {
		return nil, fmt.Errorf("deploy config: registry is required")
	}
	if out.Template == "" {
		return nil, fmt.Errorf("deploy config: template is required")
	}
	if len(out.Environments) == 0 {
		return nil, fmt.Errorf("deploy config: no environments defined")
	}
	for name, env := range out.Environments {
		if env.Stack == "" {
			return nil, fmt.Errorf("deploy config: environment %s: stack is required", name)
		}
		if env.Bias < 0 {
			return nil, fmt.Errorf("deploy config: environment %s: bias must not be negative", name)
		}
	}
	return &out, nil
}

// Environment returns the named environment.
func (c *DeployConfig) Environment(name string) (Environment, error) {
	env, ok := c.Environments[name]
	if !ok {
		return Environment{}, fmt.Errorf("deploy config: unknown environment: %s", name)
	}
	return env, nil
}
