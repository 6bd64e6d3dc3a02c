package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeploymentManifest declares the engine-side deployment kitchend enqueues
// orders against. cmd/prefect_init applies it at provision time.
type DeploymentManifest struct {
	// Flow is the engine flow name. Created if it does not exist yet.
	Flow string `yaml:"flow"`

	// Deployment is the deployment name, unique per flow.
	Deployment string `yaml:"deployment"`

	Description string `yaml:"description"`

	// WorkPool routes runs of this deployment to its workers.
	WorkPool string `yaml:"workPool"`

	// Entrypoint locates the flow function inside the worker image,
	// like "flows/run_recipe.py:run_recipe".
	Entrypoint string `yaml:"entrypoint"`

	// Path is the working directory inside the worker image.
	Path string `yaml:"path"`

	Tags []string `yaml:"tags"`

	// Parameters are deployment-level parameter defaults. Per-order
	// parameters override them.
	Parameters map[string]any `yaml:"parameters"`

	// JobVariables configure the worker job, like {"image": "..."}.
	JobVariables map[string]any `yaml:"jobVariables"`
}

func LoadDeploymentManifest(filepath string) (*DeploymentManifest, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*DeploymentManifest, error) {
	var out DeploymentManifest
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	if out.Flow == "" {
		return nil, fmt.Errorf("manifest: flow is required")
	}
	if out.Deployment == "" {
		return nil, fmt.Errorf("manifest: deployment is required")
	}
	if out.WorkPool == "" {
		return nil, fmt.Errorf("manifest: workPool is required")
	}
	if out.Entrypoint == "" {
		return nil, fmt.Errorf("manifest: entrypoint is required")
	}
	return &out, nil
}
