package kitchen

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// KitchenConfig holds everything kitchend needs to serve orders.
type KitchenConfig struct {
	// ServerPort is the port kitchend listens on.
	ServerPort string `yaml:"port"`

	// DBURI is the connection string for the order ledger database.
	//
	// Empty value disables the ledger; orders are traceable via engine tags only.
	DBURI string `yaml:"dbURI"`

	// PrefectAPIRoot is the root URL of the workflow engine API,
	// like "http://prefect:4200/api".
	PrefectAPIRoot string `yaml:"prefectAPIRoot"`

	// PrefectAPIKey authenticates against the engine API. Optional for
	// self-hosted engines.
	PrefectAPIKey string `yaml:"prefectAPIKey"`

	// MediaCloudAPIRoot is the root URL of the Media Cloud API used for
	// API-key authentication.
	MediaCloudAPIRoot string `yaml:"mediacloudAPIRoot"`

	// RecipeDir is the directory holding recipe YAML files.
	RecipeDir string `yaml:"recipeDir"`

	// Deployment is the engine deployment orders are enqueued against.
	Deployment string `yaml:"deployment"`

	// WorkPool is the engine work pool serving that deployment.
	WorkPool string `yaml:"workPool"`

	// MaxUserFlows caps active (running, scheduled or pending) runs per user.
	// Zero means unlimited.
	MaxUserFlows int `yaml:"maxUserFlows"`

	// SessionKey signs session tokens. Empty value generates an ephemeral key
	// at startup, invalidating sessions on restart.
	SessionKey string `yaml:"sessionKey"`

	// SessionTTL is the lifetime of issued session tokens.
	SessionTTL time.Duration `yaml:"sessionTTL"`
}

func LoadKitchenConfig(filepath string) (*KitchenConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	conf, err := Unmarshal(content)
	if err != nil {
		return nil, err
	}
	conf.overrideFromEnv()
	return conf, nil
}

func Unmarshal(conf []byte) (*KitchenConfig, error) {
	out := KitchenConfig{
		ServerPort: "8000",
		SessionTTL: 24 * time.Hour,
	}
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	if out.PrefectAPIRoot == "" {
		return nil, fmt.Errorf("config: prefectAPIRoot is required")
	}
	if out.Deployment == "" {
		return nil, fmt.Errorf("config: deployment is required")
	}
	return &out, nil
}

// overrideFromEnv lets SC_* environment variables take precedence over the
// config file, so that one image works across stack environments.
func (c *KitchenConfig) overrideFromEnv() {
	if v, ok := os.LookupEnv("SC_PORT"); ok {
		c.ServerPort = v
	}
	if v, ok := os.LookupEnv("SC_DB_URI"); ok {
		c.DBURI = v
	}
	if v, ok := os.LookupEnv("SC_PREFECT_API_ROOT"); ok {
		c.PrefectAPIRoot = v
	}
	if v, ok := os.LookupEnv("SC_PREFECT_API_KEY"); ok {
		c.PrefectAPIKey = v
	}
	if v, ok := os.LookupEnv("SC_MEDIACLOUD_API_ROOT"); ok {
		c.MediaCloudAPIRoot = v
	}
	if v, ok := os.LookupEnv("SC_RECIPE_DIR"); ok {
		c.RecipeDir = v
	}
	if v, ok := os.LookupEnv("SC_DEPLOYMENT"); ok {
		c.Deployment = v
	}
	if v, ok := os.LookupEnv("SC_WORK_POOL"); ok {
		c.WorkPool = v
	}
	if v, ok := os.LookupEnv("SC_MAX_USER_FLOWS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxUserFlows = n
		}
	}
	if v, ok := os.LookupEnv("SC_SESSION_KEY"); ok {
		c.SessionKey = v
	}
}
