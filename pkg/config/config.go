// Package config handles configuration for hypium-runner.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
)

// Config represents the workspace configuration (config.yaml).
type Config struct {
	// Device settings
	Target  string `yaml:"target"`  // hdc connect key (empty = auto-detect)
	HdcPath string `yaml:"hdcPath"` // Explicit hdc binary path

	// Screen geometry used for scroll gestures
	ScreenWidth  int `yaml:"screenWidth"`
	ScreenHeight int `yaml:"screenHeight"`

	// Timeouts, in milliseconds
	LaunchTimeoutMs int `yaml:"launchTimeoutMs"` // App launch readiness
	WaitTimeoutMs   int `yaml:"waitTimeoutMs"`   // extendedWaitUntil default
	PollIntervalMs  int `yaml:"pollIntervalMs"`  // Tree re-dump interval

	// Flow selection
	Flows []string `yaml:"flows"` // Glob patterns for flows

	// Execution settings
	Env map[string]string `yaml:"env"` // Variables exposed to ${...} interpolation

	// Output
	OutputDir string `yaml:"outputDir"` // Artifact directory
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory and
// merges a .env file, when present, into Env. Explicit env entries from
// config.yaml win over .env values.
func LoadFromDir(dir string) (*Config, error) {
	cfg := &Config{}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err != nil {
		configPath = filepath.Join(dir, "config.yml")
		if _, err := os.Stat(configPath); err != nil {
			configPath = ""
		}
	}
	if configPath != "" {
		loaded, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		vars, err := godotenv.Read(envPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", envPath, err)
		}
		for k, v := range vars {
			if _, ok := cfg.Env[k]; !ok {
				if cfg.Env == nil {
					cfg.Env = map[string]string{}
				}
				cfg.Env[k] = v
			}
		}
	}

	return cfg, nil
}

// Validate rejects values the runner cannot work with.
func (c *Config) Validate() error {
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		return core.ErrInvalidConfig.WithMessage("screen dimensions must be non-negative")
	}
	if c.LaunchTimeoutMs < 0 || c.WaitTimeoutMs < 0 || c.PollIntervalMs < 0 {
		return core.ErrInvalidConfig.WithMessage("timeouts must be non-negative")
	}
	return nil
}
