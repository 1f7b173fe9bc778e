// Package config loads and validates the tool configuration. All settings
// have workable defaults, so running without a config file is the normal
// case; a YAML file can override any of them.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GlobalConfig holds the process-wide configuration
type GlobalConfig struct {
	CacheDir           string        `yaml:"cacheDir"`
	TempDir            string        `yaml:"tempDir"`
	HTTPTimeoutSeconds int           `yaml:"httpTimeoutSeconds"`
	Logging            LoggingConfig `yaml:"logging"`

	// DistributionURLs overrides the pinned distribution list. Intended
	// for mirrors and tests; the order is the install order.
	DistributionURLs []string `yaml:"distributionUrls"`
}

// GlConfig is the loaded global configuration
var GlConfig = Default()

// Default returns the built-in configuration.
func Default() *GlobalConfig {
	cacheDir := "_bundled"
	if userCache, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(userCache, "pip-bootstrap", "bundled")
	}
	return &GlobalConfig{
		CacheDir:           cacheDir,
		HTTPTimeoutSeconds: 300,
		Logging:            LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file, validates it against the embedded schema,
// and merges it over the defaults. It also installs the result as the
// global configuration.
func Load(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	GlConfig = cfg
	return cfg, nil
}

// Parse validates raw YAML config data and merges it over the defaults.
func Parse(data []byte) (*GlobalConfig, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	schema, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return cfg, nil
}

func createDirIfNotExists(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
