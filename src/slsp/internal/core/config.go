package core

import (
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

// NewConfig loads the layered YAML configuration named by meta.yaml in the
// config directory, with environment variable expansion.
func NewConfig() (uber_config.Provider, error) {
	configDir := getConfigDir()

	metaPath := filepath.Join(configDir, "meta.yaml")
	metaProvider, err := uber_config.NewYAML(
		uber_config.File(metaPath),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var configFiles []string
	if err := metaProvider.Get("files").Populate(&configFiles); err != nil {
		return nil, fmt.Errorf("failed to read files list from meta.yaml: %w", err)
	}

	// Later files override earlier ones; missing files are skipped so that
	// environment-specific overlays remain optional.
	var validFiles []string
	for _, file := range configFiles {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			validFiles = append(validFiles, fullPath)
		}
	}

	if len(validFiles) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}

	var options []uber_config.YAMLOption
	for _, file := range validFiles {
		options = append(options, uber_config.File(file))
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

// getConfigDir returns the path to the configuration directory.
func getConfigDir() string {
	if configDir := os.Getenv("SLSP_CONFIG_DIR"); configDir != "" {
		return configDir
	}

	// Default assumes the binary is run from the repository root.
	return "src/slsp/config"
}
