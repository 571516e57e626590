package commons

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"

	"kasir/internal/config"
)

// LoadConfig reads the YAML file at path and then applies environment
// overrides. A missing file falls back to defaults and environment.
func LoadConfig(path string) (*config.Config, error) {
	var cfg config.Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	return &cfg, nil
}
