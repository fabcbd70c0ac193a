package config

import (
	"fmt"

	"github.com/yndnr/usercache-go/internal/infra/confloader"
)

// Load builds the effective configuration: defaults, then the optional YAML
// file, then USERCACHE_* environment variables, then overrides (flag values
// keyed by dotted path). The result is verified before it is returned.
func Load(path string, overrides map[string]any) (*Config, error) {
	cfg := Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}
	return cfg, nil
}
