package config

import (
	"errors"
	"os"

	"github.com/yndnr/fitplan-go/internal/infra/confloader"
)

// Load builds the configuration from defaults, the YAML file at path,
// FITPLAN_* environment variables and flags, in increasing priority.
//
// An empty path falls back to DefaultConfigFile when that file exists.
// The result is not verified.
func Load(path string, flags map[string]any) (*AppConfig, error) {
	if path == "" {
		if def := DefaultConfigFile(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			} else if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg := Default()
	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithFlags(flags),
	)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
