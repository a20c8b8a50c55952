package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix.
const DefaultEnvPrefix = "FITPLAN_"

// envNestSeparator separates nesting levels in variable names, so single
// underscores stay part of the key:
//
//	FITPLAN_COMPLETION__API_KEY -> completion.api_key
const envNestSeparator = "__"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	flags     map[string]any
}

// Option configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithFlags sets values that override every other source. Keys are
// dotted paths ("storage.engine"); nil values are skipped.
func WithFlags(flags map[string]any) Option {
	return func(l *Loader) {
		l.flags = flags
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads file, environment and flags, then unmarshals into target.
// Fields of target without a configured value keep their current value,
// so callers pass a struct pre-filled with defaults.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return err
		}
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if len(l.flags) > 0 {
		if err := l.LoadMap(l.flags); err != nil {
			return err
		}
	}
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile loads a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads variables carrying the loader's prefix.
func (l *Loader) LoadEnv() error {
	prefix := l.envPrefix
	transform := func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, envNestSeparator, ".")
	}
	if err := l.k.Load(env.Provider(prefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap loads dotted-key values, skipping nil entries.
func (l *Loader) LoadMap(data map[string]any) error {
	clean := make(map[string]any, len(data))
	for k, v := range data {
		if v != nil {
			clean[k] = v
		}
	}
	if err := l.k.Load(mapProvider(clean), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// String returns a loaded string value.
func (l *Loader) String(key string) string {
	return l.k.String(key)
}

// Exists reports whether key was set by any source.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// Keys returns all loaded keys.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}
