package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// flagPaths maps CLI flag names to configuration paths.
var flagPaths = map[string]string{
	"event":          "pretalx.event",
	"base-url":       "pretalx.base_url",
	"bundle-url":     "bundle.url",
	"timezone":       "normalizer.timezone",
	"abstract-limit": "normalizer.abstract_limit",
	"max-tags":       "classifier.max_tags",
	"overrides":      "overrides.paths",
	"output-json":    "output.json_path",
	"output-go":      "output.go_path",
	"go-package":     "output.go_package",
	"go-var":         "output.go_var",
	"log-level":      "log.level",
	"log-json":       "log.json",
	"log-source":     "log.source",
}

// FlagPath returns the configuration path bound to a CLI flag.
func FlagPath(flag string) (string, bool) {
	path, ok := flagPaths[flag]
	return path, ok
}

// FlagNames returns the CLI flags bound to configuration paths, sorted.
func FlagNames() []string {
	return slices.Sorted(maps.Keys(flagPaths))
}

// cliProvider implements Source interface for CLI flags.
type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider creates a source from flags the user set explicitly.
// Unknown flag names are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

// Load returns the CLI flags as configuration data. --year rewrites the
// edition-dependent values unless they were given explicitly; --no-abstract
// clears classifier.include_abstract.
func (c *cliProvider) Load() (map[string]any, error) {
	config := make(map[string]any)
	if year, ok := c.flags["year"]; ok {
		y, err := toInt(year)
		if err != nil {
			return nil, fmt.Errorf("failed to set CLI flag year: %w", err)
		}
		derived := map[string]any{
			"conference.year":             y,
			"conference.name":             fmt.Sprintf("COSCUP %d", y),
			"conference.session_url_base": fmt.Sprintf("https://coscup.org/%d/sessions/", y),
			"pretalx.event":               fmt.Sprintf("coscup-%d", y),
		}
		for path, value := range derived {
			if err := setNested(config, path, value); err != nil {
				return nil, err
			}
		}
	}
	if v, ok := c.flags["no-abstract"].(bool); ok {
		if err := setNested(config, "classifier.include_abstract", !v); err != nil {
			return nil, err
		}
	}
	for key, value := range c.flags {
		path, ok := flagPaths[key]
		if !ok {
			continue
		}
		if err := setNested(config, path, value); err != nil {
			return nil, fmt.Errorf("failed to set CLI flag %s: %w", key, err)
		}
	}
	return config, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// Type returns the source type identifier.
func (c *cliProvider) Type() SourceType {
	return SourceCLI
}

// setNested sets a value in a nested map structure using dot notation.
// It returns an error if a path conflict is encountered.
func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	current := m
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if _, exists := current[part]; !exists {
			current[part] = make(map[string]any)
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// yamlProvider implements Source interface for YAML files.
type yamlProvider struct {
	fs       afero.Fs
	path     string
	required bool
}

// NewYAMLProvider creates a YAML file source. A missing file yields no
// values unless required is set.
func NewYAMLProvider(fsys afero.Fs, path string, required bool) Source {
	return &yamlProvider{fs: fsys, path: path, required: required}
}

// Load reads configuration from a YAML file.
func (y *yamlProvider) Load() (map[string]any, error) {
	data, err := afero.ReadFile(y.fs, y.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !y.required {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", y.path, err)
	}
	return filterNilValues(config), nil
}

// Type returns the source type identifier.
func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}

// filterNilValues recursively removes nil values so that an empty YAML key
// does not clobber a default.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			filtered := filterNilValues(nested)
			if len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}
