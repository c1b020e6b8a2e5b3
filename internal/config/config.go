// Package config loads the optional `.pymove.yml` project file.
// Unlike the teacher (a flags-only CLI), this tool has a handful of
// settings worth persisting alongside the project it operates on, so
// the shape follows funxy's `internal/ext.Config` / `LoadConfig`
// idiom: a plain yaml.v3-tagged struct and a loader that treats a
// missing file as "defaults, no error" rather than a hard failure.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the contents of `.pymove.yml` at a project root.
type Config struct {
	// SearchPaths lists additional directories (relative to the
	// project root). They are stored on layout.Layout, but module
	// resolution looks only under the root itself.
	SearchPaths []string `yaml:"search_paths,omitempty"`

	// Formatter is the external command line run after every file
	// write, e.g. ["isort", "-"] — empty disables post-write
	// reformatting entirely.
	Formatter []string `yaml:"formatter,omitempty"`
}

const fileName = ".pymove.yml"

// Load reads `<root>/.pymove.yml`. A missing file yields a zero-value
// Config and no error — the config file is optional.
func Load(root string) (*Config, error) {
	return LoadPath(filepath.Join(root, fileName))
}

// LoadPath reads the config file at an explicit path, e.g. one given
// via the CLI's `--config` flag instead of the default
// `<root>/.pymove.yml`. Same missing-file-is-not-an-error posture.
func LoadPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}
