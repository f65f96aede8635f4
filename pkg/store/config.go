package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config archive configuration.
type Config struct {
	// Dir is the directory replay files are stored in.
	Dir string `yaml:"dir"`

	// IndexPath is the bolt database the archive index lives in.
	IndexPath string `yaml:"indexPath"`

	// MaxDiskUsage is the filesystem usage percentage above which Prune
	// deletes the oldest replays.
	MaxDiskUsage int `yaml:"maxDiskUsage"`

	// PruneIntervalMinutes between prune checks.
	PruneIntervalMinutes int `yaml:"pruneIntervalMinutes"`
}

// ErrPathNotAbsolute path is not absolute.
var ErrPathNotAbsolute = errors.New("path is not absolute")

// NewConfigEnv returns the archive configuration parsed from envYAML.
// Relative defaults resolve next to envPath.
func NewConfigEnv(envPath string, envYAML []byte) (*Config, error) {
	var env Config

	if err := yaml.Unmarshal(envYAML, &env); err != nil {
		return nil, fmt.Errorf("unmarshal env.yaml: %w", err)
	}

	if env.Dir == "" {
		env.Dir = filepath.Join(filepath.Dir(envPath), "replays")
	}
	if env.IndexPath == "" {
		env.IndexPath = filepath.Join(env.Dir, "index.db")
	}
	if env.MaxDiskUsage == 0 {
		env.MaxDiskUsage = 95
	}
	if env.PruneIntervalMinutes == 0 {
		env.PruneIntervalMinutes = 10
	}

	if !filepath.IsAbs(env.Dir) {
		return nil, fmt.Errorf("dir %q: %w", env.Dir, ErrPathNotAbsolute)
	}
	if !filepath.IsAbs(env.IndexPath) {
		return nil, fmt.Errorf("indexPath %q: %w", env.IndexPath, ErrPathNotAbsolute)
	}

	return &env, nil
}

// PrepareEnvironment creates the archive directory.
func (env Config) PrepareEnvironment() error {
	err := os.MkdirAll(env.Dir, 0o700)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create replay directory: %v: %w", env.Dir, err)
	}
	return nil
}
