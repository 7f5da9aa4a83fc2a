// Package config loads diffhouse's per-repository configuration file,
// .diffhouse.yml, which supplies defaults for the CLI (location, verbose,
// shallow) so repeated invocations against the same repository don't have
// to repeat them. The file's blobs key is loaded into Config.Blobs, but the
// CLI does not read it: blobs follows from shallow alone.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file diffhouse reads from the current
// working directory.
const FileName = ".diffhouse.yml"

// Config mirrors gitmine.Config's fields plus the CLI-level Shallow flag.
type Config struct {
	Location string `yaml:"location,omitempty"`
	Blobs    bool   `yaml:"blobs"`
	Verbose  bool   `yaml:"verbose"`
	Shallow  bool   `yaml:"shallow"`
}

// Store provides generic YAML file I/O for a single value of type T. Kept
// generic so the same load/save machinery could back a second config shape
// without duplicating the marshal/unmarshal boilerplate.
type Store[T any] struct {
	rootDir      string
	filename     string
	allowMissing bool // if true, a missing file yields the zero value instead of an error
}

// NewStore constructs a Store for type T rooted at rootDir.
func NewStore[T any](rootDir, filename string, allowMissing bool) *Store[T] {
	return &Store[T]{rootDir: rootDir, filename: filename, allowMissing: allowMissing}
}

// Path returns the store's full file path.
func (s *Store[T]) Path() string {
	return filepath.Join(s.rootDir, s.filename)
}

// Load reads and unmarshals the YAML file into type T.
func (s *Store[T]) Load() (T, error) {
	var result T

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && s.allowMissing {
			return result, nil
		}
		return result, err
	}

	if err := yaml.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("invalid %s: %w", s.filename, err)
	}
	return result, nil
}

// Save marshals and writes type T to the YAML file.
func (s *Store[T]) Save(data T) error {
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.filename, err)
	}
	if err := os.WriteFile(s.Path(), b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.filename, err)
	}
	return nil
}

// Load reads .diffhouse.yml from dir, returning a zero-value Config
// (Blobs defaulting to false) if the file doesn't exist.
func Load(dir string) (Config, error) {
	return NewStore[Config](dir, FileName, true).Load()
}
