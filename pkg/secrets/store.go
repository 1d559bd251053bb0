// Package secrets resolves credentials from external stores. Stores are
// read-only inputs consulted once at construction; they never cache or write.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store supplies named secrets. A missing secret is not an error: stores
// return empty strings so callers can chain them.
type Store interface {
	Get(name string) string
}

// Chain consults stores in order and returns the first non-empty value.
type Chain []Store

// Get returns the first non-empty value for name across the chain.
func (c Chain) Get(name string) string {
	for _, s := range c {
		if v := s.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// EnvStore reads secrets from the process environment with a fixed prefix,
// e.g. Get("api_key") reads SIDENOTE_API_KEY.
type EnvStore struct {
	Prefix string
}

// Get implements Store.
func (s EnvStore) Get(name string) string {
	key := s.Prefix + envKey(name)
	return os.Getenv(key)
}

func envKey(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c == '-' || c == '.':
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// FileStore reads secrets from a flat YAML file, by default
// ~/.sidenote/secrets.yaml. The file maps secret names to values.
type FileStore struct {
	Path string

	values map[string]string
}

// NewFileStore opens the secrets file at path; an empty path uses the
// default location. A missing file yields an empty store, not an error.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".sidenote", "secrets.yaml")
	}

	s := &FileStore{Path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file: %w", err)
	}
	return s, nil
}

// Get implements Store.
func (s *FileStore) Get(name string) string {
	return s.values[name]
}

// DefaultChain is the standard credential resolution order: environment
// first, then the user secrets file.
func DefaultChain() Store {
	env := EnvStore{Prefix: "SIDENOTE_"}
	file, err := NewFileStore("")
	if err != nil {
		return Chain{env}
	}
	return Chain{env, file}
}
