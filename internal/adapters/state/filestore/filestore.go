// Package filestore is the device-local state store: one file per key under
// a state directory, the browser local-storage analog for a terminal client.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cafetec/cafetec-client/internal/ports"
)

var _ ports.StateStore = (*Store)(nil)

// Store persists values as files named after their keys. Writes go through a
// temp file and rename so a crash mid-write never leaves a torn value.
type Store struct {
	dir string
}

// New creates the state directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(base, "cafetec")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get returns the value for key, or ports.ErrStateNotFound when absent.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ports.ErrStateNotFound
		}
		return "", fmt.Errorf("read state %q: %w", key, err)
	}
	return string(data), nil
}

// Set stores the value for key atomically.
func (s *Store) Set(_ context.Context, key, value string) error {
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("write state %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.WriteString(value); err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}
	if err == nil {
		err = os.Rename(tmpName, s.path(key))
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value for key. Removing an absent key is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state %q: %w", key, err)
	}
	return nil
}
