// Package store persists picker sessions, selection history and user
// configuration under a single directory.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	dbFileName     = "datepick.sqlite"
	configFileName = "config.json"
)

// ErrSessionNotFound is returned (wrapped) when a named session does not exist.
var ErrSessionNotFound = errors.New("session not found")

type Store struct {
	Dir string
}

// DefaultDir is ~/.datepick.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".datepick"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) dbPath() string { return filepath.Join(s.Dir, dbFileName) }

func (s Store) configPath() string { return filepath.Join(s.Dir, configFileName) }

// atomicWriteFile writes b to path through a unique temp file in the same
// directory, so concurrent CLI and TUI writers never leave a torn file.
func atomicWriteFile(path string, b []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
