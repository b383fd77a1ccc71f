package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage keeps uploaded files (client photos, thumbnails, profile photos)
// on local disk under one root. Keys are slash-separated relative paths.
type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

// WriteFile stores data under key. The file is written to a temporary
// sibling first and renamed into place so readers never see partial files.
func (s *Storage) WriteFile(key string, data []byte) error {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", key, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %q: %w", key, err)
	}

	if err := os.Rename(tmpName, resolved); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %q: %w", key, err)
	}

	return nil
}

func (s *Storage) ReadFile(key string) ([]byte, error) {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(resolved)
}

// Remove deletes key. A missing file is not an error.
func (s *Storage) Remove(key string) error {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", key, err)
	}

	return nil
}

func (s *Storage) Exists(key string) (bool, error) {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
