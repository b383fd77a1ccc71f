package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

var (
	ErrInvalidKey    = errors.New("storage key contains invalid characters")
	ErrOutsideRoot   = errors.New("storage key resolves outside root")
	ErrEmptyStoreKey = errors.New("storage key cannot be empty")
)

// PathValidator maps slash-separated storage keys such as
// "photos/12345678909/abc.jpg" onto absolute paths under one root.
type PathValidator struct {
	rootAbs string
}

func NewPathValidator(root string) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	return &PathValidator{rootAbs: rootAbs}, nil
}

func (v *PathValidator) RootAbs() string {
	return v.rootAbs
}

func (v *PathValidator) ResolveKey(key string) (string, error) {
	normalized := strings.Trim(strings.ReplaceAll(strings.TrimSpace(key), `\`, "/"), "/")
	if normalized == "" {
		return "", ErrEmptyStoreKey
	}

	if hasControlCharacters(normalized) {
		return "", ErrInvalidKey
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", ErrOutsideRoot
		}
	}

	resolved, err := filepath.Abs(filepath.Join(v.rootAbs, filepath.FromSlash(normalized)))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	if !isWithinRoot(v.rootAbs, resolved) || resolved == v.rootAbs {
		return "", ErrOutsideRoot
	}

	return resolved, nil
}

// hasControlCharacters also catches NUL bytes.
func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}

	return strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator))
}
