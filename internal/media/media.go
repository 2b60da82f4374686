// Package media stores uploaded photos on the local filesystem. Stored
// names are sanitized and prefixed with a random UUID so uploads can
// never collide or escape the media root.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes and reads photo files under a single root directory.
type Store struct {
	root string
}

// NewStore creates the media root directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the media root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes data to a new file and returns the stored name, formed
// from a random UUID plus the sanitized original name.
func (s *Store) Save(originalName string, data []byte) (string, error) {
	name := uuid.NewString()
	if base := SanitizeFilename(originalName); base != "" {
		name += "_" + base
	}

	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing media file: %w", err)
	}
	return name, nil
}

// Open returns the absolute path for a stored name, rejecting anything
// that would resolve outside the media root.
func (s *Store) Open(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid media name: %q", name)
	}
	path := filepath.Join(s.root, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("opening media file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. Missing files are not an error: the
// database row is authoritative and file cleanup is best-effort.
func (s *Store) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid media name: %q", name)
	}
	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing media file: %w", err)
	}
	return nil
}

// SanitizeFilename reduces a client-supplied filename to a safe base
// name: path separators stripped, non-portable characters replaced,
// length capped.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if len(out) > 64 {
		out = out[len(out)-64:]
	}
	return out
}
