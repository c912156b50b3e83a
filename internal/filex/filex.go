// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory (and parents) if it does not exist yet and
// returns its path.
func EnsureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return "", fmt.Errorf("ensure dir %s: %w", path, err)
	}
	return path, nil
}

// DefaultStateDir resolves the application's state directory under the
// user's home, creating it on first use.
func DefaultStateDir(app string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return EnsureDir(filepath.Join(home, "."+app))
}
