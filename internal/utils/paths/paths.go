// Package paths resolves user-supplied file paths.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand expands a path that may start with ~ to the user's home directory.
func Expand(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
