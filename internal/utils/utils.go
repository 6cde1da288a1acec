package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Helper to create directory structure
func MkDir(targetDir string, parts ...string) {
	path := filepath.Join(append([]string{targetDir}, parts...)...)
	err := os.MkdirAll(path, 0755)
	cobra.CheckErr(err)
}

// Helper to avoid overwriting a file or directory
func MustNotExist(path string) {
	if _, err := os.Stat(path); err == nil {
		cobra.CheckErr(fmt.Errorf("refusing to overwrite existing file or directory: %s", path))
	}
}

// Exists reports whether path can be lstat'ed.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
