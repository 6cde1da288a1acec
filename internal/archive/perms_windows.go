package archive

import (
	"fmt"
	"os"
	"strconv"
)

func applyPermissions(path, mode, owner, group string) (bool, error) {
	if owner != "" || group != "" {
		return false, fmt.Errorf("setting owner or group is not supported on this platform")
	}
	if mode == "" {
		return false, nil
	}
	perm, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return false, fmt.Errorf("mode %q is not an octal permission: %w", mode, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.Mode().Perm() == os.FileMode(perm).Perm() {
		return false, nil
	}
	return true, os.Chmod(path, os.FileMode(perm).Perm())
}
