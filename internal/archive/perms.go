//go:build !windows

package archive

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// applyPermissions sets mode, owner and group on path. It reports whether
// anything actually changed.
func applyPermissions(path, mode, owner, group string) (bool, error) {
	if mode == "" && owner == "" && group == "" {
		return false, nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	changed := false

	if mode != "" {
		perm, err := strconv.ParseUint(mode, 8, 32)
		if err != nil {
			return false, fmt.Errorf("mode %q is not an octal permission: %w", mode, err)
		}
		if info.Mode().Perm() != os.FileMode(perm).Perm() {
			if err := os.Chmod(path, os.FileMode(perm).Perm()); err != nil {
				return false, fmt.Errorf("failed to set mode of %s: %w", path, err)
			}
			changed = true
		}
	}

	if owner == "" && group == "" {
		return changed, nil
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return changed, fmt.Errorf("cannot read ownership of %s", path)
	}
	uid, gid := int(st.Uid), int(st.Gid)
	wantUID, wantGID := uid, gid

	if owner != "" {
		if wantUID, err = lookupID(owner, func(n string) (string, error) {
			u, err := user.Lookup(n)
			if err != nil {
				return "", err
			}
			return u.Uid, nil
		}); err != nil {
			return changed, fmt.Errorf("unknown owner %q: %w", owner, err)
		}
	}
	if group != "" {
		if wantGID, err = lookupID(group, func(n string) (string, error) {
			g, err := user.LookupGroup(n)
			if err != nil {
				return "", err
			}
			return g.Gid, nil
		}); err != nil {
			return changed, fmt.Errorf("unknown group %q: %w", group, err)
		}
	}

	if wantUID != uid || wantGID != gid {
		if err := os.Lchown(path, wantUID, wantGID); err != nil {
			return changed, fmt.Errorf("failed to set owner of %s: %w", path, err)
		}
		changed = true
	}
	return changed, nil
}

// lookupID accepts a numeric id or a name resolved through lookup.
func lookupID(nameOrID string, lookup func(string) (string, error)) (int, error) {
	if id, err := strconv.Atoi(nameOrID); err == nil {
		return id, nil
	}
	s, err := lookup(nameOrID)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
