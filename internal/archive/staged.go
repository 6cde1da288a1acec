package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// stagedFile is a temporary file beside dest that replaces dest only when
// writing finished cleanly.
type stagedFile struct {
	dest string
	tmp  string
	file *os.File
}

func stagedName(dest string) string {
	return filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".zoscore-"+uuid.New().String()[:8]+".tmp")
}

func createStaged(dest string) (*stagedFile, error) {
	s := &stagedFile{dest: dest, tmp: stagedName(dest)}
	f, err := os.OpenFile(s.tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary archive beside %s: %w", dest, err)
	}
	s.file = f
	return s, nil
}

// commit closes the temporary file and renames it over dest.
func (s *stagedFile) commit() error {
	if err := s.file.Close(); err != nil {
		os.Remove(s.tmp)
		return fmt.Errorf("failed to close temporary archive %s: %w", s.tmp, err)
	}
	if info, err := os.Stat(s.dest); err == nil {
		// Keep the permissions of the archive being replaced
		_ = os.Chmod(s.tmp, info.Mode().Perm())
	}
	if err := os.Rename(s.tmp, s.dest); err != nil {
		os.Remove(s.tmp)
		return fmt.Errorf("failed to move archive into place at %s: %w", s.dest, err)
	}
	return nil
}

func (s *stagedFile) abort() {
	if s == nil {
		return
	}
	s.file.Close()
	os.Remove(s.tmp)
}
