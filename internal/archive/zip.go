package archive

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

type zipHandler struct {
	zw    *zip.Writer
	added map[string]bool
}

func newZipHandler() *zipHandler {
	return &zipHandler{}
}

func (h *zipHandler) Format() string    { return "zip" }
func (h *zipHandler) Extension() string { return "zip" }

func (h *zipHandler) Open(w io.Writer) error {
	h.zw = zip.NewWriter(w)
	h.added = make(map[string]bool)
	return nil
}

// Add stores a file deflated, a directory as an empty "name/" entry. Symlinks
// are followed.
func (h *zipHandler) Add(path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name

	if info.IsDir() {
		hdr.Name = strings.TrimSuffix(name, "/") + "/"
		hdr.Method = zip.Store
		if _, err := h.zw.CreateHeader(hdr); err != nil {
			return &streamError{err}
		}
		h.added[entryKey(hdr.Name)] = true
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr.Method = zip.Deflate
	w, err := h.zw.CreateHeader(hdr)
	if err != nil {
		return &streamError{err}
	}
	if _, err := io.Copy(w, f); err != nil {
		return &streamError{fmt.Errorf("failed to copy %s: %w", path, err)}
	}
	h.added[entryKey(hdr.Name)] = true
	return nil
}

func (h *zipHandler) Contains(name string) bool {
	return h.added[entryKey(name)]
}

func (h *zipHandler) Close() error {
	if err := h.zw.Close(); err != nil {
		return &streamError{err}
	}
	return nil
}

// Checksums lists "name crc32" for every entry straight from the central
// directory.
func (h *zipHandler) Checksums(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return []string{}, err
	}
	defer zr.Close()

	sums := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		sums = append(sums, checksumLine(f.Name, f.CRC32))
	}
	sort.Strings(sums)
	return sums, nil
}

func (h *zipHandler) List(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as zip: %w", path, err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}
