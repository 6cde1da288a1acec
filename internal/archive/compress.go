package archive

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// compressHandler compresses a single regular file into a bare gzip or
// bzip2 stream. There is no container, so only one Add is accepted.
type compressHandler struct {
	compression string

	stream io.WriteCloser
	added  string
}

func newCompressHandler(compression string) *compressHandler {
	return &compressHandler{compression: compression}
}

func (h *compressHandler) Format() string    { return h.compression }
func (h *compressHandler) Extension() string { return h.compression }

func (h *compressHandler) Open(w io.Writer) error {
	stream, err := newCompressWriter(h.compression, w)
	if err != nil {
		return err
	}
	h.stream = stream
	h.added = ""
	return nil
}

func (h *compressHandler) Add(path, name string) error {
	if h.added != "" {
		return fmt.Errorf("%s compression holds a single file; %s was already added", h.compression, h.added)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(h.stream, f); err != nil {
		return &streamError{fmt.Errorf("failed to compress %s: %w", path, err)}
	}
	h.added = name
	return nil
}

func (h *compressHandler) Contains(name string) bool {
	return h.added != "" && h.added == name
}

func (h *compressHandler) Close() error {
	if err := h.stream.Close(); err != nil {
		return &streamError{err}
	}
	return nil
}

// Checksums is the CRC-32 of the decompressed payload.
func (h *compressHandler) Checksums(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return []string{}, err
	}
	defer f.Close()

	r, err := newDecompressReader(h.compression, f)
	if err != nil {
		return []string{}, err
	}
	defer r.Close()

	crc := crc32.NewIEEE()
	if _, err := io.Copy(crc, r); err != nil {
		return []string{}, err
	}
	return []string{checksumLine(h.memberName(path), crc.Sum32())}, nil
}

func (h *compressHandler) List(path string) ([]string, error) {
	return []string{h.memberName(path)}, nil
}

// memberName names the single member: the archive name without its extension.
func (h *compressHandler) memberName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), "."+h.compression)
}
