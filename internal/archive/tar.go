package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"
	"strings"
)

// tarHandler writes plain, gzip or bzip2 compressed tar streams.
type tarHandler struct {
	compression string

	stream io.WriteCloser
	tw     *tar.Writer
	added  map[string]bool
}

func newTarHandler(compression string) *tarHandler {
	return &tarHandler{compression: compression}
}

func (h *tarHandler) Format() string {
	if h.compression == compressionNone {
		return "tar"
	}
	return "tar." + h.compression
}

func (h *tarHandler) Extension() string { return h.Format() }

func (h *tarHandler) Open(w io.Writer) error {
	stream, err := newCompressWriter(h.compression, w)
	if err != nil {
		return err
	}
	h.stream = stream
	h.tw = tar.NewWriter(stream)
	h.added = make(map[string]bool)
	return nil
}

func (h *tarHandler) Add(path, name string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name = strings.TrimSuffix(name, "/") + "/"
	}

	if !info.Mode().IsRegular() {
		if err := h.tw.WriteHeader(hdr); err != nil {
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

	if err := h.tw.WriteHeader(hdr); err != nil {
		return &streamError{err}
	}
	// A short copy leaves the stream unusable, so it is fatal
	if _, err := io.Copy(h.tw, f); err != nil {
		return &streamError{fmt.Errorf("failed to copy %s: %w", path, err)}
	}
	h.added[entryKey(hdr.Name)] = true
	return nil
}

func (h *tarHandler) Contains(name string) bool {
	return h.added[entryKey(name)]
}

func (h *tarHandler) Close() error {
	if err := h.tw.Close(); err != nil {
		return &streamError{err}
	}
	if err := h.stream.Close(); err != nil {
		return &streamError{err}
	}
	return nil
}

func (h *tarHandler) eachEntry(path string, fn func(hdr *tar.Header, r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stream, err := newDecompressReader(h.compression, f)
	if err != nil {
		return fmt.Errorf("failed to read %s as %s: %w", path, h.Format(), err)
	}
	defer stream.Close()

	tr := tar.NewReader(stream)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s as %s: %w", path, h.Format(), err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// Checksums lists "name crc32" for every entry. Link targets are folded into
// the checksum so retargeted symlinks count as a change.
func (h *tarHandler) Checksums(path string) ([]string, error) {
	var sums []string
	err := h.eachEntry(path, func(hdr *tar.Header, r io.Reader) error {
		crc := crc32.NewIEEE()
		if hdr.Linkname != "" {
			_, _ = crc.Write([]byte(hdr.Linkname))
		}
		if _, err := io.Copy(crc, r); err != nil {
			return err
		}
		sums = append(sums, checksumLine(hdr.Name, crc.Sum32()))
		return nil
	})
	sort.Strings(sums)
	return sums, err
}

func (h *tarHandler) List(path string) ([]string, error) {
	var names []string
	err := h.eachEntry(path, func(hdr *tar.Header, _ io.Reader) error {
		names = append(names, hdr.Name)
		return nil
	})
	return names, err
}

// streamError marks a failure of the container stream itself. Once it
// happens nothing further can be written.
type streamError struct{ err error }

func (e *streamError) Error() string { return e.err.Error() }
func (e *streamError) Unwrap() error { return e.err }

func entryKey(name string) string {
	return strings.TrimSuffix(name, "/")
}

func checksumLine(name string, crc uint32) string {
	return fmt.Sprintf("%s %08x", entryKey(name), crc)
}
