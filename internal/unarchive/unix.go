package unarchive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/graceinfra/zoscore/internal/archive"
	"github.com/graceinfra/zoscore/internal/context"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

// tarHandler reads plain or compressed tar streams.
type tarHandler struct {
	format      string
	compression string
}

func newTarHandler(format, compression string) *tarHandler {
	return &tarHandler{format: format, compression: compression}
}

func (h *tarHandler) Format() string { return h.format }

func (h *tarHandler) each(src string, fn func(hdr *tar.Header, r io.Reader) error) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	stream, err := archive.NewDecompressReader(h.compression, f)
	if err != nil {
		return err
	}
	defer stream.Close()

	tr := tar.NewReader(stream)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

func (h *tarHandler) List(_ *context.ExecutionContext, src string) ([]string, error) {
	var names []string
	err := h.each(src, func(hdr *tar.Header, _ io.Reader) error {
		names = append(names, hdr.Name)
		return nil
	})
	return names, err
}

func (h *tarHandler) Extract(_ *context.ExecutionContext, req Request) ([]string, error) {
	if err := os.MkdirAll(req.Dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", req.Dest, err)
	}

	var extracted []string
	err := h.each(req.Src, func(hdr *tar.Header, r io.Reader) error {
		if !req.Filter.Allow(hdr.Name) {
			return nil
		}
		target, err := safeJoin(req.Dest, hdr.Name)
		if err != nil {
			return err
		}

		var written bool
		switch hdr.Typeflag {
		case tar.TypeDir:
			written, err = makeDir(target)
		case tar.TypeReg:
			written, err = writeFile(target, r, hdr.FileInfo().Mode(), req.Force)
		case tar.TypeSymlink:
			written, err = makeSymlink(req.Dest, target, hdr.Linkname, req.Force)
		default:
			log.Debug().Str("entry", hdr.Name).Msgf("Skipping tar entry of type %q", hdr.Typeflag)
			return nil
		}
		if err != nil {
			return err
		}
		if written {
			extracted = append(extracted, hdr.Name)
		}
		return nil
	})
	if err != nil {
		return extracted, fmt.Errorf("failed to unpack %s: %w", req.Src, err)
	}
	return extracted, nil
}

// streamHandler serves gz and bz2: a compressed tar is unpacked as a tar,
// anything else is a single compressed file.
type streamHandler struct {
	compression string
	tar         *tarHandler
}

func newStreamHandler(compression string) *streamHandler {
	return &streamHandler{compression: compression, tar: newTarHandler(compression, compression)}
}

func (h *streamHandler) Format() string { return h.compression }

// isTar reports whether the decompressed stream starts with a tar header.
func (h *streamHandler) isTar(src string) bool {
	f, err := os.Open(src)
	if err != nil {
		return false
	}
	defer f.Close()

	stream, err := archive.NewDecompressReader(h.compression, f)
	if err != nil {
		return false
	}
	defer stream.Close()

	_, err = tar.NewReader(stream).Next()
	return err == nil
}

func (h *streamHandler) memberName(src string) string {
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, "."+h.compression)
	if name == base || name == "" {
		name = base + ".out"
	}
	return name
}

func (h *streamHandler) List(ctx *context.ExecutionContext, src string) ([]string, error) {
	if h.isTar(src) {
		return h.tar.List(ctx, src)
	}
	return []string{h.memberName(src)}, nil
}

func (h *streamHandler) Extract(ctx *context.ExecutionContext, req Request) ([]string, error) {
	if h.isTar(req.Src) {
		return h.tar.Extract(ctx, req)
	}

	name := h.memberName(req.Src)
	if !req.Filter.Allow(name) {
		return nil, nil
	}
	if err := os.MkdirAll(req.Dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", req.Dest, err)
	}

	f, err := os.Open(req.Src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, err := archive.NewDecompressReader(h.compression, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as %s: %w", req.Src, h.compression, err)
	}
	defer stream.Close()

	written, err := writeFile(filepath.Join(req.Dest, name), stream, 0644, req.Force)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", req.Src, err)
	}
	if !written {
		return nil, nil
	}
	return []string{name}, nil
}

type zipHandler struct{}

func newZipHandler() *zipHandler { return &zipHandler{} }

func (h *zipHandler) Format() string { return "zip" }

func (h *zipHandler) List(_ *context.ExecutionContext, src string) ([]string, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func (h *zipHandler) Extract(_ *context.ExecutionContext, req Request) ([]string, error) {
	zr, err := zip.OpenReader(req.Src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as zip: %w", req.Src, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(req.Dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", req.Dest, err)
	}

	var extracted []string
	for _, f := range zr.File {
		if !req.Filter.Allow(f.Name) {
			continue
		}
		target, err := safeJoin(req.Dest, f.Name)
		if err != nil {
			return extracted, fmt.Errorf("failed to unpack %s: %w", req.Src, err)
		}

		written, err := extractZipEntry(f, target, req.Force)
		if err != nil {
			return extracted, fmt.Errorf("failed to unpack %s: %w", req.Src, err)
		}
		if written {
			extracted = append(extracted, f.Name)
		}
	}
	return extracted, nil
}

func extractZipEntry(f *zip.File, target string, force bool) (bool, error) {
	if f.FileInfo().IsDir() {
		return makeDir(target)
	}
	rc, err := f.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()
	return writeFile(target, rc, f.Mode(), force)
}

// safeJoin places an entry name under dest, rejecting names that climb out
// of it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !within(dest, target) {
		return "", fmt.Errorf("entry %s would be written outside %s", name, dest)
	}
	return target, nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// writeFile copies r into target. An existing file is left alone unless
// force is set; the first return reports whether anything was written.
func writeFile(target string, r io.Reader, mode fs.FileMode, force bool) (bool, error) {
	if _, err := os.Lstat(target); err == nil {
		if !force {
			log.Debug().Str("path", target).Msg("Exists, skipping")
			return false, nil
		}
		if err := os.Remove(target); err != nil {
			return false, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, err
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return false, fmt.Errorf("failed to write %s: %w", target, err)
	}
	return true, out.Close()
}

func makeDir(target string) (bool, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return false, nil
	}
	return true, os.MkdirAll(target, 0755)
}

func makeSymlink(dest, target, linkname string, force bool) (bool, error) {
	resolved := linkname
	if !filepath.IsAbs(linkname) {
		resolved = filepath.Join(filepath.Dir(target), linkname)
	}
	if !within(dest, resolved) {
		return false, fmt.Errorf("link %s -> %s points outside %s", target, linkname, dest)
	}

	if _, err := os.Lstat(target); err == nil {
		if !force {
			return false, nil
		}
		if err := os.Remove(target); err != nil {
			return false, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, err
	}
	return true, os.Symlink(linkname, target)
}
