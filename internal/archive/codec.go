package archive

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
)

// Stream compressions layered under tar or used on their own.
const (
	compressionNone = ""
	compressionGzip = "gz"
	compressionBzip = "bz2"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func newCompressWriter(compression string, w io.Writer) (io.WriteCloser, error) {
	switch compression {
	case compressionNone:
		return nopWriteCloser{w}, nil
	case compressionGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case compressionBzip:
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
}

func newDecompressReader(compression string, r io.Reader) (io.ReadCloser, error) {
	switch compression {
	case compressionNone:
		return io.NopCloser(r), nil
	case compressionGzip:
		return gzip.NewReader(r)
	case compressionBzip:
		return bzip2.NewReader(r, nil)
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
}

// NewDecompressReader is exported for the unarchive handlers.
func NewDecompressReader(compression string, r io.Reader) (io.ReadCloser, error) {
	return newDecompressReader(compression, r)
}
