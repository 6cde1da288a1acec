package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, h Handler, dest string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(dest)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, h.Open(f))
	for name, path := range entries {
		require.NoError(t, h.Add(path, name))
	}
	require.NoError(t, h.Close())
}

func TestTarHandlerChecksums(t *testing.T) {
	for _, compression := range []string{compressionNone, compressionGzip, compressionBzip} {
		t.Run("tar"+compression, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "a.txt")
			require.NoError(t, os.WriteFile(src, []byte("alpha"), 0644))
			dest := filepath.Join(dir, "out")

			h := newTarHandler(compression)
			writeArchive(t, h, dest, map[string]string{"a.txt": src})
			assert.True(t, h.Contains("a.txt"))

			sums, err := newTarHandler(compression).Checksums(dest)
			require.NoError(t, err)
			// crc32("alpha")
			assert.Equal(t, []string{"a.txt d0e0396a"}, sums)

			names, err := newTarHandler(compression).List(dest)
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt"}, names)
		})
	}
}

func TestTarHandlerSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target"), []byte("x"), 0644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("target", link))
	dest := filepath.Join(dir, "out.tar")

	writeArchive(t, newTarHandler(compressionNone), dest, map[string]string{"link": link})

	sums, err := newTarHandler(compressionNone).Checksums(dest)
	require.NoError(t, err)
	require.Len(t, sums, 1)

	// Retargeting the link changes its checksum
	require.NoError(t, os.Remove(link))
	require.NoError(t, os.Symlink("elsewhere", link))
	writeArchive(t, newTarHandler(compressionNone), dest, map[string]string{"link": link})
	again, err := newTarHandler(compressionNone).Checksums(dest)
	require.NoError(t, err)
	assert.NotEqual(t, sums, again)
}

func TestChecksumsRejectOtherFormats(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(dest, bytes.Repeat([]byte("not an archive "), 64), 0644))

	_, err := newZipHandler().Checksums(dest)
	assert.Error(t, err)
	_, err = newTarHandler(compressionGzip).Checksums(dest)
	assert.Error(t, err)
}

func TestCompressHandlerRejectsSecondFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))

	h := newCompressHandler(compressionGzip)
	var buf bytes.Buffer
	require.NoError(t, h.Open(&buf))
	require.NoError(t, h.Add(a, "a"))
	err := h.Add(a, "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds a single file")
	require.NoError(t, h.Close())
}
