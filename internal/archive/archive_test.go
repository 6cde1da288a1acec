package archive

import (
	"archive/tar"
	stdcontext "context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/log"
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/types"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(r runner.Runner) *context.ExecutionContext {
	if r == nil {
		r = &runner.Fake{}
	}
	return context.New(stdcontext.Background(), "archive", nil, log.NewLogger(types.StyleMachineJSON), r)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestRunZip(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	dest := filepath.Join(dir, "out.zip")

	res, err := Run(newTestContext(nil), types.ArchiveParams{
		Path:   types.StringList{filepath.Join(dir, "*.txt")},
		Dest:   dest,
		Format: "zip",
		List:   true,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, types.StateArchived, res.DestState)
	assert.Equal(t, dir+"/", res.ArcRoot)
	assert.Len(t, res.Archived, 2)
	assert.Empty(t, res.Missing)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, zipNames(t, dest))
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, res.ArchiveContents)
}

func TestRunExclusionPatterns(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"app/a.txt": "alpha", "app/debug.log": "noise"})
	dest := filepath.Join(dir, "app.zip")

	res, err := Run(newTestContext(nil), types.ArchiveParams{
		Path:              types.StringList{filepath.Join(dir, "app")},
		Dest:              dest,
		Format:            "zip",
		ExclusionPatterns: types.StringList{"*.log"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"app/", "app/a.txt"}, zipNames(t, dest))
	assert.NotContains(t, res.Archived, filepath.Join(dir, "app", "debug.log"))
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src/a.txt": "alpha", "src/b.txt": "beta"})
	params := types.ArchiveParams{
		Path:   types.StringList{filepath.Join(dir, "src")},
		Dest:   filepath.Join(dir, "src.tar"),
		Format: "tar",
	}

	first, err := Run(newTestContext(nil), params)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := Run(newTestContext(nil), params)
	require.NoError(t, err)
	assert.False(t, second.Changed, "re-archiving unchanged sources must not report a change")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "a.txt"), []byte("ALPHA"), 0644))
	third, err := Run(newTestContext(nil), params)
	require.NoError(t, err)
	assert.True(t, third.Changed)
}

func TestRunRewritesExistingArchive(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	dest := filepath.Join(dir, "out.zip")

	_, err := Run(newTestContext(nil), types.ArchiveParams{Path: types.StringList{filepath.Join(dir, "a.txt")}, Dest: dest, Format: "zip"})
	require.NoError(t, err)
	res, err := Run(newTestContext(nil), types.ArchiveParams{Path: types.StringList{filepath.Join(dir, "b.txt")}, Dest: dest, Format: "zip"})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, []string{"b.txt"}, zipNames(t, dest), "entries of the previous archive are not carried over")
}

func TestRunExclusionAppliesToExistingArchive(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	params := types.ArchiveParams{
		Path:   types.StringList{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")},
		Dest:   filepath.Join(dir, "out.zip"),
		Format: "zip",
	}

	_, err := Run(newTestContext(nil), params)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, zipNames(t, params.Dest))

	params.ExclusionPatterns = types.StringList{"*b.txt"}
	res, err := Run(newTestContext(nil), params)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, zipNames(t, params.Dest))
	assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, res.Archived)
	assert.True(t, res.Changed)
}

func TestRunReportsDeletedSource(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src/a.txt": "alpha", "src/b.txt": "beta"})
	params := types.ArchiveParams{
		Path:   types.StringList{filepath.Join(dir, "src")},
		Dest:   filepath.Join(dir, "src.tar"),
		Format: "tar",
	}

	_, err := Run(newTestContext(nil), params)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "src", "b.txt")))
	res, err := Run(newTestContext(nil), params)
	require.NoError(t, err)

	names, err := newTarHandler(compressionNone).List(params.Dest)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/", "src/a.txt"}, names)
	assert.True(t, res.Changed)
}

func TestRunCompressSingleFile(t *testing.T) {
	tests := []struct {
		format string
		read   func(io.Reader) (io.Reader, error)
	}{
		{format: "gz", read: func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }},
		{format: "bz2", read: func(r io.Reader) (io.Reader, error) { return bzip2.NewReader(r, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "data.txt")
			require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

			res, err := Run(newTestContext(nil), types.ArchiveParams{Path: types.StringList{src}, Format: tt.format, List: true})
			require.NoError(t, err)

			assert.Equal(t, src+"."+tt.format, res.Dest)
			assert.Equal(t, types.StateCompressed, res.DestState)
			assert.Equal(t, []string{"data.txt"}, res.ArchiveContents)

			f, err := os.Open(res.Dest)
			require.NoError(t, err)
			defer f.Close()
			r, err := tt.read(f)
			require.NoError(t, err)
			b, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(b))
		})
	}
}

func TestRunForceArchiveWrapsInTar(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))
	dest := filepath.Join(dir, "data.tar.gz")

	res, err := Run(newTestContext(nil), types.ArchiveParams{Path: types.StringList{src}, Dest: dest, Format: "gz", ForceArchive: true})
	require.NoError(t, err)
	assert.Equal(t, types.StateArchived, res.DestState)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	hdr, err := tar.NewReader(gz).Next()
	require.NoError(t, err)
	assert.Equal(t, "data.txt", hdr.Name)
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a", "b.txt": "b"})

	tests := []struct {
		name    string
		params  types.ArchiveParams
		wantErr string
	}{
		{
			name:    "Unknown format",
			params:  types.ArchiveParams{Path: types.StringList{dir}, Format: "rar"},
			wantErr: "rar is not a valid archive format",
		},
		{
			name:    "Nothing left after exclusions",
			params:  types.ArchiveParams{Path: types.StringList{filepath.Join(dir, "a.txt")}, ExcludePath: types.StringList{filepath.Join(dir, "a.txt")}, Format: "tar"},
			wantErr: "Error, no source paths were found",
		},
		{
			name:    "Several paths without dest",
			params:  types.ArchiveParams{Path: types.StringList{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, Format: "tar"},
			wantErr: "dest is required when archiving more than one path",
		},
		{
			name:    "Missing path",
			params:  types.ArchiveParams{Format: "zip"},
			wantErr: "missing required argument: path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(newTestContext(nil), tt.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunMissingSources(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	missing := filepath.Join(dir, "gone.txt")

	res, err := Run(newTestContext(nil), types.ArchiveParams{
		Path:   types.StringList{filepath.Join(dir, "a.txt"), missing},
		Dest:   filepath.Join(dir, "out.tar"),
		Format: "tar",
	})
	require.NoError(t, err)
	assert.Equal(t, types.StateIncomplete, res.DestState)
	assert.Equal(t, []string{missing}, res.Missing)

	// Only missing sources: nothing is written and an existing dest is described
	res, err = Run(newTestContext(nil), types.ArchiveParams{
		Path:   types.StringList{missing},
		Dest:   filepath.Join(dir, "out.tar"),
		Format: "tar",
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, types.StateArchived, res.DestState)
}

func TestRunRemove(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src/a.txt": "a", "src/sub/b.txt": "b", "src/keep.log": "k"})
	src := filepath.Join(dir, "src")

	_, err := Run(newTestContext(nil), types.ArchiveParams{
		Path:              types.StringList{src},
		Dest:              filepath.Join(dir, "src.tar.gz"),
		Format:            "gz",
		ExclusionPatterns: types.StringList{"*.log"},
		Remove:            true,
	})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(src, "a.txt"))
	assert.NoDirExists(t, filepath.Join(src, "sub"))
	// Excluded entries are never archived, so they and their directory stay
	assert.FileExists(t, filepath.Join(src, "keep.log"))
	assert.FileExists(t, filepath.Join(dir, "src.tar.gz"))
}

func TestRunCheckModeWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	dest := filepath.Join(dir, "a.zip")

	ctx := newTestContext(nil)
	ctx.CheckMode = true
	res, err := Run(ctx, types.ArchiveParams{Path: types.StringList{filepath.Join(dir, "a.txt")}, Dest: dest, Format: "zip"})
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, res.Targets)
	assert.NoFileExists(t, dest)
}

func TestRunMode(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	dest := filepath.Join(dir, "a.tar")

	_, err := Run(newTestContext(nil), types.ArchiveParams{Path: types.StringList{filepath.Join(dir, "a.txt")}, Dest: dest, Format: "tar", Mode: "0600"})
	require.NoError(t, err)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestArchiveSkipsDestInsideSource(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	dest := filepath.Join(dir, "self.zip")

	_, err := Run(newTestContext(nil), types.ArchiveParams{Path: types.StringList{dir}, Dest: dest, Format: "zip"})
	require.NoError(t, err)

	base := filepath.Base(dir)
	assert.ElementsMatch(t, []string{base + "/", base + "/a.txt"}, zipNames(t, dest))
}
