// Package archive packs Unix files into tar, zip, gzip and bzip2 containers
// and MVS data sets into AMATERSE or TSO TRANSMIT archives.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Formats lists every accepted value of the format option.
var Formats = []string{"bz2", "gz", "tar", "zip", "terse", "xmit"}

// Handler is one container format. The driver owns the destination file and
// hands Open the stream to write; every run writes the container from
// scratch.
type Handler interface {
	Format() string
	Extension() string
	Open(w io.Writer) error
	Add(path, name string) error
	Contains(name string) bool
	Close() error
	Checksums(path string) ([]string, error)
	List(path string) ([]string, error)
}

func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("%s is not a valid archive format", format)
	}
	return nil
}

func IsMVSFormat(format string) bool {
	return format == "terse" || format == "xmit"
}

// New returns the Unix handler for format. gz and bz2 compress a lone
// regular file in place of archiving it unless compressOnly is false.
func New(format string, compressOnly bool) (Handler, error) {
	switch format {
	case "tar":
		return newTarHandler(compressionNone), nil
	case "gz", "bz2":
		if compressOnly {
			return newCompressHandler(format), nil
		}
		return newTarHandler(format), nil
	case "zip":
		return newZipHandler(), nil
	case "terse", "xmit":
		return nil, fmt.Errorf("%s archives hold data sets, not Unix files", format)
	default:
		return nil, fmt.Errorf("%s is not a valid archive format", format)
	}
}

// Run archives the sources described by params and reports what happened.
// The returned result is populated as far as the run got, also on error.
func Run(ctx *context.ExecutionContext, params types.ArchiveParams) (*types.ArchiveResult, error) {
	params.Normalize()

	res := &types.ArchiveResult{
		Dest:                 params.Dest,
		DestState:            types.StateAbsent,
		Archived:             []string{},
		Missing:              []string{},
		ExpandedPaths:        []string{},
		ExpandedExcludePaths: []string{},
		Targets:              []string{},
	}

	if err := ValidateFormat(params.Format); err != nil {
		return res, err
	}
	if len(params.Path) == 0 {
		return res, errors.New("missing required argument: path")
	}

	if IsMVSFormat(params.Format) {
		return runMVS(ctx, params, res)
	}
	return runUnix(ctx, params, res)
}

// Archive drives a Handler over a resolved set of Unix targets.
type Archive struct {
	handler  Handler
	dest     string
	root     string
	excluder *Excluder
	logger   zerolog.Logger

	targets   []string
	successes []string
	errors    []string
}

func runUnix(ctx *context.ExecutionContext, params types.ArchiveParams, res *types.ArchiveResult) (*types.ArchiveResult, error) {
	logger := log.With().Str("component", "archive").Str("format", params.Format).Logger()

	excluder, err := NewExcluder(params.ExclusionPatterns)
	if err != nil {
		return res, err
	}

	expanded, _, err := ExpandPaths(params.Path)
	if err != nil {
		return res, err
	}
	excluded, _, err := ExpandPaths(params.ExcludePath)
	if err != nil {
		return res, err
	}
	res.ExpandedPaths = nonNil(expanded)
	res.ExpandedExcludePaths = nonNil(excluded)

	paths := Resolve(expanded, excluded)
	if len(paths) == 0 {
		return res, errors.New("Error, no source paths were found")
	}
	res.ArcRoot = CommonPath(paths)

	for _, p := range paths {
		if _, err := os.Lstat(p); err != nil {
			res.Missing = append(res.Missing, p)
		} else {
			res.Targets = append(res.Targets, p)
		}
	}

	compressOnly := (params.Format == "gz" || params.Format == "bz2") &&
		!params.ForceArchive && len(res.Targets) == 1 && isRegularFile(res.Targets[0])
	handler, err := New(params.Format, compressOnly)
	if err != nil {
		return res, err
	}

	dest, err := resolveDest(params.Dest, paths, handler)
	if err != nil {
		return res, err
	}
	res.Dest = dest

	logger.Debug().Strs("targets", res.Targets).Strs("missing", res.Missing).Str("dest", dest).Msg("Resolved archive targets")

	if len(res.Targets) == 0 {
		if _, err := os.Stat(dest); err == nil {
			res.DestState = types.StateCompressed
			if IsArchiveName(dest) {
				res.DestState = types.StateArchived
			}
		}
		return res, nil
	}

	res.DestState = types.StateArchived
	if compressOnly {
		res.DestState = types.StateCompressed
	}
	if len(res.Missing) > 0 {
		res.DestState = types.StateIncomplete
	}

	if ctx.CheckMode {
		logger.Info().Msg("Check mode: nothing written")
		return res, nil
	}

	a := &Archive{
		handler:  handler,
		dest:     dest,
		root:     res.ArcRoot,
		excluder: excluder,
		logger:   logger,
		targets:  res.Targets,
	}

	before := takeSnapshot(handler, dest)

	ctx.Logger.StartSpinner(fmt.Sprintf("Writing %s archive %s ...", handler.Format(), dest))
	err = a.AddTargets()
	ctx.Logger.StopSpinner()
	res.Archived = nonNil(a.successes)
	if err != nil {
		return res, err
	}

	res.Changed = before.differs(takeSnapshot(handler, dest))

	if params.Remove {
		if err := a.RemoveTargets(); err != nil {
			return res, err
		}
	}

	permsChanged, err := applyPermissions(dest, params.Mode, params.Owner, params.Group)
	if err != nil {
		return res, err
	}
	res.Changed = res.Changed || permsChanged

	if params.List {
		contents, err := handler.List(dest)
		if err != nil {
			return res, err
		}
		res.ArchiveContents = contents
	}

	logger.Info().Int("archived", len(res.Archived)).Bool("changed", res.Changed).Msgf("Wrote %s", dest)
	return res, nil
}

// AddTargets writes every target into a temporary file beside dest and
// moves it into place. Directories are walked top-down; entries matching an
// exclusion pattern, dest itself and the temporary file are skipped.
func (a *Archive) AddTargets() error {
	staged, err := createStaged(a.dest)
	if err != nil {
		return err
	}

	if err := a.handler.Open(staged.file); err != nil {
		staged.abort()
		return a.writeFailure(err)
	}

	skip := map[string]bool{absPath(a.dest): true, absPath(staged.tmp): true}

	for _, target := range a.targets {
		if err := a.addTarget(target, skip); err != nil {
			staged.abort()
			return a.writeFailure(err)
		}
	}

	if err := a.handler.Close(); err != nil {
		staged.abort()
		return a.writeFailure(err)
	}
	if err := staged.commit(); err != nil {
		return a.writeFailure(err)
	}

	if len(a.errors) > 0 {
		return fmt.Errorf("Errors when writing archive at %s: %s", a.dest, strings.Join(a.errors, "; "))
	}
	return nil
}

func (a *Archive) writeFailure(err error) error {
	return fmt.Errorf("Error when writing %s archive at %s: %w", a.handler.Format(), a.dest, err)
}

func (a *Archive) addTarget(target string, skip map[string]bool) error {
	info, err := os.Lstat(target)
	if err != nil {
		a.errors = append(a.errors, fmt.Sprintf("%s: %v", target, err))
		return nil
	}
	if !info.IsDir() {
		return a.add(target, skip)
	}

	return filepath.WalkDir(target, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			a.errors = append(a.errors, fmt.Sprintf("%s: %v", path, walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		return a.add(path, skip)
	})
}

// add writes one entry. Per-entry failures are collected; only a broken
// container stream is returned.
func (a *Archive) add(path string, skip map[string]bool) error {
	if skip[absPath(path)] {
		return nil
	}

	name := StripPrefix(a.root, path)
	if name == "" {
		return nil
	}
	if a.excluder.Match(path) {
		a.logger.Debug().Str("path", path).Msg("Excluded by pattern")
		return nil
	}

	if err := a.handler.Add(path, name); err != nil {
		var se *streamError
		if errors.As(err, &se) {
			return err
		}
		a.errors = append(a.errors, fmt.Sprintf("%s: %v", path, err))
		return nil
	}

	if a.handler.Contains(name) {
		a.successes = append(a.successes, path)
	}
	return nil
}

// RemoveTargets deletes archived files, then the directories they came from
// once those are empty. Directories still holding excluded entries stay.
func (a *Archive) RemoveTargets() error {
	var failed []string
	var dirs []string

	for _, path := range a.successes {
		info, err := os.Lstat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			dirs = append(dirs, path)
			continue
		}
		if err := os.Remove(path); err != nil {
			failed = append(failed, path)
		}
	}

	for _, t := range a.targets {
		if isDir(t) {
			dirs = append(dirs, t)
		}
	}

	// Deepest first so parents are empty by the time they are reached
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})
	for _, d := range dirs {
		if err := os.Remove(d); err != nil && !os.IsNotExist(err) {
			if entries, rerr := os.ReadDir(d); rerr == nil && len(entries) > 0 {
				continue
			}
			failed = append(failed, d)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("Error deleting some source files: %s", strings.Join(failed, ", "))
	}
	return nil
}

// snapshot is the destination fingerprint used to decide changed.
type snapshot struct {
	sums []string // nil when the destination could not be read
	size int64
}

func takeSnapshot(h Handler, dest string) snapshot {
	info, err := os.Stat(dest)
	if err != nil {
		return snapshot{}
	}
	s := snapshot{size: info.Size()}

	f, err := os.Open(dest)
	if err != nil {
		return s
	}
	f.Close()

	sums, err := h.Checksums(dest)
	if err != nil {
		sums = []string{}
	}
	s.sums = sums
	return s
}

func (s snapshot) differs(after snapshot) bool {
	if s.sums == nil {
		return s.size != after.size
	}
	return !slices.Equal(s.sums, after.sums)
}

func resolveDest(dest string, paths []string, h Handler) (string, error) {
	if dest != "" {
		return filepath.Clean(expandUser(dest)), nil
	}
	if len(paths) != 1 {
		return "", errors.New("dest is required when archiving more than one path")
	}
	return strings.TrimSuffix(paths[0], string(filepath.Separator)) + "." + h.Extension(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
