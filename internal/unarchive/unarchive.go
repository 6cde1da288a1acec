// Package unarchive unpacks tar, zip, gzip and bzip2 archives onto the Unix
// file system and AMATERSE or TSO TRANSMIT archives into data sets.
package unarchive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog/log"
)

// extensionFormats maps file name suffixes to format names, longest first.
var extensionFormats = []struct {
	suffix string
	format string
}{
	{".tar.gz", "gz"},
	{".tar.bz2", "bz2"},
	{".tgz", "gz"},
	{".tbz2", "bz2"},
	{".tar", "tar"},
	{".zip", "zip"},
	{".gz", "gz"},
	{".bz2", "bz2"},
}

// DetectFormat derives the format name from src's file extension.
func DetectFormat(src string) (string, error) {
	lower := strings.ToLower(filepath.Base(src))
	for _, e := range extensionFormats {
		if strings.HasSuffix(lower, e.suffix) {
			return e.format, nil
		}
	}
	return "", fmt.Errorf("could not detect the archive format of %s, set format.name", src)
}

func isMVSFormat(name string) bool {
	return name == "terse" || name == "xmit"
}

// Run unpacks or lists the archive described by params.
func Run(ctx *context.ExecutionContext, registry *HandlerRegistry, params types.UnarchiveParams) (*types.UnarchiveResult, error) {
	params.Normalize()
	logger := log.With().Str("component", "unarchive").Logger()

	res := &types.UnarchiveResult{
		Src:     params.Src,
		Targets: []string{},
		Missing: []string{},
	}

	if params.Src == "" {
		return res, errors.New("missing required argument: src")
	}

	format := params.Format.Name
	if format == "" {
		if utils.IsDataSetName(params.Src) && !utils.Exists(params.Src) {
			return res, fmt.Errorf("format.name is required to unpack data set %s", params.Src)
		}
		detected, err := DetectFormat(params.Src)
		if err != nil {
			return res, err
		}
		format = detected
	}

	handler, ok := registry.Get(format)
	if !ok {
		return res, fmt.Errorf("%s is not a valid archive format, expected one of %s", format, strings.Join(registry.Formats(), ", "))
	}

	dest, err := resolveSource(ctx, format, &params)
	if err != nil {
		return res, err
	}
	res.Src = params.Src
	res.DestPath = dest

	filter, err := NewFilter(params.Include, params.Exclude)
	if err != nil {
		return res, err
	}

	logger = logger.With().Str("format", format).Str("src", params.Src).Logger()

	// Listing an MVS archive would mean unpacking it; only Unix archives are
	// listed up front.
	if !isMVSFormat(format) {
		contents, err := handler.List(ctx, params.Src)
		if err != nil {
			return res, fmt.Errorf("failed to read %s: %w", params.Src, err)
		}
		res.Missing = filter.Missing(contents)

		if params.List {
			res.ArchiveContents = nonNil(contents)
			return res, nil
		}
		if ctx.CheckMode {
			res.Targets = nonNil(filter.Apply(contents))
			return res, nil
		}
	} else {
		if params.List {
			return res, fmt.Errorf("listing the contents of %s archives is not supported", format)
		}
		if ctx.CheckMode {
			res.Targets = []string{dest}
			return res, nil
		}
	}

	ctx.Logger.StartSpinner(fmt.Sprintf("Unpacking %s into %s ...", params.Src, dest))
	extracted, err := handler.Extract(ctx, Request{
		Src:        params.Src,
		Dest:       dest,
		Filter:     filter,
		Force:      params.Force,
		LogDataSet: strings.ToUpper(params.Format.XmitLogDataSet),
	})
	ctx.Logger.StopSpinner()
	res.Targets = nonNil(extracted)
	res.Changed = len(extracted) > 0
	if err != nil {
		return res, err
	}

	logger.Info().Int("extracted", len(extracted)).Msgf("Unpacked into %s", dest)
	return res, nil
}

// resolveSource checks src exists and returns the destination to unpack
// into.
func resolveSource(ctx *context.ExecutionContext, format string, params *types.UnarchiveParams) (string, error) {
	if isMVSFormat(format) {
		params.Src = strings.ToUpper(params.Src)
		if err := utils.ValidateDataSetName(params.Src); err != nil {
			return "", fmt.Errorf("invalid src %q: %w", params.Src, err)
		}
		exists, err := ctx.ZOAU.Exists(ctx.Ctx, params.Src)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("%s does not exist, please provide a valid path.", params.Src)
		}

		dest := strings.ToUpper(params.Dest)
		if dest == "" {
			return "", fmt.Errorf("dest is required to unpack %s archives", format)
		}
		if err := utils.ValidateDataSetName(dest); err != nil {
			return "", fmt.Errorf("invalid dest %q: %w", dest, err)
		}
		return dest, nil
	}

	if _, err := os.Stat(params.Src); err != nil {
		return "", fmt.Errorf("%s does not exist, please provide a valid path.", params.Src)
	}
	if params.Dest == "" {
		return filepath.Dir(params.Src), nil
	}
	return filepath.Clean(params.Dest), nil
}

// Filter selects archive entries by include and exclude patterns.
type Filter struct {
	includes []string
	include  []glob.Glob
	exclude  []glob.Glob
}

func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{includes: include}
	for _, p := range include {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.include = append(f.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Allow reports whether an entry is extracted. With no include patterns
// every entry not excluded is.
func (f *Filter) Allow(name string) bool {
	if f == nil {
		return true
	}
	name = strings.TrimSuffix(name, "/")
	for _, g := range f.exclude {
		if g.Match(name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (f *Filter) Apply(names []string) []string {
	var out []string
	for _, n := range names {
		if f.Allow(n) {
			out = append(out, n)
		}
	}
	return out
}

// Missing returns the include patterns that match none of names.
func (f *Filter) Missing(names []string) []string {
	missing := []string{}
	if f == nil {
		return missing
	}
	for i, g := range f.include {
		found := false
		for _, n := range names {
			if g.Match(strings.TrimSuffix(n, "/")) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f.includes[i])
		}
	}
	return missing
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
