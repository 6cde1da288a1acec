package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

var archiveNameRegex = regexp.MustCompile(`(?i)\.(tar|tar\.(gz|bz2|xz)|tgz|tbz2|zip)$`)

// ExpandPaths glob-expands every entry holding a wildcard and takes the rest
// literally. The second return reports whether any wildcard was seen.
func ExpandPaths(patterns []string) ([]string, bool, error) {
	var expanded []string
	globby := false

	for _, p := range patterns {
		p = expandUser(p)
		if !strings.ContainsAny(p, "*?[") {
			expanded = append(expanded, filepath.Clean(p))
			continue
		}

		globby = true
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, globby, fmt.Errorf("invalid path pattern %q: %w", p, err)
		}
		expanded = append(expanded, matches...)
	}
	return expanded, globby, nil
}

// Resolve returns the sorted, deduplicated entries of paths that are not in
// excludes.
func Resolve(paths, excludes []string) []string {
	skip := make(map[string]bool, len(excludes))
	for _, e := range excludes {
		skip[e] = true
	}

	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if skip[p] || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CommonPath returns the directory every entry name is made relative to:
// the character-wise common prefix of each path's parent directory (with a
// trailing slash), reduced to its own directory.
func CommonPath(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	dirs := make([]string, len(paths))
	for i, p := range paths {
		dirs[i] = withTrailingSlash(dirname(p))
	}
	return withTrailingSlash(dirname(commonPrefix(dirs)))
}

// StripPrefix removes prefix from s when s starts with it.
func StripPrefix(prefix, s string) string {
	return strings.TrimPrefix(s, prefix)
}

// IsArchiveName reports whether path's file name carries a container
// extension.
func IsArchiveName(path string) bool {
	return archiveNameRegex.MatchString(filepath.Base(path))
}

// Excluder matches entries against fnmatch-style patterns. A '*' matches
// across directory separators.
type Excluder struct {
	patterns []glob.Glob
}

func NewExcluder(patterns []string) (*Excluder, error) {
	ex := &Excluder{}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclusion pattern %q: %w", p, err)
		}
		ex.patterns = append(ex.patterns, g)
	}
	return ex, nil
}

// Match reports whether the source path matches any pattern. The entry name
// inside the archive is not consulted, so a bare "a.txt" never excludes
// "/x/a.txt".
func (e *Excluder) Match(path string) bool {
	if e == nil {
		return false
	}
	for _, g := range e.patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// MatchesExclusion is the one-shot form of Excluder.Match on a path.
func MatchesExclusion(path string, patterns []string) bool {
	ex, err := NewExcluder(patterns)
	if err != nil {
		return false
	}
	return ex.Match(path)
}

// dirname follows POSIX dirname on slash-separated paths: everything up to
// the last slash, with trailing slashes dropped unless the head is all
// slashes.
func dirname(p string) string {
	i := strings.LastIndex(p, "/") + 1
	head := p[:i]
	if head != "" && strings.Trim(head, "/") != "" {
		head = strings.TrimRight(head, "/")
	}
	return head
}

func withTrailingSlash(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

func commonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		n := 0
		for n < len(prefix) && n < len(s) && prefix[n] == s[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

func expandUser(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
