package selector

import (
	"fmt"
	"strings"

	"catadder/internal/log"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultFilters are the catalog suffixes shown when none are configured
var DefaultFilters = []string{"yaml", "yml"}

// Filter decides which directory entries are listed
type Filter struct {
	suffixes []string
	match    glob.Glob
	exclude  []string
}

// NewFilter builds a filter keeping files that end with one of suffixes and
// dropping entries whose name matches an exclude pattern.
func NewFilter(suffixes, exclude []string) (*Filter, error) {
	if len(suffixes) == 0 {
		suffixes = DefaultFilters
	}
	quoted := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s == "" {
			return nil, fmt.Errorf("empty filter suffix")
		}
		quoted = append(quoted, glob.QuoteMeta(s))
	}

	pattern := "*" + quoted[0]
	if len(quoted) > 1 {
		pattern = "*{" + strings.Join(quoted, ",") + "}"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", pattern, err)
	}

	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("bad exclude pattern %q", p)
		}
	}

	return &Filter{
		suffixes: append([]string(nil), suffixes...),
		match:    g,
		exclude:  append([]string(nil), exclude...),
	}, nil
}

// Suffixes returns the allowed file suffixes
func (f *Filter) Suffixes() []string {
	return append([]string(nil), f.suffixes...)
}

// Keep reports whether an entry is listed. Hidden entries never are;
// directories always are unless excluded.
func (f *Filter) Keep(e Entry) bool {
	if e.Name == "" || strings.HasPrefix(e.Name, ".") {
		return false
	}
	if f.excluded(e.Name) {
		return false
	}
	return e.Dir || f.match.Match(e.Name)
}

func (f *Filter) excluded(name string) bool {
	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// loadGitIgnore compiles the .gitignore in dir, or returns nil
func loadGitIgnore(fsys FileSystem, dir string) *ignore.GitIgnore {
	data, err := fsys.ReadFile(dir + ".gitignore")
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}
	log.Debugf("applying %d .gitignore rules in %s", len(lines), dir)
	return ignore.CompileIgnoreLines(lines...)
}
