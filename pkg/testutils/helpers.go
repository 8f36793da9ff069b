package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// MinimalCatalog is the smallest document the catalog loader accepts
const MinimalCatalog = "sources: {}\n"

// CreateTestFilesWithContent creates files under dir. Names may contain
// slashes; a name ending in a slash creates an empty directory.
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

// CatalogTree creates the usual browsing fixture in a temp dir: one catalog
// file, one non-catalog file and a subdirectory holding a second catalog.
func CatalogTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	CreateTestFilesWithContent(t, dir, map[string]string{
		"catalog.yaml":  MinimalCatalog,
		"notes.txt":     "notes",
		"sub/inner.yml": MinimalCatalog,
	})
	return dir
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
