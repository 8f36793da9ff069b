package selector

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Entry is one directory entry as seen by the browser
type Entry struct {
	Name string
	Dir  bool
}

// FileSystem is the file system access a FileSelector needs
type FileSystem interface {
	ReadDir(dir string) ([]Entry, error)
	IsDir(path string) bool
	IsFile(path string) bool
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem reads the host file system
type OSFileSystem struct{}

// ReadDir lists dir. Symbolic links report the kind of their target.
func (OSFileSystem) ReadDir(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		isDir := de.IsDir()
		if de.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, de.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, Entry{Name: de.Name(), Dir: isDir})
	}
	return entries, nil
}

// IsDir reports whether path names an existing directory
func (OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path names an existing non-directory
func (OSFileSystem) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ReadFile reads the named file
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
