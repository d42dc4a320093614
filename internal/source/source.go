package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source is the abstraction the batch runner uses to enumerate and read DAT files.
// Implementations own any resources they open and release them in Close.
type Source interface {
	GetName() string
	Files() ([]string, error)
	ReadFile(path string) ([]byte, error)
	Close() error
}

// DefaultPattern matches the vendor's file extension.
const DefaultPattern = "*.DAT"

// DirSource lists files matching Pattern directly inside Dir.
type DirSource struct {
	Dir     string
	Pattern string
}

func NewDirSource(dir, pattern string) *DirSource {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &DirSource{Dir: dir, Pattern: pattern}
}

func (s *DirSource) GetName() string { return s.Dir }

// Files returns matching regular files in lexical order.
func (s *DirSource) Files() ([]string, error) {
	if _, err := os.Stat(s.Dir); err != nil {
		return nil, fmt.Errorf("data dir %s: %w", s.Dir, err)
	}
	matches, err := filepath.Glob(filepath.Join(s.Dir, s.Pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", s.Pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files, nil
}

func (s *DirSource) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (s *DirSource) Close() error { return nil }
