// Package resolve expands user supplied locations into an ordered set of files.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/pqtool/pkg/core"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileSet is an insertion-ordered set of file paths.
type FileSet struct {
	paths []string
	seen  map[string]struct{}
}

// NewFileSet creates an empty set.
func NewFileSet() *FileSet {
	return &FileSet{seen: make(map[string]struct{})}
}

// Add inserts path unless it names a file already present. Paths are compared
// in absolute, cleaned form; the path is kept as given for display.
func (s *FileSet) Add(path string) bool {
	key := setKey(path)
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

// Contains reports whether path is in the set.
func (s *FileSet) Contains(path string) bool {
	_, ok := s.seen[setKey(path)]
	return ok
}

func setKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Paths returns the members in insertion order.
func (s *FileSet) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Len returns the number of members.
func (s *FileSet) Len() int {
	return len(s.paths)
}

// Validate checks that every member exists on fs. The first missing path is
// reported as FileNotFound.
func (s *FileSet) Validate(fs afero.Fs) error {
	for _, p := range s.paths {
		if err := CheckExists(fs, p); err != nil {
			return err
		}
	}
	return nil
}

// CheckExists returns FileNotFound if path is absent from fs.
func CheckExists(fs afero.Fs, path string) error {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return core.CouldNotOpen(path, err)
	}
	if !ok {
		return core.FileNotFound(path)
	}
	return nil
}

// Resolver turns files and directories into a FileSet.
type Resolver struct {
	Fs     afero.Fs
	Logger *zap.Logger
}

// NewResolver creates a resolver over fs.
func NewResolver(fs afero.Fs, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Fs: fs, Logger: logger}
}

// Resolve expands locations in order. Files are taken as is; directories are
// walked recursively in lexical order, skipping entries whose name starts
// with a dot. Every resulting path exists at the time it is recorded.
func (r *Resolver) Resolve(locations []string) (*FileSet, error) {
	set := NewFileSet()

	for _, loc := range locations {
		info, err := r.Fs.Stat(loc)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, core.FileNotFound(loc)
			}
			return nil, core.CouldNotOpen(loc, err)
		}

		if !info.IsDir() {
			set.Add(loc)
			continue
		}

		if err := r.walk(loc, set); err != nil {
			return nil, err
		}
	}

	r.Logger.Debug("Resolved input files",
		zap.Int("locations", len(locations)),
		zap.Int("files", set.Len()))

	return set, nil
}

func (r *Resolver) walk(root string, set *FileSet) error {
	cleanRoot := filepath.Clean(root)

	err := afero.Walk(r.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// The root itself is never hidden, so "." and "./data" still walk
		if filepath.Clean(path) != cleanRoot && isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode().IsRegular() {
			set.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
