package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource enumerates *.sql files under a directory tree. The unit name
// is the file's base name without extension; subfolders are grouping only
// and never become part of the name, so the same base name in two
// subfolders still collides at load time.
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Definitions walks the tree in lexical order and reads every SQL file.
func (s *DirSource) Definitions() ([]Definition, error) {
	var defs []Definition

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".sql") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		defs = append(defs, Definition{
			Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Path: path,
			SQL:  string(data),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// MapSource is an in-memory source keyed by unit name, for tests and
// embedded use.
type MapSource map[string]string

// Definitions returns the mapping as definitions in name order.
func (s MapSource) Definitions() ([]Definition, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, Definition{Name: name, SQL: s[name]})
	}
	return defs, nil
}
