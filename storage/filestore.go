/*
	Package storage implements the flat-directory file store backing a
	stack, plus deterministic glob enumeration of its members.  It only
	creates the directory, lists, writes, and deletes files; it never
	opens or validates member contents.
*/
package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/janelia-flyem/imagestack/istack"
)

// List returns the sorted file paths under directory matching the glob
// pattern.  Ordering is lexicographic by filename so two enumerations of
// an unchanged directory are identical, which aggregation correctness
// depends on.  A missing directory returns a wrapped istack.ErrNotFound.
func List(directory, pattern string) ([]string, error) {
	if _, err := os.Stat(directory); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s", istack.ErrNotFound, directory)
		}
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(directory, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %v", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Store is a flat directory holding stack member files.
type Store struct {
	path string
}

// Open returns a file store rooted at path, creating the directory if
// needed.  The returned bool reports whether the directory was created.
func Open(path string) (*Store, bool, error) {
	var created bool
	if _, err := os.Stat(path); os.IsNotExist(err) {
		istack.Infof("File store not already at path (%s). Creating ...\n", path)
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, false, err
		}
		created = true
	}
	return &Store{path: path}, created, nil
}

func (s *Store) String() string {
	return fmt.Sprintf("file store @ %s", s.path)
}

// Path returns the backing directory.
func (s *Store) Path() string {
	return s.path
}

// List enumerates member paths matching the glob pattern.
func (s *Store) List(pattern string) ([]string, error) {
	return List(s.path, pattern)
}

// Write persists a member file under the given name.  Failure is returned
// as a wrapped istack.ErrWrite so callers can sequence counter increments
// strictly after a successful write.
func (s *Store) Write(name string, data []byte) error {
	if s == nil {
		return fmt.Errorf("%w: bad file store for write of %q", istack.ErrWrite, name)
	}
	fpath := filepath.Join(s.path, name)
	if err := ioutil.WriteFile(fpath, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %s", istack.ErrWrite, fpath, err)
	}
	return nil
}

// Delete removes a member file.
func (s *Store) Delete(path string) error {
	if s == nil {
		return fmt.Errorf("bad file store for delete of %q", path)
	}
	return os.Remove(path)
}
