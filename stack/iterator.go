/*
	This file implements the transient, forward-only iterators over stack
	members.  An iterator snapshots the ordered file list at creation time
	and is never rescanned mid-iteration, so its length stays fixed even if
	the backing directory changes underneath it.  Iterators are created
	fresh per operation, consumed forward-only, and discarded; they are
	never reused or rewound.
*/

package stack

import (
	"fmt"
	"image"

	"github.com/janelia-flyem/imagestack/istack"
	"github.com/janelia-flyem/imagestack/storage"
)

// FileIterator yields member file paths in deterministic enumeration order.
// Used by clear and by shape/bitdepth probing, which only need paths or a
// single decoded sample.
type FileIterator struct {
	paths []string
	pos   int
}

// NewFileIterator snapshots the members of directory matching the glob
// pattern.  A missing directory returns a wrapped istack.ErrNotFound.
func NewFileIterator(directory, pattern string) (*FileIterator, error) {
	paths, err := storage.List(directory, pattern)
	if err != nil {
		return nil, err
	}
	return &FileIterator{paths: paths}, nil
}

// Len returns the number of members captured at creation.  It does not
// reflect filesystem changes made after the snapshot.
func (it *FileIterator) Len() int {
	return len(it.paths)
}

// More returns true iff the iterator has not been exhausted.
func (it *FileIterator) More() bool {
	return it.pos < len(it.paths)
}

// Next returns the path at the cursor and advances the cursor by one.
func (it *FileIterator) Next() (string, error) {
	if !it.More() {
		return "", fmt.Errorf("%w: advanced past %d member files", istack.ErrExhausted, len(it.paths))
	}
	path := it.paths[it.pos]
	it.pos++
	return path, nil
}

// ImageIterator yields decoded member images lazily, one per Next() call.
type ImageIterator struct {
	files *FileIterator

	// read-time view rect applied uniformly inside the decode step
	crop *image.Rectangle
}

// NewImageIterator snapshots the members of directory matching the glob
// pattern.
func NewImageIterator(directory, pattern string) (*ImageIterator, error) {
	files, err := NewFileIterator(directory, pattern)
	if err != nil {
		return nil, err
	}
	return &ImageIterator{files: files}, nil
}

// Len returns the number of members captured at creation.
func (it *ImageIterator) Len() int {
	return it.files.Len()
}

// More returns true iff the iterator has not been exhausted.
func (it *ImageIterator) More() bool {
	return it.files.More()
}

// Next decodes and returns the member at the cursor, then advances the
// cursor.  A member deleted after the snapshot fails here with a wrapped
// istack.ErrNotFound rather than being silently skipped; a corrupt member
// fails with a wrapped istack.ErrDecode.  Either aborts the consuming
// operation.
func (it *ImageIterator) Next() (*istack.Image, error) {
	path, err := it.files.Next()
	if err != nil {
		return nil, err
	}
	img, err := istack.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if it.crop != nil {
		if img, err = img.SubImage(*it.crop); err != nil {
			return nil, fmt.Errorf("%w: crop of %s: %s", istack.ErrDecode, path, err)
		}
	}
	return img, nil
}
