/*
	Package stack manages an ordered, disk-backed sequence of same-sized,
	same-bitdepth images in one flat directory.  Members are named by a
	fixed zero-padded sequential scheme (img0000.png, img0001.png, ...)
	derived from an in-process append counter.

	The filesystem is the source of truth for membership: length and
	aggregate queries re-enumerate the directory instead of trusting the
	counter, so externally removed members are reflected.  The counter is
	process-local with no cross-process coordination; the stack assumes a
	single writer.
*/
package stack

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/imagestack/istack"
	"github.com/janelia-flyem/imagestack/storage"
)

const (
	memberPrefix = "img"
	memberDigits = 4
)

// Stack is a logical ordered collection of image files in one directory
// sharing an extension.
type Stack struct {
	store *storage.Store
	ext   string
	codec istack.Codec

	// next sequence number to assign on append
	counter int

	// optional read-time view rect; nil means no cropping
	crop *image.Rectangle

	uuid istack.UUID
}

// Open returns a stack over the given directory and member file extension,
// creating the directory if needed.  The append counter is derived from
// existing members by taking one past the highest sequence number found,
// so reopening a stack with pre-existing members cannot recycle filenames.
func Open(directory, extension string) (*Stack, error) {
	codec, err := istack.CodecForExtension(extension)
	if err != nil {
		return nil, err
	}
	store, created, err := storage.Open(directory)
	if err != nil {
		return nil, err
	}
	s := &Stack{
		store: store,
		ext:   extension,
		codec: codec,
		uuid:  istack.NewUUID(),
	}
	if !created {
		if s.counter, err = nextSequence(store, s.pattern()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Stack) String() string {
	return fmt.Sprintf("stack (*.%s) @ %s", s.ext, s.store.Path())
}

// UUID returns the instance identifier carried in activity messages.
func (s *Stack) UUID() istack.UUID {
	return s.uuid
}

// Path returns the backing directory.
func (s *Stack) Path() string {
	return s.store.Path()
}

// Extension returns the member file extension.
func (s *Stack) Extension() string {
	return s.ext
}

// pattern is the glob selecting this stack's members.
func (s *Stack) pattern() string {
	return memberPrefix + "*." + s.ext
}

func (s *Stack) memberName(n int) string {
	return fmt.Sprintf("%s%0*d.%s", memberPrefix, memberDigits, n, s.ext)
}

// nextSequence scans existing members and returns one past the highest
// sequence number found, or 0 for an empty stack.
func nextSequence(store *storage.Store, pattern string) (int, error) {
	paths, err := store.List(pattern)
	if err != nil {
		return 0, err
	}
	next := 0
	for _, path := range paths {
		var n int
		if _, err := fmt.Sscanf(filepath.Base(path), memberPrefix+"%d", &n); err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// NewIterator returns a fresh image iterator over the current members,
// carrying the stack's crop rect if one is set.
func (s *Stack) NewIterator() (*ImageIterator, error) {
	it, err := NewImageIterator(s.store.Path(), s.pattern())
	if err != nil {
		return nil, err
	}
	it.crop = s.crop
	return it, nil
}

// NewFileIterator returns a fresh file-path iterator over the current
// members.
func (s *Stack) NewFileIterator() (*FileIterator, error) {
	return NewFileIterator(s.store.Path(), s.pattern())
}

// Append encodes the image under the next sequential name, writes it to
// disk, and returns the assigned name.  The counter is incremented strictly
// after a successful write, so a failed append retries under the same name
// instead of leaving a hole or colliding later.
func (s *Stack) Append(img *istack.Image) (string, error) {
	name := s.memberName(s.counter)
	data, err := s.codec.EncodeBytes(img)
	if err != nil {
		return "", fmt.Errorf("%w: encode %s: %s", istack.ErrWrite, name, err)
	}
	if err := s.store.Write(name, data); err != nil {
		return "", err
	}
	s.counter++
	istack.Debugf("Appended %s to %s (%s)\n", name, s, humanize.Bytes(uint64(len(data))))
	istack.LogActivityToKafka(map[string]interface{}{
		"action": "append",
		"uuid":   string(s.uuid),
		"stack":  s.store.Path(),
		"file":   name,
	})
	return name, nil
}

// AppendBatch appends each image in slice order, collecting the assigned
// names.  A failure aborts the batch, leaving earlier members in place.
func (s *Stack) AppendBatch(imgs []*istack.Image) ([]string, error) {
	names := make([]string, 0, len(imgs))
	for _, img := range imgs {
		name, err := s.Append(img)
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Length returns the count of current members, computed fresh from the
// filesystem rather than the append counter since members may have been
// removed externally.
func (s *Stack) Length() (int, error) {
	it, err := s.NewFileIterator()
	if err != nil {
		return 0, err
	}
	return it.Len(), nil
}

// firstMember decodes exactly the first member by enumeration order.
func (s *Stack) firstMember() (*istack.Image, error) {
	it, err := s.NewIterator()
	if err != nil {
		return nil, err
	}
	if it.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", istack.ErrEmptyStack, s)
	}
	return it.Next()
}

// Shape returns the pixel dimensions of the stack's members, decoding
// exactly one member.  The crop rect, if set, is reflected since it is
// applied on every read path.
func (s *Stack) Shape() (nx, ny int, err error) {
	img, err := s.firstMember()
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// BitDepth returns the bits per pixel channel of the stack's members,
// decoding exactly one member.  Movie assembly uses this to size a
// colormap.
func (s *Stack) BitDepth() (int, error) {
	img, err := s.firstMember()
	if err != nil {
		return 0, err
	}
	return img.BitsPerChannel(), nil
}

// Clear deletes every currently enumerated member and resets the append
// counter.  Not atomic: a crash mid-clear leaves a partially deleted stack.
func (s *Stack) Clear() error {
	it, err := s.NewFileIterator()
	if err != nil {
		return err
	}
	for it.More() {
		path, err := it.Next()
		if err != nil {
			return err
		}
		if err := s.store.Delete(path); err != nil {
			return err
		}
	}
	s.counter = 0
	istack.Debugf("Cleared %d members of %s\n", it.Len(), s)
	istack.LogActivityToKafka(map[string]interface{}{
		"action":  "clear",
		"uuid":    string(s.uuid),
		"stack":   s.store.Path(),
		"deleted": it.Len(),
	})
	return nil
}

// SetCrop stores a read-time view rect applied uniformly inside the
// iterator decode step.  Stored member files are never modified.
func (s *Stack) SetCrop(r image.Rectangle) {
	s.crop = &r
}

// Crop returns the current crop rect and whether one is set.
func (s *Stack) Crop() (image.Rectangle, bool) {
	if s.crop == nil {
		return image.Rectangle{}, false
	}
	return *s.crop, true
}

// ClearCrop removes any read-time view rect.
func (s *Stack) ClearCrop() {
	s.crop = nil
}
