package stack

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/twinj/uuid"

	"github.com/janelia-flyem/imagestack/istack"
)

func newTestStack(t *testing.T, ext string) (*Stack, func()) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("imagestack-test-%x", uuid.NewV4().Bytes()))
	s, err := Open(dir, ext)
	if err != nil {
		t.Fatalf("Unable to open stack at %s: %v\n", dir, err)
	}
	return s, func() { os.RemoveAll(dir) }
}

// constGray returns a nx x ny 8-bit grayscale image of constant value v.
func constGray(nx, ny int, v uint8) *istack.Image {
	data := make([]uint8, nx*ny)
	for i := range data {
		data[i] = v
	}
	img := new(istack.Image)
	img.Set(istack.ImageGrayFromData(data, nx, ny))
	return img
}

func TestAppendRoundTrip(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	src := constGray(7, 5, 42)
	name, err := s.Append(src)
	if err != nil {
		t.Fatalf("Unable to append: %v\n", err)
	}
	if name != "img0000.png" {
		t.Errorf("Expected first member name img0000.png, got %q\n", name)
	}

	it, err := s.NewIterator()
	if err != nil {
		t.Fatalf("Unable to create iterator: %v\n", err)
	}
	if it.Len() != 1 {
		t.Fatalf("Expected 1 member after append, got %d\n", it.Len())
	}
	got, err := it.Next()
	if err != nil {
		t.Fatalf("Unable to decode appended member: %v\n", err)
	}
	if !reflect.DeepEqual(got.Gray, src.Gray) {
		t.Errorf("Decoded member != appended image\n")
	}
}

func TestAppendRoundTripRawCodec(t *testing.T) {
	s, cleanup := newTestStack(t, "dat")
	defer cleanup()

	src := constGray(4, 4, 99)
	if _, err := s.Append(src); err != nil {
		t.Fatalf("Unable to append dat member: %v\n", err)
	}
	it, err := s.NewIterator()
	if err != nil {
		t.Fatalf("Unable to create iterator: %v\n", err)
	}
	got, err := it.Next()
	if err != nil {
		t.Fatalf("Unable to decode dat member: %v\n", err)
	}
	if !reflect.DeepEqual(got.Gray, src.Gray) {
		t.Errorf("Decoded dat member != appended image\n")
	}
}

func TestLengthAfterAppends(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := s.Append(constGray(2, 2, uint8(i))); err != nil {
			t.Fatalf("Unable to append member %d: %v\n", i, err)
		}
	}
	length, err := s.Length()
	if err != nil {
		t.Fatalf("Unable to get length: %v\n", err)
	}
	if length != n {
		t.Errorf("Expected length %d after %d appends, got %d\n", n, n, length)
	}
}

func TestAppendBatchOrder(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	imgs := []*istack.Image{
		constGray(2, 2, 1),
		constGray(2, 2, 2),
		constGray(2, 2, 3),
	}
	names, err := s.AppendBatch(imgs)
	if err != nil {
		t.Fatalf("Unable to append batch: %v\n", err)
	}
	want := []string{"img0000.png", "img0001.png", "img0002.png"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Batch names %v != %v\n", names, want)
	}

	// Decoded order must match input order.
	it, err := s.NewIterator()
	if err != nil {
		t.Fatalf("Unable to create iterator: %v\n", err)
	}
	for i := 0; it.More(); i++ {
		img, err := it.Next()
		if err != nil {
			t.Fatalf("Unable to decode member %d: %v\n", i, err)
		}
		if img.Gray.Pix[0] != uint8(i+1) {
			t.Errorf("Member %d has value %d, want %d\n", i, img.Gray.Pix[0], i+1)
		}
	}
}

func TestClear(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	for i := 0; i < 3; i++ {
		if _, err := s.Append(constGray(2, 2, uint8(i))); err != nil {
			t.Fatalf("Unable to append member %d: %v\n", i, err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Unable to clear stack: %v\n", err)
	}
	length, err := s.Length()
	if err != nil {
		t.Fatalf("Unable to get length after clear: %v\n", err)
	}
	if length != 0 {
		t.Errorf("Expected length 0 after clear, got %d\n", length)
	}
	it, err := s.NewIterator()
	if err != nil {
		t.Fatalf("Unable to create iterator after clear: %v\n", err)
	}
	if it.More() {
		t.Errorf("Expected exhausted iterator immediately after clear\n")
	}

	// Counter resets, so the next append starts the naming scheme over.
	name, err := s.Append(constGray(2, 2, 9))
	if err != nil {
		t.Fatalf("Unable to append after clear: %v\n", err)
	}
	if name != "img0000.png" {
		t.Errorf("Expected img0000.png after clear, got %q\n", name)
	}
}

func TestCounterDerivedOnReopen(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	for i := 0; i < 3; i++ {
		if _, err := s.Append(constGray(2, 2, uint8(i))); err != nil {
			t.Fatalf("Unable to append member %d: %v\n", i, err)
		}
	}

	// Reopening the same directory must not recycle member names.
	reopened, err := Open(s.Path(), "png")
	if err != nil {
		t.Fatalf("Unable to reopen stack: %v\n", err)
	}
	name, err := reopened.Append(constGray(2, 2, 7))
	if err != nil {
		t.Fatalf("Unable to append after reopen: %v\n", err)
	}
	if name != "img0003.png" {
		t.Errorf("Expected img0003.png after reopen, got %q\n", name)
	}
	length, err := reopened.Length()
	if err != nil {
		t.Fatalf("Unable to get length: %v\n", err)
	}
	if length != 4 {
		t.Errorf("Expected 4 members after reopen append, got %d\n", length)
	}
}

func TestShapeAndBitDepth(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	if _, _, err := s.Shape(); !errors.Is(err, istack.ErrEmptyStack) {
		t.Errorf("Expected ErrEmptyStack from Shape on empty stack, got %v\n", err)
	}
	if _, err := s.BitDepth(); !errors.Is(err, istack.ErrEmptyStack) {
		t.Errorf("Expected ErrEmptyStack from BitDepth on empty stack, got %v\n", err)
	}

	if _, err := s.Append(constGray(9, 4, 1)); err != nil {
		t.Fatalf("Unable to append: %v\n", err)
	}
	nx, ny, err := s.Shape()
	if err != nil {
		t.Fatalf("Unable to get shape: %v\n", err)
	}
	if nx != 9 || ny != 4 {
		t.Errorf("Expected shape 9x4, got %dx%d\n", nx, ny)
	}
	depth, err := s.BitDepth()
	if err != nil {
		t.Fatalf("Unable to get bitdepth: %v\n", err)
	}
	if depth != 8 {
		t.Errorf("Expected 8-bit members, got %d\n", depth)
	}
}

func TestCropIsReadTimeView(t *testing.T) {
	s, cleanup := newTestStack(t, "png")
	defer cleanup()

	if _, err := s.Append(constGray(10, 10, 5)); err != nil {
		t.Fatalf("Unable to append: %v\n", err)
	}
	s.SetCrop(image.Rect(2, 2, 6, 8))

	nx, ny, err := s.Shape()
	if err != nil {
		t.Fatalf("Unable to get shape with crop: %v\n", err)
	}
	if nx != 4 || ny != 6 {
		t.Errorf("Expected cropped shape 4x6, got %dx%d\n", nx, ny)
	}

	// The stored member must be untouched: clearing the crop restores the
	// full view.
	s.ClearCrop()
	nx, ny, err = s.Shape()
	if err != nil {
		t.Fatalf("Unable to get shape after crop clear: %v\n", err)
	}
	if nx != 10 || ny != 10 {
		t.Errorf("Expected full shape 10x10 after crop clear, got %dx%d\n", nx, ny)
	}
}

func TestOpenUnknownExtension(t *testing.T) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("imagestack-test-%x", uuid.NewV4().Bytes()))
	defer os.RemoveAll(dir)
	if _, err := Open(dir, "xyz"); err == nil {
		t.Errorf("Expected error for extension with no registered codec\n")
	}
}
