/*
	Package movie assembles the ordered frame sequence for playing a stack
	as a movie.  Each frame pairs one decoded member's raw pixel data with
	a colormap sized to the stack bitdepth.  Encoding the frame sequence
	into a playable container format is an external collaborator concern
	and out of scope here.
*/
package movie

import (
	"github.com/janelia-flyem/imagestack/istack"
	"github.com/janelia-flyem/imagestack/stack"
)

// Frame is one movie output unit: a member's pixel data paired with the
// colormap to display it.
type Frame struct {
	Index    int
	Image    *istack.Image
	Colormap Table
}

// Assemble resolves the stack bitdepth, builds a 2^bitdepth colormap table
// under the requested name, and decodes every member in enumeration order
// into a frame.  An empty stack fails with a wrapped istack.ErrEmptyStack
// (via the bitdepth probe); any unreadable member aborts the whole call.
func Assemble(s *stack.Stack, colormapName string) ([]Frame, error) {
	depth, err := s.BitDepth()
	if err != nil {
		return nil, err
	}
	table, err := NewTable(colormapName, 1<<uint(depth))
	if err != nil {
		return nil, err
	}
	it, err := s.NewIterator()
	if err != nil {
		return nil, err
	}
	tlog := istack.NewTimeLog()
	frames := make([]Frame, 0, it.Len())
	for i := 0; it.More(); i++ {
		img, err := it.Next()
		if err != nil {
			return nil, err
		}
		frames = append(frames, Frame{
			Index:    i,
			Image:    img,
			Colormap: table,
		})
	}
	tlog.Debugf("Assembled %d movie frames from %s with %q colormap", len(frames), s, colormapName)
	return frames, nil
}
