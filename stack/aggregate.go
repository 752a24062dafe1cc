/*
	This file implements streaming aggregation over a stack.  Every member
	is promoted to float64 before any accumulation so the running total
	stays in the wide type throughout; the member bitdepth's native integer
	type would overflow under repeated addition.
*/

package stack

import (
	"fmt"

	"github.com/janelia-flyem/imagestack/istack"
)

// Mask is an optional set of 1-based positional indices into the iteration
// order, selecting which members participate in an aggregate.  A nil Mask
// selects every position.  Positions are counted in iterator advance order
// independently of mask membership.
type Mask []int

func (m Mask) selects(pos int) bool {
	if m == nil {
		return true
	}
	for _, p := range m {
		if p == pos {
			return true
		}
	}
	return false
}

// FloatImage is a same-shaped accumulation of member pixel values in
// float64, row-major and channel-interleaved.
type FloatImage struct {
	Data     []float64
	NX, NY   int
	Channels int
}

// At returns the accumulated value at pixel (x, y), channel c.
func (f *FloatImage) At(x, y, c int) float64 {
	return f.Data[(y*f.NX+x)*f.Channels+c]
}

// Sum returns the elementwise running total of every member selected by
// the mask.  Members not selected are still consumed from the iterator but
// not added.  An empty stack returns a wrapped istack.ErrEmptyStack; any
// unreadable member aborts the whole call.
func (s *Stack) Sum(mask Mask) (*FloatImage, error) {
	total, _, err := s.sum(mask)
	return total, err
}

func (s *Stack) sum(mask Mask) (*FloatImage, int, error) {
	it, err := s.NewIterator()
	if err != nil {
		return nil, 0, err
	}
	n := it.Len()
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: cannot aggregate %s", istack.ErrEmptyStack, s)
	}
	tlog := istack.NewTimeLog()
	var total *FloatImage
	added := 0
	for pos := 1; it.More(); pos++ {
		img, err := it.Next()
		if err != nil {
			return nil, 0, err
		}
		vals, nx, ny, channels := img.Float64Data()
		if total == nil {
			total = &FloatImage{
				Data:     make([]float64, len(vals)),
				NX:       nx,
				NY:       ny,
				Channels: channels,
			}
		} else if nx != total.NX || ny != total.NY || channels != total.Channels {
			return nil, 0, fmt.Errorf("member %d of %s is %dx%dx%d, expected %dx%dx%d",
				pos, s, nx, ny, channels, total.NX, total.NY, total.Channels)
		}
		if !mask.selects(pos) {
			continue
		}
		for i, v := range vals {
			total.Data[i] += v
		}
		added++
	}
	tlog.Debugf("Summed %d of %d members of %s", added, n, s)
	return total, n, nil
}

// Mean returns Sum(mask) divided elementwise by the full stack length.
// The divisor is the total member count, NOT the number of mask-selected
// members, even when a non-trivial mask is supplied.  This is contract;
// see the aggregate tests that lock it in.
func (s *Stack) Mean(mask Mask) (*FloatImage, error) {
	total, n, err := s.sum(mask)
	if err != nil {
		return nil, err
	}
	for i := range total.Data {
		total.Data[i] /= float64(n)
	}
	return total, nil
}
