/*
	This file implements colormap tables for movie assembly.  The set of
	recognized colormap names is a closed map from name to generating
	function rather than open-ended dynamic dispatch on arbitrary strings.
*/

package movie

import (
	"fmt"
	"image/color"
	"sort"
)

// Table maps a pixel channel value to a display color.  Its length is
// 2^bitdepth of the stack members it is built for.
type Table []color.NRGBA64

// Generator builds a colormap table of the given size.
type Generator func(size int) Table

var generators = map[string]Generator{
	"gray": grayTable,
	"hot":  hotTable,
	"jet":  jetTable,
}

// NewTable constructs a colormap table of the given size under a
// recognized name.  Unknown names are an error, not a fallback.
func NewTable(name string, size int) (Table, error) {
	gen, found := generators[name]
	if !found {
		return nil, fmt.Errorf("unknown colormap %q, recognized: %v", name, Names())
	}
	if size < 2 {
		return nil, fmt.Errorf("colormap size must be at least 2, got %d", size)
	}
	return gen(size), nil
}

// Names returns the sorted list of recognized colormap names.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ramp scales index i in [0, size) to [0, 65535].
func ramp(i, size int) uint16 {
	if size < 2 {
		if i <= 0 {
			return 0
		}
		return 65535
	}
	return uint16(uint64(i) * 65535 / uint64(size-1))
}

func grayTable(size int) Table {
	t := make(Table, size)
	for i := range t {
		v := ramp(i, size)
		t[i] = color.NRGBA64{R: v, G: v, B: v, A: 65535}
	}
	return t
}

// hotTable ramps red, then green, then blue over successive thirds.
func hotTable(size int) Table {
	t := make(Table, size)
	third := size / 3
	if third < 1 {
		third = 1
	}
	for i := range t {
		var r, g, b uint16
		switch {
		case i < third:
			r = ramp(i, third)
		case i < 2*third:
			r = 65535
			g = ramp(i-third, third)
		default:
			r = 65535
			g = 65535
			b = ramp(i-2*third, size-2*third)
		}
		t[i] = color.NRGBA64{R: r, G: g, B: b, A: 65535}
	}
	return t
}

// jetTable is the classic blue-cyan-yellow-red map, computed piecewise on
// a normalized position.
func jetTable(size int) Table {
	t := make(Table, size)
	for i := range t {
		pos := float64(i) / float64(size-1)
		r := jetChannel(pos - 0.25)
		g := jetChannel(pos)
		b := jetChannel(pos + 0.25)
		t[i] = color.NRGBA64{
			R: uint16(r * 65535),
			G: uint16(g * 65535),
			B: uint16(b * 65535),
			A: 65535,
		}
	}
	return t
}

func jetChannel(pos float64) float64 {
	v := 1.5 - 4*abs(pos-0.5)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
