/*
	This file supports image containers for stack members.  Standard images
	are convenient ways to persist simple data types in 2d arrays because
	clients have good implementations of reading and writing them.  Once the
	data stored per pixel becomes sufficiently complex, a generic binary
	container should be used instead; see the "dat" codec in codec.go.
*/

package istack

import (
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"image"
	"image/draw"
)

func init() {
	// Need to register types that will be used to fulfill interfaces.
	gob.Register(&Image{})
	gob.Register(&image.Gray{})
	gob.Register(&image.Gray16{})
	gob.Register(&image.NRGBA{})
	gob.Register(&image.NRGBA64{})
}

// Image contains a standard Go image restricted to a union of concrete
// types so it can be cleanly gob-serialized, unlike a generic image.Image
// interface.  Which selects the populated member.
type Image struct {
	Which   uint8
	Gray    *image.Gray
	Gray16  *image.Gray16
	NRGBA   *image.NRGBA
	NRGBA64 *image.NRGBA64
}

// Get returns an image.Image from the union struct.
func (img Image) Get() image.Image {
	switch img.Which {
	case 0:
		return img.Gray
	case 1:
		return img.Gray16
	case 2:
		return img.NRGBA
	case 3:
		return img.NRGBA64
	default:
		return nil
	}
}

// GetDrawable returns a draw.Image from the union struct.
func (img Image) GetDrawable() draw.Image {
	switch img.Which {
	case 0:
		return img.Gray
	case 1:
		return img.Gray16
	case 2:
		return img.NRGBA
	case 3:
		return img.NRGBA64
	default:
		return nil
	}
}

// Set initializes an Image from a Go image.  Image types outside the union
// (e.g., image.YCbCr from JPEG decoding) are converted to NRGBA.
func (img *Image) Set(src image.Image) error {
	switch s := src.(type) {
	case *image.Gray:
		img.Which = 0
		img.Gray = s
	case *image.Gray16:
		img.Which = 1
		img.Gray16 = s
	case *image.NRGBA:
		img.Which = 2
		img.NRGBA = s
	case *image.NRGBA64:
		img.Which = 3
		img.NRGBA64 = s
	default:
		converted := image.NewNRGBA(src.Bounds())
		draw.Draw(converted, src.Bounds(), src, src.Bounds().Min, draw.Src)
		img.Which = 2
		img.NRGBA = converted
	}
	return nil
}

// Bounds returns the pixel rectangle of the contained image.
func (img Image) Bounds() image.Rectangle {
	goImg := img.Get()
	if goImg == nil {
		return image.Rectangle{}
	}
	return goImg.Bounds()
}

// Data returns the underlying pixel data.
func (img Image) Data() []uint8 {
	switch img.Which {
	case 0:
		return img.Gray.Pix
	case 1:
		return img.Gray16.Pix
	case 2:
		return img.NRGBA.Pix
	case 3:
		return img.NRGBA64.Pix
	default:
		return nil
	}
}

// BitsPerChannel returns the bits used per pixel channel, which drives
// colormap sizing during movie assembly.
func (img Image) BitsPerChannel() int {
	switch img.Which {
	case 0, 2:
		return 8
	case 1, 3:
		return 16
	default:
		return 0
	}
}

// Channels returns the number of channels per pixel.
func (img Image) Channels() int {
	switch img.Which {
	case 0, 1:
		return 1
	case 2, 3:
		return 4
	default:
		return 0
	}
}

// SubImage returns an image representing the portion of the image visible
// through r.  The returned image shares pixels with the original.
func (img *Image) SubImage(r image.Rectangle) (*Image, error) {
	result := new(Image)
	result.Which = img.Which
	switch img.Which {
	case 0:
		result.Gray = img.Gray.SubImage(r).(*image.Gray)
	case 1:
		result.Gray16 = img.Gray16.SubImage(r).(*image.Gray16)
	case 2:
		result.NRGBA = img.NRGBA.SubImage(r).(*image.NRGBA)
	case 3:
		result.NRGBA64 = img.NRGBA64.SubImage(r).(*image.NRGBA64)
	default:
		return nil, fmt.Errorf("unsupported image type %d asked for SubImage()", img.Which)
	}
	return result, nil
}

// Float64Data returns the pixel values promoted to float64 in row-major
// order, channel-interleaved.  The promotion guards running totals during
// aggregation against overflowing the member bitdepth's native integer
// range.  Also returns width, height, and channels per pixel.
func (img Image) Float64Data() (vals []float64, nx, ny, channels int) {
	b := img.Bounds()
	nx, ny = b.Dx(), b.Dy()
	channels = img.Channels()
	vals = make([]float64, nx*ny*channels)
	i := 0
	switch img.Which {
	case 0:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			offset := img.Gray.PixOffset(b.Min.X, y)
			for x := 0; x < nx; x++ {
				vals[i] = float64(img.Gray.Pix[offset+x])
				i++
			}
		}
	case 1:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			offset := img.Gray16.PixOffset(b.Min.X, y)
			for x := 0; x < nx; x++ {
				vals[i] = float64(binary.BigEndian.Uint16(img.Gray16.Pix[offset+2*x:]))
				i++
			}
		}
	case 2:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			offset := img.NRGBA.PixOffset(b.Min.X, y)
			for x := 0; x < nx*4; x++ {
				vals[i] = float64(img.NRGBA.Pix[offset+x])
				i++
			}
		}
	case 3:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			offset := img.NRGBA64.PixOffset(b.Min.X, y)
			for x := 0; x < nx*4; x++ {
				vals[i] = float64(binary.BigEndian.Uint16(img.NRGBA64.Pix[offset+2*x:]))
				i++
			}
		}
	}
	return
}

// Serialize returns a binary serialization of the image using optional
// compression and checksum.
func (img *Image) Serialize(compress Compression, checksum Checksum) ([]byte, error) {
	return Serialize(img, compress, checksum)
}

// Deserialize loads the image from a serialization produced by Serialize.
func (img *Image) Deserialize(b []byte) error {
	return Deserialize(b, img)
}

// ImageGrayFromData returns a Gray image given pixel data and image size.
func ImageGrayFromData(data []uint8, nx, ny int) *image.Gray {
	return &image.Gray{
		Pix:    data,
		Stride: nx,
		Rect:   image.Rect(0, 0, nx, ny),
	}
}
