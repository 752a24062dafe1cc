/*
	This file implements the codec registry mapping member file extensions
	to encoders/decoders.  Codecs self-register at init time, so the set of
	recognized extensions is closed at build time.
*/

package istack

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blang/semver"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality is the quality of encoded members if the jpg codec
// is used and an explicit quality is omitted.
const DefaultJPEGQuality = 80

// Codec encodes and decodes one member file format.
type Codec struct {
	name   string
	desc   string
	semver semver.Version

	encode func(w io.Writer, img *Image) error
	decode func(r io.Reader) (*Image, error)
}

func (c Codec) GetName() string {
	return c.name
}

func (c Codec) GetDescription() string {
	return c.desc
}

func (c Codec) GetSemVer() semver.Version {
	return c.semver
}

func (c Codec) String() string {
	return fmt.Sprintf("%s [%s]", c.name, c.semver)
}

var codecs = map[string]Codec{}

// RegisterCodec makes a codec available under the given file extensions
// (without leading dot).
func RegisterCodec(c Codec, extensions ...string) {
	for _, ext := range extensions {
		codecs[ext] = c
	}
}

// CodecForExtension returns the codec registered for a file extension.
func CodecForExtension(ext string) (Codec, error) {
	c, found := codecs[strings.ToLower(ext)]
	if !found {
		return Codec{}, fmt.Errorf("no codec registered for extension %q", ext)
	}
	return c, nil
}

// Extensions returns the sorted list of recognized member file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func mustSemver(v string) semver.Version {
	ver, err := semver.Make(v)
	if err != nil {
		Errorf("Unable to make semver for codec registration: %v\n", err)
	}
	return ver
}

func init() {
	RegisterCodec(Codec{
		name:   "png",
		desc:   "Portable Network Graphics",
		semver: mustSemver("1.0.0"),
		encode: func(w io.Writer, img *Image) error {
			return png.Encode(w, img.Get())
		},
		decode: func(r io.Reader) (*Image, error) {
			goImg, err := png.Decode(r)
			if err != nil {
				return nil, err
			}
			img := new(Image)
			if err := img.Set(goImg); err != nil {
				return nil, err
			}
			return img, nil
		},
	}, "png")

	RegisterCodec(Codec{
		name:   "jpeg",
		desc:   "JPEG, lossy",
		semver: mustSemver("1.0.0"),
		encode: func(w io.Writer, img *Image) error {
			return jpeg.Encode(w, img.Get(), &jpeg.Options{Quality: DefaultJPEGQuality})
		},
		decode: func(r io.Reader) (*Image, error) {
			goImg, err := jpeg.Decode(r)
			if err != nil {
				return nil, err
			}
			img := new(Image)
			if err := img.Set(goImg); err != nil {
				return nil, err
			}
			return img, nil
		},
	}, "jpg", "jpeg")

	RegisterCodec(Codec{
		name:   "tiff",
		desc:   "Tagged Image File Format, deflate compressed",
		semver: mustSemver("1.0.0"),
		encode: func(w io.Writer, img *Image) error {
			return tiff.Encode(w, img.Get(), &tiff.Options{Compression: tiff.Deflate})
		},
		decode: func(r io.Reader) (*Image, error) {
			goImg, err := tiff.Decode(r)
			if err != nil {
				return nil, err
			}
			img := new(Image)
			if err := img.Set(goImg); err != nil {
				return nil, err
			}
			return img, nil
		},
	}, "tif", "tiff")

	RegisterCodec(Codec{
		name:   "bmp",
		desc:   "Windows bitmap",
		semver: mustSemver("1.0.0"),
		encode: func(w io.Writer, img *Image) error {
			return bmp.Encode(w, img.Get())
		},
		decode: func(r io.Reader) (*Image, error) {
			goImg, err := bmp.Decode(r)
			if err != nil {
				return nil, err
			}
			img := new(Image)
			if err := img.Set(goImg); err != nil {
				return nil, err
			}
			return img, nil
		},
	}, "bmp")

	// Raw binary container: the gob serialization of the Image union with
	// snappy compression and CRC32 checksum.  Lossless for every union type
	// including 16-bit channels.
	RegisterCodec(Codec{
		name:   "dat",
		desc:   "Raw serialized image, snappy + CRC32",
		semver: mustSemver("1.0.0"),
		encode: func(w io.Writer, img *Image) error {
			b, err := img.Serialize(Snappy, CRC32)
			if err != nil {
				return err
			}
			_, err = w.Write(b)
			return err
		},
		decode: func(r io.Reader) (*Image, error) {
			b, err := ioutil.ReadAll(r)
			if err != nil {
				return nil, err
			}
			img := new(Image)
			if err := img.Deserialize(b); err != nil {
				return nil, err
			}
			return img, nil
		},
	}, "dat")
}

// EncodeBytes encodes an image into a byte slice using this codec.
func (c Codec) EncodeBytes(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeFile decodes a member file, selecting the codec by file extension.
// A missing file returns a wrapped ErrNotFound; a codec parse failure
// returns a wrapped ErrDecode.
func DecodeFile(filename string) (*Image, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	c, err := CodecForExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: open %s: %s", ErrDecode, filename, err)
	}
	defer f.Close()
	img, err := c.decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrDecode, filename, err)
	}
	return img, nil
}
