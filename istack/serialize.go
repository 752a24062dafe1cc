/*
	This file supports serialization/deserialization and compression of data.
	The wire format is a single format byte combining compression and
	checksum methods, followed by any checksum, followed by the payload.
*/

package istack

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression is the format of compression for storing data.
// NOTE: Should be no more than 8 (3 bits) of compression types.
type Compression uint8

const (
	Uncompressed Compression = 0
	Snappy                   = 1 << iota
	Zstd
)

func (compress Compression) String() string {
	switch compress {
	case Uncompressed:
		return "No compression"
	case Snappy:
		return "Go Snappy compression"
	case Zstd:
		return "Go Zstd compression"
	default:
		return "Unknown compression"
	}
}

// Checksum is the type of checksum employed for error checking stored data.
// NOTE: Should be no more than 4 (2 bits) of checksum types.
type Checksum uint8

const (
	NoChecksum Checksum = 0
	CRC32               = 1 << iota
)

func (checksum Checksum) String() string {
	switch checksum {
	case NoChecksum:
		return "No checksum"
	case CRC32:
		return "CRC32 checksum"
	default:
		return "Unknown checksum"
	}
}

// SerializationFormat is a single byte combining both compression and
// checksum methods.
type SerializationFormat uint8

func EncodeSerializationFormat(compress Compression, checksum Checksum) SerializationFormat {
	a := (uint8(compress) & 0x07) << 5
	b := (uint8(checksum) & 0x03) << 3
	return SerializationFormat(a | b)
}

func DecodeSerializationFormat(s SerializationFormat) (compress Compression, checksum Checksum) {
	compress = Compression(uint8(s) >> 5)
	checksum = Checksum((uint8(s) >> 3) & 0x03)
	return
}

// zstd coders are safe for reuse across goroutines.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// SerializeData serializes a slice of bytes using optional compression and
// checksum.
func SerializeData(data []byte, compress Compression, checksum Checksum) (s []byte, err error) {
	var buffer bytes.Buffer

	// Store the requested compression and checksum.
	format := EncodeSerializationFormat(compress, checksum)
	if err = binary.Write(&buffer, binary.LittleEndian, format); err != nil {
		return
	}

	var byteData []byte
	switch compress {
	case Uncompressed:
		byteData = data
	case Snappy:
		byteData = snappy.Encode(nil, data)
	case Zstd:
		byteData = zstdEncoder.EncodeAll(data, nil)
	default:
		err = fmt.Errorf("illegal compression (%s) during serialization", compress)
	}
	if err != nil {
		return
	}

	switch checksum {
	case NoChecksum:
	case CRC32:
		crcChecksum := crc32.ChecksumIEEE(byteData)
		err = binary.Write(&buffer, binary.LittleEndian, crcChecksum)
	default:
		err = fmt.Errorf("illegal checksum (%s) during serialization", checksum)
	}
	if err == nil {
		// The actual data is written last, after any checksum, so we don't
		// have to worry about length when deserializing.
		if _, err = buffer.Write(byteData); err == nil {
			s = buffer.Bytes()
		}
	}
	return
}

// Serialize serializes an arbitrary Go object using gob encoding and
// optional compression, checksum.  If your object is []byte, you should
// preferentially use SerializeData since gob encoding adds overhead.
func Serialize(object interface{}, compress Compression, checksum Checksum) ([]byte, error) {
	var buffer bytes.Buffer
	enc := gob.NewEncoder(&buffer)
	if err := enc.Encode(object); err != nil {
		return nil, err
	}
	return SerializeData(buffer.Bytes(), compress, checksum)
}

// DeserializeData deserializes a slice of bytes using the stored
// compression and checksum.  If the uncompress parameter is false, the
// data is not uncompressed.
func DeserializeData(s []byte, uncompress bool) (data []byte, compress Compression, err error) {
	buffer := bytes.NewBuffer(s)

	var format SerializationFormat
	if err = binary.Read(buffer, binary.LittleEndian, &format); err != nil {
		return
	}
	var checksum Checksum
	compress, checksum = DecodeSerializationFormat(format)

	var storedCrc32 uint32
	switch checksum {
	case NoChecksum:
	case CRC32:
		err = binary.Read(buffer, binary.LittleEndian, &storedCrc32)
	default:
		err = fmt.Errorf("illegal checksum in deserializing data")
	}
	if err != nil {
		return
	}

	cdata := buffer.Bytes()

	switch checksum {
	case CRC32:
		crcChecksum := crc32.ChecksumIEEE(cdata)
		if crcChecksum != storedCrc32 {
			err = fmt.Errorf("bad checksum: stored %x got %x", storedCrc32, crcChecksum)
			return
		}
	}

	if uncompress {
		switch compress {
		case Uncompressed:
			data = cdata
		case Snappy:
			data, err = snappy.Decode(nil, cdata)
		case Zstd:
			data, err = zstdDecoder.DecodeAll(cdata, nil)
		default:
			err = fmt.Errorf("illegal compression format (%d) in deserialization", compress)
		}
	}
	return
}

// Deserialize deserializes a Go object using gob encoding.
func Deserialize(s []byte, object interface{}) error {
	data, _, err := DeserializeData(s, true)
	if err != nil {
		return err
	}
	buffer := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buffer)
	return dec.Decode(object)
}
