package istack

import (
	"bytes"
	"testing"
)

func TestSerializeDataRoundTrip(t *testing.T) {
	data := makeSlice(1, 2, 64, 64)

	for _, compress := range []Compression{Uncompressed, Snappy, Zstd} {
		for _, checksum := range []Checksum{NoChecksum, CRC32} {
			s, err := SerializeData(data, compress, checksum)
			if err != nil {
				t.Fatalf("Unable to serialize with %s, %s: %v\n", compress, checksum, err)
			}
			out, gotCompress, err := DeserializeData(s, true)
			if err != nil {
				t.Fatalf("Unable to deserialize with %s, %s: %v\n", compress, checksum, err)
			}
			if gotCompress != compress {
				t.Errorf("Stored compression %s != requested %s\n", gotCompress, compress)
			}
			if !bytes.Equal(out, data) {
				t.Errorf("Round trip with %s, %s altered data\n", compress, checksum)
			}
		}
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	data := makeSlice(0, 0, 32, 32)
	s, err := SerializeData(data, Snappy, CRC32)
	if err != nil {
		t.Fatalf("Unable to serialize: %v\n", err)
	}

	// Flip a payload byte past the format byte and stored checksum.
	s[len(s)-1] ^= 0xFF
	if _, _, err := DeserializeData(s, true); err == nil {
		t.Errorf("Expected checksum error on corrupted data, got none\n")
	}
}

func TestSerializeObject(t *testing.T) {
	type payload struct {
		Name  string
		Count int
	}
	in := payload{Name: "stack", Count: 42}
	s, err := Serialize(in, Zstd, CRC32)
	if err != nil {
		t.Fatalf("Unable to serialize object: %v\n", err)
	}
	var out payload
	if err := Deserialize(s, &out); err != nil {
		t.Fatalf("Unable to deserialize object: %v\n", err)
	}
	if out != in {
		t.Errorf("Round trip object %v != %v\n", out, in)
	}
}
