// Binary encoding for pattern set blobs.
//
// Pattern lists use a compact length-prefixed format; the small metadata
// record uses gob.
//
// Pattern list format (little-endian):
//
//	patternCount: uint32
//	per pattern:
//	  len:   uint32
//	  bytes: [len]byte
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
)

// encodePatterns encodes a pattern list. A single buffer is pre-allocated
// to avoid repeated growth.
func encodePatterns(patterns []string) []byte {
	totalSize := 4
	for _, p := range patterns {
		totalSize += 4 + len(p)
	}

	buf := make([]byte, totalSize)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(patterns)))
	offset += 4

	for _, p := range patterns {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(p)))
		offset += 4
		copy(buf[offset:], p)
		offset += len(p)
	}
	return buf
}

// decodePatterns decodes a pattern list. Every read is bounds-checked to
// avoid panics on corrupt data.
func decodePatterns(data []byte) ([]string, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("pattern list too short: %d bytes", len(data))
	}

	offset := 0
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	// Each pattern needs at least its 4-byte length prefix.
	if uint64(count)*4 > uint64(len(data)-offset) {
		return nil, fmt.Errorf("pattern count %d exceeds data size %d", count, len(data))
	}

	patterns := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("truncated at pattern %d length (offset %d)", i, offset)
		}
		n := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		if n < 0 || offset+n > len(data) {
			return nil, fmt.Errorf("truncated at pattern %d (offset %d, need %d)", i, offset, n)
		}
		patterns = append(patterns, string(data[offset:offset+n]))
		offset += n
	}

	if offset != len(data) {
		return nil, fmt.Errorf("trailing %d bytes after %d patterns", len(data)-offset, count)
	}
	return patterns, nil
}

// setMeta is the gob-encoded metadata record stored beside each pattern list.
type setMeta struct {
	Count     int
	CreatedAt int64
	UpdatedAt int64
}

// encodeGob encodes a value using gob.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
