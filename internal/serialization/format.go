package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/born-ml/ragged/internal/content"
)

// Format constants.
const (
	MagicBytes      = "RAGD"
	FormatVersion   = 1
	HeaderAlignment = 64   // Buffer data starts on a 64-byte boundary
	FixedHeaderSize = 64   // 0x40 bytes
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
)

// Flags for the .ragd format.
const (
	FlagHasMetadata   uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasParameters uint32 = 1 << 1 // bit 1: some node carries parameters
)

// Header represents the JSON header in a .ragd file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	RaggedVersion string            `json:"ragged_version"` // Version of ragged that created this file
	CreatedAt     time.Time         `json:"created_at"`
	Length        int               `json:"length"` // Length of the outermost node
	Form          *content.Form     `json:"form"`
	Buffers       []BufferMeta      `json:"buffers"`
	Metadata      map[string]string `json:"metadata"`
}

// BufferMeta describes one buffer in the data section.
type BufferMeta struct {
	Name   string `json:"name"`   // "<form key>-<role>", e.g. "node1-offsets"
	Offset int64  `json:"offset"` // Bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

type fixedHeader struct {
	version    uint32
	flags      uint32
	headerSize uint64
	dataSize   uint64
	checksum   [ChecksumSize]byte
}

func (h fixedHeader) encode() []byte {
	out := make([]byte, FixedHeaderSize)
	copy(out[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(out[4:8], h.version)
	binary.LittleEndian.PutUint32(out[8:12], h.flags)
	binary.LittleEndian.PutUint64(out[16:24], h.headerSize)
	binary.LittleEndian.PutUint64(out[24:32], h.dataSize)
	copy(out[ChecksumOffset:ChecksumOffset+ChecksumSize], h.checksum[:])
	return out
}

func decodeFixedHeader(b []byte) (fixedHeader, error) {
	if string(b[0:4]) != MagicBytes {
		return fixedHeader{}, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, string(b[0:4]), MagicBytes)
	}
	h := fixedHeader{
		version:    binary.LittleEndian.Uint32(b[4:8]),
		flags:      binary.LittleEndian.Uint32(b[8:12]),
		headerSize: binary.LittleEndian.Uint64(b[16:24]),
		dataSize:   binary.LittleEndian.Uint64(b[24:32]),
	}
	if h.version != FormatVersion {
		return fixedHeader{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, h.version, FormatVersion)
	}
	if h.headerSize > MaxHeaderSize {
		return fixedHeader{}, ErrHeaderTooLarge
	}
	copy(h.checksum[:], b[ChecksumOffset:ChecksumOffset+ChecksumSize])
	return h, nil
}

// dataOffset returns where the data section starts for a JSON header of the
// given size.
func dataOffset(headerSize uint64) int64 {
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	pos := int64(FixedHeaderSize) + int64(headerSize)
	return pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment
}

func verifyChecksum(data []byte, stored [ChecksumSize]byte) error {
	if sha256.Sum256(data) != stored {
		return ErrChecksumMismatch
	}
	return nil
}

func hasParameters(f *content.Form) bool {
	if f == nil {
		return false
	}
	if !f.Parameters.Empty() || hasParameters(f.Content) {
		return true
	}
	for _, c := range f.Contents {
		if hasParameters(c) {
			return true
		}
	}
	return false
}
