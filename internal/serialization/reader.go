package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/ragged/internal/content"
)

// Reader reads arrays from .ragd format.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	dataOffset int64 // Offset where buffer data starts
	dataSize   int64 // Size of the data section
	checksum   [ChecksumSize]byte
	opts       ReaderOptions
	closed     bool
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// NewReader creates a new .ragd file reader with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions creates a new .ragd file reader with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{file: file, opts: opts}
	if err := r.parseHeader(); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if err := ValidateHeader(&r.header, r.dataSize, opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return r, nil
}

// readHeader reads the fixed header and the JSON header that follows it.
func readHeader(reader io.Reader) (fixedHeader, Header, error) {
	raw := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return fixedHeader{}, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}
	fixed, err := decodeFixedHeader(raw)
	if err != nil {
		return fixedHeader{}, Header{}, err
	}

	headerBytes := make([]byte, fixed.headerSize)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return fixedHeader{}, Header{}, fmt.Errorf("failed to read header JSON: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return fixedHeader{}, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	return fixed, header, nil
}

func (r *Reader) parseHeader() error {
	fixed, header, err := readHeader(r.file)
	if err != nil {
		return err
	}
	r.header = header
	r.flags = fixed.flags
	r.checksum = fixed.checksum
	r.dataOffset = dataOffset(fixed.headerSize)
	//nolint:gosec // G115: checked against the file size below
	r.dataSize = int64(fixed.dataSize)

	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() < r.dataOffset+r.dataSize {
		return fmt.Errorf("%w: %d bytes after the header, %d declared", ErrTruncated, info.Size()-r.dataOffset, r.dataSize)
	}

	if !r.opts.SkipChecksumValidation {
		data := make([]byte, r.dataSize)
		if _, err := r.file.ReadAt(data, r.dataOffset); err != nil {
			return fmt.Errorf("failed to read buffer data for checksum: %w", err)
		}
		if err := verifyChecksum(data, r.checksum); err != nil {
			return err
		}
	}
	return nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the flag bits of the fixed header.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// BufferNames returns the names of all buffers in the file.
func (r *Reader) BufferNames() []string {
	names := make([]string, len(r.header.Buffers))
	for i, meta := range r.header.Buffers {
		names[i] = meta.Name
	}
	return names
}

// BufferInfo returns information about a specific buffer.
func (r *Reader) BufferInfo(name string) (*BufferMeta, error) {
	for _, meta := range r.header.Buffers {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("buffer %s not found", name)
}

// ReadBuffer reads the raw bytes of one buffer.
func (r *Reader) ReadBuffer(name string) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader: %w", ErrClosed)
	}
	meta, err := r.BufferInfo(name)
	if err != nil {
		return nil, err
	}
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > r.dataSize {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Buffer:  name,
			Details: fmt.Sprintf("offset %d + size %d outside data_size %d", meta.Offset, meta.Size, r.dataSize),
		}
	}
	data := make([]byte, meta.Size)
	if _, err := r.file.ReadAt(data, r.dataOffset+meta.Offset); err != nil {
		return nil, fmt.Errorf("failed to read buffer %s: %w", name, err)
	}
	return data, nil
}

// Load rebuilds the stored array on backend b.
func (r *Reader) Load(b content.Backend) (content.Content, error) {
	if r.closed {
		return nil, fmt.Errorf("reader: %w", ErrClosed)
	}
	buffers := make(map[string][]byte, len(r.header.Buffers))
	for _, meta := range r.header.Buffers {
		data, err := r.ReadBuffer(meta.Name)
		if err != nil {
			return nil, err
		}
		buffers[meta.Name] = data
	}
	return content.FromBuffers(r.header.Form, r.header.Length, buffers, b)
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFrom reads an array from an io.Reader with strict validation.
// This is useful for reading from buffers or network connections.
func ReadFrom(reader io.Reader, b content.Backend) (content.Content, Header, error) {
	fixed, header, err := readHeader(reader)
	if err != nil {
		return nil, Header{}, err
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	padding := dataOffset(fixed.headerSize) - int64(FixedHeaderSize) - int64(fixed.headerSize)
	if _, err := io.CopyN(io.Discard, reader, padding); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
	}

	//nolint:gosec // G115: validated against the buffer table below
	dataSize := int64(fixed.dataSize)
	if err := ValidateHeader(&header, dataSize, ValidationStrict); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, Header{}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	if err := verifyChecksum(data, fixed.checksum); err != nil {
		return nil, Header{}, err
	}

	buffers := make(map[string][]byte, len(header.Buffers))
	for _, meta := range header.Buffers {
		buffers[meta.Name] = data[meta.Offset : meta.Offset+meta.Size]
	}
	c, err := content.FromBuffers(header.Form, header.Length, buffers, b)
	if err != nil {
		return nil, Header{}, err
	}
	return c, header, nil
}
