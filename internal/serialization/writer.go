package serialization

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/born-ml/ragged/internal/content"
)

const raggedVersion = "0.1.0"

// Writer writes arrays in .ragd format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .ragd file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// Write stores c with optional metadata.
func (w *Writer) Write(c content.Content, metadata map[string]string) error {
	if w.closed {
		return fmt.Errorf("writer: %w", ErrClosed)
	}
	return WriteTo(w.file, c, metadata)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteTo writes c to an io.Writer.
// This is useful for writing to buffers or network connections.
func WriteTo(writer io.Writer, c content.Content, metadata map[string]string) error {
	form, length, buffers, err := content.ToBuffers(c)
	if err != nil {
		return fmt.Errorf("failed to decompose array: %w", err)
	}

	header := Header{
		FormatVersion: FormatVersion,
		RaggedVersion: raggedVersion,
		CreatedAt:     time.Now().UTC(),
		Length:        length,
		Form:          form,
		Buffers:       make([]BufferMeta, 0, len(buffers)),
		Metadata:      metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Buffers are laid out in name order so files are reproducible.
	var data []byte
	for _, name := range slices.Sorted(maps.Keys(buffers)) {
		raw := buffers[name]
		header.Buffers = append(header.Buffers, BufferMeta{
			Name:   name,
			Offset: int64(len(data)),
			Size:   int64(len(raw)),
		})
		data = append(data, raw...)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	fixed := fixedHeader{
		version:    FormatVersion,
		headerSize: uint64(len(headerJSON)),
		dataSize:   uint64(len(data)),
		checksum:   sha256.Sum256(data),
	}
	if len(metadata) > 0 {
		fixed.flags |= FlagHasMetadata
	}
	if hasParameters(form) {
		fixed.flags |= FlagHasParameters
	}

	if _, err := writer.Write(fixed.encode()); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := writer.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	padding := dataOffset(fixed.headerSize) - int64(FixedHeaderSize) - int64(len(headerJSON))
	if padding > 0 {
		if _, err := writer.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write buffer data: %w", err)
	}
	return nil
}
