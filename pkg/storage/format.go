package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes identifying a snapshot file
	MagicBytes = "SHLF"
	// Current snapshot format version
	FormatVersion = 1
	// File extension for snapshot files
	FileExtension = ".shlf"
)

// FileHeader is the fixed header at the start of a snapshot.
type FileHeader struct {
	Magic    [4]byte // "SHLF"
	Version  uint8   // Format version
	Flags    uint8   // Reserved for future use
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the snapshot header to the given writer.
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:   [4]byte{'S', 'H', 'L', 'F'},
		Version: FormatVersion,
		Flags:   flags,
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the snapshot header.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// CollectionData is one collection in wire form: document ids in insertion
// order plus the documents themselves as tagged wire maps.
type CollectionData struct {
	Order     []string                          `msgpack:"order"`
	Documents map[string]map[string]interface{} `msgpack:"documents"`
}

// StorageData is the body of a snapshot.
type StorageData struct {
	Collections map[string]CollectionData                 `msgpack:"collections"`
	Indexes     map[string]map[string]map[string][]string `msgpack:"indexes,omitempty"`
	Schemas     map[string]string                         `msgpack:"schemas,omitempty"`
}

// NewStorageData creates an empty snapshot body.
func NewStorageData() *StorageData {
	return &StorageData{
		Collections: make(map[string]CollectionData),
		Indexes:     make(map[string]map[string]map[string][]string),
		Schemas:     make(map[string]string),
	}
}
