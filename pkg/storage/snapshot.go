package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

const flagCompressed = 1

// Save writes a snapshot of the whole store: every collection with its
// insertion order, the index dump, and the registered schemas. The body is
// msgpack, lz4 block compressed.
func (e *Engine) Save(w io.Writer) error {
	data := NewStorageData()

	for _, collName := range e.Collections() {
		coll, err := e.getCollection(collName)
		if err != nil {
			continue // dropped since listing
		}
		err = e.withCollectionReadLock(collName, func() error {
			cd := CollectionData{
				Order:     append([]string(nil), coll.Order...),
				Documents: make(map[string]map[string]interface{}, len(coll.Documents)),
			}
			for docID, doc := range coll.Documents {
				cd.Documents[docID] = doc.ToWire()
			}
			data.Collections[collName] = cd
			return nil
		})
		if err != nil {
			return err
		}
	}
	data.Indexes = e.indexEngine.Export()
	data.Schemas = e.schemas.Export()

	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	var flags uint8
	body := payload
	if n > 0 { // n == 0 means the block was incompressible; store it raw
		flags = flagCompressed
		body = compressed[:n]
	}

	if err := WriteHeader(w, flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(payload))); err != nil {
		return fmt.Errorf("failed to write payload size: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write snapshot body: %w", err)
	}
	return nil
}

// Load replaces the store's contents with a snapshot previously written by
// Save: collections, indexes, and schemas.
func (e *Engine) Load(r io.Reader) error {
	header, err := ReadHeader(r)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	var payloadSize uint64
	if err := binary.Read(r, binary.LittleEndian, &payloadSize); err != nil {
		return fmt.Errorf("failed to read payload size: %w", err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot body: %w", err)
	}

	payload := body
	if header.Flags&flagCompressed != 0 {
		payload = make([]byte, payloadSize)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
		payload = payload[:n]
	}

	var data StorageData
	if err := msgpack.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	collections := make(map[string]*domain.Collection, len(data.Collections))
	infos := make(map[string]*CollectionInfo, len(data.Collections))
	for collName, cd := range data.Collections {
		coll := domain.NewCollection(collName)
		for _, docID := range cd.Order {
			raw, ok := cd.Documents[docID]
			if !ok {
				return fmt.Errorf("snapshot lists id %s in collection %s order but has no document", docID, collName)
			}
			doc, err := domain.DocumentFromWire(raw)
			if err != nil {
				return fmt.Errorf("collection %s, document %s: %w", collName, docID, err)
			}
			coll.Append(docID, doc)
		}
		collections[collName] = coll
		infos[collName] = &CollectionInfo{
			Name:          collName,
			DocumentCount: int64(coll.Len()),
			LastModified:  time.Now(),
		}
	}

	// Replace, don't merge: schemas and indexes absent from the snapshot
	// must not survive the load.
	if err := e.schemas.Replace(data.Schemas); err != nil {
		return err
	}

	e.mu.Lock()
	e.collections = collections
	e.infos = infos
	e.mu.Unlock()

	e.indexEngine.Import(data.Indexes)

	e.logger.Info("loaded snapshot", zap.Int("collections", len(collections)))
	return nil
}

// SaveToFile writes a snapshot atomically: to a temporary file first, then
// renamed into place.
func (e *Engine) SaveToFile(filename string) error {
	var buf bytes.Buffer
	if err := e.Save(&buf); err != nil {
		return err
	}

	tempFile := filename + ".tmp"
	if err := os.WriteFile(tempFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	e.logger.Debug("saved snapshot", zap.String("file", filename), zap.Int("bytes", buf.Len()))
	return nil
}

// LoadFromFile loads a snapshot from disk. A missing file is not an error;
// the store simply starts empty.
func (e *Engine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return e.Load(file)
}
