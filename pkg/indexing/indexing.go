package indexing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// IndexEngine holds the inverted equality indexes for every collection. The
// mutex guards the index maps; the per-index Inverted contents are guarded by
// the owning collection's lock in the storage engine.
type IndexEngine struct {
	mu      sync.RWMutex
	indexes map[string]map[string]*Index // collection name -> field name -> index
}

// NewIndexEngine creates an empty index engine.
func NewIndexEngine() *IndexEngine {
	return &IndexEngine{
		indexes: make(map[string]map[string]*Index),
	}
}

// Index maps a field's canonical value keys to document ids.
type Index struct {
	Field    string
	Inverted map[string][]string
}

// NewIndex creates an index on a specific field.
func NewIndex(field string) *Index {
	return &Index{
		Field:    field,
		Inverted: make(map[string][]string),
	}
}

// Build indexes every document in a collection by the index field.
func (idx *Index) Build(collection *domain.Collection) {
	idx.Inverted = make(map[string][]string)
	for _, docID := range collection.Order {
		doc := collection.Documents[docID]
		if val, ok := doc[idx.Field]; ok {
			key := val.Key()
			idx.Inverted[key] = append(idx.Inverted[key], docID)
		}
	}
}

// Query returns document ids whose indexed field has the given canonical
// value key.
func (idx *Index) Query(value domain.Value) []string {
	return idx.Inverted[value.Key()]
}

// QueryEqual returns candidate ids under domain.Equal semantics, which admit
// a bare id string matching a stored reference and vice versa. Callers
// re-verify candidates against the filter, so over-matching here is safe.
func (idx *Index) QueryEqual(value domain.Value) []string {
	ids := append([]string(nil), idx.Query(value)...)
	switch value.Kind() {
	case domain.KindRef:
		ref, _ := value.RefVal()
		ids = append(ids, idx.Inverted[domain.String(ref.ID).Key()]...)
	case domain.KindString:
		s, _ := value.StringVal()
		suffix := "/" + s
		for key, more := range idx.Inverted {
			if strings.HasPrefix(key, "r:") && strings.HasSuffix(key, suffix) {
				ids = append(ids, more...)
			}
		}
	}
	return ids
}

// Update adjusts the index after an insert, update, or delete. Either
// document may be nil.
func (idx *Index) Update(docID string, oldDoc, newDoc domain.Document) {
	if oldDoc != nil {
		if oldVal, ok := oldDoc[idx.Field]; ok {
			key := oldVal.Key()
			docList := idx.Inverted[key]
			for i, id := range docList {
				if id == docID {
					idx.Inverted[key] = append(docList[:i], docList[i+1:]...)
					break
				}
			}
			if len(idx.Inverted[key]) == 0 {
				delete(idx.Inverted, key)
			}
		}
	}
	if newDoc != nil {
		if newVal, ok := newDoc[idx.Field]; ok {
			key := newVal.Key()
			idx.Inverted[key] = append(idx.Inverted[key], docID)
		}
	}
}

// CreateIndex creates an index on a field in a collection.
func (ie *IndexEngine) CreateIndex(collectionName, fieldName string) error {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	if ie.indexes[collectionName] == nil {
		ie.indexes[collectionName] = make(map[string]*Index)
	}
	if _, exists := ie.indexes[collectionName][fieldName]; exists {
		return fmt.Errorf("index on field %s already exists in collection %s", fieldName, collectionName)
	}
	ie.indexes[collectionName][fieldName] = NewIndex(fieldName)
	return nil
}

// DropIndex removes an index from a collection.
func (ie *IndexEngine) DropIndex(collectionName, fieldName string) error {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	if ie.indexes[collectionName] == nil {
		return fmt.Errorf("no indexes exist for collection %s", collectionName)
	}
	if _, exists := ie.indexes[collectionName][fieldName]; !exists {
		return fmt.Errorf("index on field %s does not exist in collection %s", fieldName, collectionName)
	}
	delete(ie.indexes[collectionName], fieldName)
	return nil
}

// DropCollection removes every index for a collection.
func (ie *IndexEngine) DropCollection(collectionName string) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	delete(ie.indexes, collectionName)
}

// GetIndex returns the index for a field in a collection, if one exists.
func (ie *IndexEngine) GetIndex(collectionName, fieldName string) (*Index, bool) {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	if collectionIndexes, exists := ie.indexes[collectionName]; exists {
		if index, exists := collectionIndexes[fieldName]; exists {
			return index, true
		}
	}
	return nil, false
}

// GetIndexes returns the indexed field names for a collection.
func (ie *IndexEngine) GetIndexes(collectionName string) []string {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	collectionIndexes, exists := ie.indexes[collectionName]
	if !exists {
		return nil
	}
	var fields []string
	for fieldName := range collectionIndexes {
		fields = append(fields, fieldName)
	}
	return fields
}

// BuildForCollection creates (if needed) and builds an index over an entire
// collection.
func (ie *IndexEngine) BuildForCollection(collectionName, fieldName string, collection *domain.Collection) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	if ie.indexes[collectionName] == nil {
		ie.indexes[collectionName] = make(map[string]*Index)
	}
	index, exists := ie.indexes[collectionName][fieldName]
	if !exists {
		index = NewIndex(fieldName)
		ie.indexes[collectionName][fieldName] = index
	}
	index.Build(collection)
}

// UpdateForDocument updates every index of a collection for one document
// change.
func (ie *IndexEngine) UpdateForDocument(collectionName, docID string, oldDoc, newDoc domain.Document) {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	if collectionIndexes, exists := ie.indexes[collectionName]; exists {
		for _, index := range collectionIndexes {
			index.Update(docID, oldDoc, newDoc)
		}
	}
}

// Export dumps every index as collection -> field -> value key -> ids, the
// shape stored in snapshots.
func (ie *IndexEngine) Export() map[string]map[string]map[string][]string {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	out := make(map[string]map[string]map[string][]string, len(ie.indexes))
	for collName, collectionIndexes := range ie.indexes {
		out[collName] = make(map[string]map[string][]string, len(collectionIndexes))
		for fieldName, index := range collectionIndexes {
			inverted := make(map[string][]string, len(index.Inverted))
			for key, ids := range index.Inverted {
				inverted[key] = append([]string(nil), ids...)
			}
			out[collName][fieldName] = inverted
		}
	}
	return out
}

// Import replaces the engine's indexes with an exported dump.
func (ie *IndexEngine) Import(dump map[string]map[string]map[string][]string) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	ie.indexes = make(map[string]map[string]*Index, len(dump))
	for collName, fields := range dump {
		ie.indexes[collName] = make(map[string]*Index, len(fields))
		for fieldName, inverted := range fields {
			index := NewIndex(fieldName)
			for key, ids := range inverted {
				index.Inverted[key] = append([]string(nil), ids...)
			}
			ie.indexes[collName][fieldName] = index
		}
	}
}
