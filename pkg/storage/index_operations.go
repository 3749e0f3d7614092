package storage

import (
	"github.com/shelfdb/shelfdb/pkg/domain"
)

// CreateIndex creates an equality index on a field and builds it over the
// collection's current documents. The collection is created if it does not
// exist yet, so indexes can be declared ahead of data.
func (e *Engine) CreateIndex(collName, fieldName string) error {
	coll := e.getOrCreateCollection(collName)

	return e.withCollectionWriteLock(collName, func() error {
		if err := e.indexEngine.CreateIndex(collName, fieldName); err != nil {
			return err
		}
		e.indexEngine.BuildForCollection(collName, fieldName, coll)
		return nil
	})
}

// DropIndex removes an index from a collection.
func (e *Engine) DropIndex(collName, fieldName string) error {
	return e.withCollectionWriteLock(collName, func() error {
		return e.indexEngine.DropIndex(collName, fieldName)
	})
}

// GetIndexes returns the indexed fields of a collection.
func (e *Engine) GetIndexes(collName string) ([]string, error) {
	if _, err := e.getCollection(collName); err != nil {
		return nil, err
	}
	return e.indexEngine.GetIndexes(collName), nil
}

// FindByIndex returns the documents whose indexed field equals the given
// value, in collection order. Falls back to Find semantics when no index
// exists on the field.
func (e *Engine) FindByIndex(collName, fieldName string, value domain.Value) ([]domain.Document, error) {
	return e.Find(collName, domain.Filter{fieldName: domain.Eq(value)}, nil)
}
