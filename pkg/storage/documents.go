package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// Insert adds a document to a collection, creating the collection on first
// use. If the document carries no id one is generated; a duplicate id is
// rejected. Returns the document's id. The engine stores a deep copy, so the
// caller's map stays independent.
func (e *Engine) Insert(collName string, doc domain.Document) (string, error) {
	stored := doc.Clone()

	id := stored.ID()
	if idVal, hasID := stored[domain.IDField]; hasID {
		if id == "" {
			return "", fmt.Errorf("document id must be a non-empty string, got %s: %w",
				idVal.Kind(), domain.ErrInvalidArgument)
		}
	} else {
		id = e.newID()
		stored[domain.IDField] = domain.String(id)
	}

	if err := e.schemas.Validate(collName, stored); err != nil {
		return "", err
	}

	// Resolve the collection under its write lock: a concurrent drop between
	// resolution and append would otherwise strand the document.
	err := e.withCollectionWriteLock(collName, func() error {
		coll := e.getOrCreateCollection(collName)
		if _, exists := coll.Documents[id]; exists {
			return fmt.Errorf("document with id %s already exists in collection %s: %w",
				id, collName, domain.ErrInvalidArgument)
		}
		e.indexEngine.UpdateForDocument(collName, id, nil, stored)
		coll.Append(id, stored)
		e.touchInfo(collName, 1)
		return nil
	})
	if err != nil {
		return "", err
	}

	e.logger.Debug("inserted document", zap.String("collection", collName), zap.String("id", id))
	return id, nil
}

// GetByID retrieves a document by its id. The returned document is a deep
// copy.
func (e *Engine) GetByID(collName, docID string) (domain.Document, error) {
	coll, err := e.getCollection(collName)
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	err = e.withCollectionReadLock(collName, func() error {
		stored, exists := coll.Documents[docID]
		if !exists {
			return fmt.Errorf("document with id %s not found in collection %s: %w",
				docID, collName, domain.ErrNotFound)
		}
		doc = stored.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateByID merges the given fields into a document. The id field is
// immutable; the merged result is validated against the collection's schema
// before it is committed.
func (e *Engine) UpdateByID(collName, docID string, updates domain.Document) error {
	err := e.withCollectionWriteLock(collName, func() error {
		coll, err := e.getCollection(collName)
		if err != nil {
			return err
		}

		stored, exists := coll.Documents[docID]
		if !exists {
			return fmt.Errorf("document with id %s not found in collection %s: %w",
				docID, collName, domain.ErrNotFound)
		}

		updated := stored.Clone()
		for key, value := range updates {
			if key == domain.IDField {
				continue
			}
			updated[key] = value.Clone()
		}

		if err := e.schemas.Validate(collName, updated); err != nil {
			return err
		}

		e.indexEngine.UpdateForDocument(collName, docID, stored, updated)
		coll.Documents[docID] = updated
		e.touchInfo(collName, 0)
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Debug("updated document", zap.String("collection", collName), zap.String("id", docID))
	return nil
}

// DeleteByID removes a document by its id. References held by other
// documents are left as they are; nothing cascades.
func (e *Engine) DeleteByID(collName, docID string) error {
	err := e.withCollectionWriteLock(collName, func() error {
		coll, err := e.getCollection(collName)
		if err != nil {
			return err
		}

		stored, exists := coll.Documents[docID]
		if !exists {
			return fmt.Errorf("document with id %s not found in collection %s: %w",
				docID, collName, domain.ErrNotFound)
		}
		e.indexEngine.UpdateForDocument(collName, docID, stored, nil)
		coll.Remove(docID)
		e.touchInfo(collName, -1)
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Debug("deleted document", zap.String("collection", collName), zap.String("id", docID))
	return nil
}

// Find returns the documents of a collection matching the filter, in
// collection order, then sorted and windowed per the options. Every returned
// document is a deep copy; the result is a pure snapshot.
func (e *Engine) Find(collName string, filter domain.Filter, opts *domain.FindOptions) ([]domain.Document, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var where *whereProgram
	if opts != nil && opts.Where != "" {
		var err error
		where, err = compileWhere(opts.Where)
		if err != nil {
			return nil, err
		}
	}

	coll, err := e.getCollection(collName)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	err = e.withCollectionReadLock(collName, func() error {
		docs = e.scanLocked(collName, coll, filter, where)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts != nil {
		docs = SortDocuments(docs, opts.Sort)
		docs = ApplyWindow(docs, opts.Page)
	}

	e.logger.Debug("find",
		zap.String("collection", collName),
		zap.Int("filters", len(filter)),
		zap.Int("results", len(docs)))
	return docs, nil
}

// scanLocked walks the collection in insertion order and collects deep copies
// of the matching documents. Caller holds the collection read lock.
func (e *Engine) scanLocked(collName string, coll *domain.Collection, filter domain.Filter, where *whereProgram) []domain.Document {
	candidates, useIndex := e.optimizeWithIndexes(collName, filter)

	docs := make([]domain.Document, 0)
	for _, docID := range coll.Order {
		if useIndex && !candidates[docID] {
			continue
		}
		doc := coll.Documents[docID]
		if len(filter) > 0 && !MatchesFilter(doc, filter) {
			continue
		}
		if where != nil && !where.matches(doc) {
			continue
		}
		docs = append(docs, doc.Clone())
	}
	return docs
}

// optimizeWithIndexes narrows the scan to index candidates when every
// equality condition that has an index agrees. Returns the candidate id set
// and whether it should be used.
func (e *Engine) optimizeWithIndexes(collName string, filter domain.Filter) (map[string]bool, bool) {
	var indexResults [][]string

	for fieldName, cond := range filter {
		if cond.Eq == nil {
			continue
		}
		if index, exists := e.indexEngine.GetIndex(collName, fieldName); exists {
			indexResults = append(indexResults, index.QueryEqual(*cond.Eq))
		}
	}

	if len(indexResults) == 0 {
		return nil, false
	}

	candidates := IntersectIDs(indexResults...)
	set := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		set[id] = true
	}
	return set, true
}
