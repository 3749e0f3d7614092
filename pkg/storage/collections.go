package storage

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// CreateCollection creates a new, empty collection.
func (e *Engine) CreateCollection(collName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if collName == "" {
		return fmt.Errorf("collection name cannot be empty: %w", domain.ErrInvalidArgument)
	}
	if _, exists := e.collections[collName]; exists {
		return fmt.Errorf("collection %s already exists: %w", collName, domain.ErrInvalidArgument)
	}

	e.collections[collName] = domain.NewCollection(collName)
	e.infos[collName] = &CollectionInfo{
		Name:         collName,
		LastModified: time.Now(),
	}

	e.logger.Debug("created collection", zap.String("collection", collName))
	return nil
}

// DropCollection removes a collection, its indexes, and its schema.
func (e *Engine) DropCollection(collName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[collName]; !exists {
		return fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}

	delete(e.collections, collName)
	delete(e.infos, collName)
	e.indexEngine.DropCollection(collName)
	e.schemas.Remove(collName)

	e.logger.Debug("dropped collection", zap.String("collection", collName))
	return nil
}

// Collections returns the collection names in lexical order.
func (e *Engine) Collections() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of documents in a collection.
func (e *Engine) Count(collName string) (int, error) {
	coll, err := e.getCollection(collName)
	if err != nil {
		return 0, err
	}
	var n int
	err = e.withCollectionReadLock(collName, func() error {
		n = coll.Len()
		return nil
	})
	return n, err
}

// Info returns a copy of the collection's metadata.
func (e *Engine) Info(collName string) (CollectionInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	info, exists := e.infos[collName]
	if !exists {
		return CollectionInfo{}, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	return *info, nil
}

// getCollection fetches a live collection pointer under the engine lock.
func (e *Engine) getCollection(collName string) (*domain.Collection, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	coll, exists := e.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	return coll, nil
}

// getOrCreateCollection fetches a collection, creating it on first insert.
func (e *Engine) getOrCreateCollection(collName string) *domain.Collection {
	e.mu.Lock()
	defer e.mu.Unlock()

	coll, exists := e.collections[collName]
	if !exists {
		coll = domain.NewCollection(collName)
		e.collections[collName] = coll
		e.infos[collName] = &CollectionInfo{
			Name:         collName,
			LastModified: time.Now(),
		}
	}
	return coll
}

// touchInfo updates a collection's metadata after a write. delta adjusts the
// document count.
func (e *Engine) touchInfo(collName string, delta int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if info, exists := e.infos[collName]; exists {
		info.DocumentCount += delta
		info.LastModified = time.Now()
	}
}
