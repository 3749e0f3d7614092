package storage

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shelfdb/shelfdb/pkg/domain"
	"github.com/shelfdb/shelfdb/pkg/indexing"
	"github.com/shelfdb/shelfdb/pkg/schema"
)

// CollectionLock provides per-collection concurrency control: concurrent
// reads proceed freely, a write excludes readers and writers on the same
// collection, and different collections are independent.
type CollectionLock struct {
	mu sync.RWMutex
}

// Engine is an in-memory document store: named, insertion-ordered collections
// of documents with filtered queries, equality indexes, optional
// per-collection JSON Schemas, and a msgpack snapshot format.
type Engine struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection
	infos       map[string]*CollectionInfo
	indexEngine *indexing.IndexEngine
	schemas     *schema.Registry
	logger      *zap.Logger

	// Per-collection locks for better concurrency
	collectionLocks map[string]*CollectionLock
	locksMu         sync.RWMutex

	newID func() string
}

// NewEngine creates a new storage engine.
func NewEngine(options ...EngineOption) *Engine {
	engine := &Engine{
		collections:     make(map[string]*domain.Collection),
		infos:           make(map[string]*CollectionInfo),
		indexEngine:     indexing.NewIndexEngine(),
		schemas:         schema.NewRegistry(),
		logger:          zap.NewNop(),
		collectionLocks: make(map[string]*CollectionLock),
		newID:           uuid.NewString,
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// getOrCreateCollectionLock gets or creates a lock for a collection.
func (e *Engine) getOrCreateCollectionLock(collName string) *CollectionLock {
	e.locksMu.RLock()
	if lock, exists := e.collectionLocks[collName]; exists {
		e.locksMu.RUnlock()
		return lock
	}
	e.locksMu.RUnlock()

	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	// Double-check in case another goroutine created it
	if lock, exists := e.collectionLocks[collName]; exists {
		return lock
	}

	lock := &CollectionLock{}
	e.collectionLocks[collName] = lock
	return lock
}

// withCollectionReadLock executes fn holding a read lock on the collection.
func (e *Engine) withCollectionReadLock(collName string, fn func() error) error {
	lock := e.getOrCreateCollectionLock(collName)
	lock.mu.RLock()
	defer lock.mu.RUnlock()
	return fn()
}

// withCollectionWriteLock executes fn holding a write lock on the collection.
func (e *Engine) withCollectionWriteLock(collName string, fn func() error) error {
	lock := e.getOrCreateCollectionLock(collName)
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return fn()
}

// SetSchema registers a JSON Schema for a collection; subsequent inserts and
// updates into that collection are validated against it.
func (e *Engine) SetSchema(collName, schemaJSON string) error {
	return e.schemas.Register(collName, schemaJSON)
}

// GetSchema returns the JSON Schema source registered for a collection.
func (e *Engine) GetSchema(collName string) (string, error) {
	raw, ok := e.schemas.Raw(collName)
	if !ok {
		return "", fmt.Errorf("no schema registered for collection %s: %w", collName, domain.ErrNotFound)
	}
	return raw, nil
}

// Schemas returns the engine's schema registry.
func (e *Engine) Schemas() *schema.Registry {
	return e.schemas
}

// IndexEngine returns the engine's index engine.
func (e *Engine) IndexEngine() *indexing.IndexEngine {
	return e.indexEngine
}
