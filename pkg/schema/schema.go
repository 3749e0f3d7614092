// Package schema holds per-collection JSON Schemas and validates documents
// against them. Schemas are standard JSON Schema documents, compiled once at
// registration.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// Registry maps collection names to compiled schemas. A collection without a
// registered schema accepts every document.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
	raw     map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*gojsonschema.Schema),
		raw:     make(map[string]string),
	}
}

// Register compiles schemaJSON and attaches it to the collection, replacing
// any previous schema.
func (r *Registry) Register(collection, schemaJSON string) error {
	loader := gojsonschema.NewStringLoader(schemaJSON)
	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return fmt.Errorf("invalid json schema for collection %s: %w", collection, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[collection] = compiled
	r.raw[collection] = schemaJSON
	return nil
}

// Replace swaps the registry's entire contents for the given schema sources,
// dropping anything previously registered. The registry is untouched if any
// schema fails to compile.
func (r *Registry) Replace(schemas map[string]string) error {
	compiled := make(map[string]*gojsonschema.Schema, len(schemas))
	raw := make(map[string]string, len(schemas))
	for collection, schemaJSON := range schemas {
		c, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
		if err != nil {
			return fmt.Errorf("invalid json schema for collection %s: %w", collection, err)
		}
		compiled[collection] = c
		raw[collection] = schemaJSON
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas = compiled
	r.raw = raw
	return nil
}

// Remove drops the schema for a collection, if any.
func (r *Registry) Remove(collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schemas, collection)
	delete(r.raw, collection)
}

// Export returns every registered schema source keyed by collection.
func (r *Registry) Export() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.raw))
	for coll, raw := range r.raw {
		out[coll] = raw
	}
	return out
}

// Raw returns the registered schema source for a collection.
func (r *Registry) Raw(collection string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.raw[collection]
	return raw, ok
}

// Validate checks a document against the collection's schema. Documents are
// validated in their external form, so reference fields appear as bare id
// strings. Returns nil when no schema is registered.
func (r *Registry) Validate(collection string, doc domain.Document) error {
	r.mu.RLock()
	compiled, ok := r.schemas[collection]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(doc.Interface()))
	if err != nil {
		return fmt.Errorf("schema validation for collection %s: %w", collection, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("document violates schema for collection %s (%s): %w",
		collection, strings.Join(msgs, "; "), domain.ErrInvalidArgument)
}
