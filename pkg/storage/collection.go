package storage

import (
	"time"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// CollectionInfo is per-collection metadata the engine keeps alongside the
// documents.
type CollectionInfo struct {
	Name          string
	DocumentCount int64
	LastModified  time.Time
}

// Collection aliases domain.Collection for storage-internal use.
type Collection = domain.Collection

// Document aliases domain.Document for storage-internal use.
type Document = domain.Document
