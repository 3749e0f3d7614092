package storage

import (
	"github.com/shelfdb/shelfdb/pkg/domain"
)

// FindStream yields the filter's matches over a channel, in collection
// order. The matches are snapshotted under the collection read lock before
// the channel starts delivering, so a slow consumer never holds up writers.
func (e *Engine) FindStream(collName string, filter domain.Filter) (<-chan domain.Document, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	coll, err := e.getCollection(collName)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	err = e.withCollectionReadLock(collName, func() error {
		docs = e.scanLocked(collName, coll, filter, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(chan domain.Document, 100)
	go func() {
		defer close(out)
		for _, doc := range docs {
			out <- doc
		}
	}()
	return out, nil
}
