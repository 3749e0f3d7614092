package storage

import (
	"sort"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// SortDocuments stably sorts documents by the sort key; ties keep their
// original relative order. Documents missing the key sort after all
// documents that have it, regardless of direction. A nil spec leaves the
// sequence untouched.
func SortDocuments(docs []domain.Document, spec *domain.SortSpec) []domain.Document {
	if spec == nil {
		return docs
	}
	sort.SliceStable(docs, func(i, j int) bool {
		vi, haveI := docs[i][spec.Field]
		vj, haveJ := docs[j][spec.Field]
		if !haveI || !haveJ {
			return haveI && !haveJ
		}
		c := domain.Compare(vi, vj)
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
	return docs
}

// ApplyWindow drops page.Offset leading documents and keeps at most
// page.Limit. A Limit of zero means no limit. A nil page leaves the sequence
// untouched. Bounds are assumed validated (FindOptions.Validate).
func ApplyWindow(docs []domain.Document, page *domain.PageSpec) []domain.Document {
	if page == nil {
		return docs
	}
	if page.Offset >= len(docs) {
		return []domain.Document{}
	}
	windowed := docs[page.Offset:]
	if page.Limit > 0 && page.Limit < len(windowed) {
		windowed = windowed[:page.Limit]
	}
	return windowed
}
