package storage

import (
	"github.com/shelfdb/shelfdb/pkg/domain"
)

// MatchesFilter checks whether a document satisfies every condition in the
// filter. A field absent from the document never matches a condition on that
// field.
func MatchesFilter(doc domain.Document, filter domain.Filter) bool {
	for field, cond := range filter {
		actual, exists := doc[field]
		if !exists {
			return false
		}
		if !conditionMatches(actual, cond) {
			return false
		}
	}
	return true
}

// conditionMatches evaluates one condition against a present field value.
// Range bounds only apply between values of the same ordering group; a range
// against an incomparable value is a non-match.
func conditionMatches(actual domain.Value, cond domain.Condition) bool {
	if cond.Eq != nil {
		return domain.Equal(actual, *cond.Eq)
	}
	if cond.In != nil {
		for _, candidate := range cond.In {
			if domain.Equal(actual, candidate) {
				return true
			}
		}
		return false
	}

	if cond.Gt != nil {
		if !actual.Comparable(*cond.Gt) || domain.Compare(actual, *cond.Gt) <= 0 {
			return false
		}
	}
	if cond.Gte != nil {
		if !actual.Comparable(*cond.Gte) || domain.Compare(actual, *cond.Gte) < 0 {
			return false
		}
	}
	if cond.Lt != nil {
		if !actual.Comparable(*cond.Lt) || domain.Compare(actual, *cond.Lt) >= 0 {
			return false
		}
	}
	if cond.Lte != nil {
		if !actual.Comparable(*cond.Lte) || domain.Compare(actual, *cond.Lte) > 0 {
			return false
		}
	}
	return true
}

// IntersectIDs returns the ids present in every slice. Used to combine
// candidate lists from multiple indexes in multi-field queries.
func IntersectIDs(slices ...[]string) []string {
	if len(slices) == 0 {
		return nil
	}
	if len(slices) == 1 {
		return slices[0]
	}

	countMap := make(map[string]int)
	for _, slice := range slices {
		for _, id := range slice {
			countMap[id]++
		}
	}

	var result []string
	expectedCount := len(slices)
	for id, count := range countMap {
		if count == expectedCount {
			result = append(result, id)
		}
	}
	return result
}
