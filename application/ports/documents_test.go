package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDocuments_InstantsCompareChronologically(t *testing.T) {
	// RFC3339Nano trims trailing zeros, so lexical ordering would put the
	// nano-precision instant in the wrong place. The contract is
	// chronological.
	docs := []Document{
		{ID: "a", Fields: map[string]interface{}{"at": "2025-06-01T12:00:00.5Z"}},
		{ID: "b", Fields: map[string]interface{}{"at": "2025-06-01T12:00:00.25Z"}},
		{ID: "c", Fields: map[string]interface{}{"at": "2025-06-01T12:00:00Z"}},
	}

	SortDocuments(docs, OrderBy{Field: "at", Order: SortAscending})

	assert.Equal(t, []string{"c", "b", "a"}, documentIDs(docs))
}

func TestSortDocuments_NumbersCompareNumerically(t *testing.T) {
	docs := []Document{
		{ID: "a", Fields: map[string]interface{}{"n": 10}},
		{ID: "b", Fields: map[string]interface{}{"n": 2.0}},
		{ID: "c", Fields: map[string]interface{}{"n": int64(30)}},
	}

	SortDocuments(docs, OrderBy{Field: "n", Order: SortDescending})

	assert.Equal(t, []string{"c", "a", "b"}, documentIDs(docs))
}

func TestSortDocuments_TiesBreakOnID(t *testing.T) {
	docs := []Document{
		{ID: "b", Fields: map[string]interface{}{"at": "2025-06-01T12:00:00Z"}},
		{ID: "a", Fields: map[string]interface{}{"at": "2025-06-01T12:00:00Z"}},
	}

	SortDocuments(docs, OrderBy{Field: "at", Order: SortAscending})
	assert.Equal(t, []string{"a", "b"}, documentIDs(docs))

	SortDocuments(docs, OrderBy{Field: "at", Order: SortDescending})
	assert.Equal(t, []string{"b", "a"}, documentIDs(docs))
}

func TestCompareFieldValues_MixedTypesFallBackToStrings(t *testing.T) {
	assert.Equal(t, 0, CompareFieldValues(nil, nil))
	assert.Equal(t, -1, CompareFieldValues("apple", "banana"))
	assert.Equal(t, 1, CompareFieldValues("banana", "apple"))
}

func documentIDs(docs []Document) []string {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids
}
