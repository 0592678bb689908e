package ports

import (
	"sort"
	"strings"
	"time"
)

// SortDocuments orders a snapshot by the orderBy field. The ordering contract
// is part of the port: instants compare chronologically, numbers numerically,
// everything else lexically, with a stable tiebreak on document id.
func SortDocuments(docs []Document, orderBy OrderBy) {
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		cmp := CompareFieldValues(a.Fields[orderBy.Field], b.Fields[orderBy.Field])
		if cmp == 0 {
			if orderBy.Order == SortDescending {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		if orderBy.Order == SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// CompareFieldValues compares two ordering-key values.
func CompareFieldValues(a, b interface{}) int {
	if at, aok := valueAsTime(a); aok {
		if bt, bok := valueAsTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	if af, aok := valueAsFloat(a); aok {
		if bf, bok := valueAsFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}

func valueAsTime(v interface{}) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func valueAsFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
