// Package search applies a domain.QueryParams to an in-memory slice of
// records. It is the reference behaviour the SQL repositories reproduce.
package search

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/guironm/crew-center/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Record is anything whose attributes can be read by field name. Unknown
// fields return nil.
type Record interface {
	FieldValue(f domain.Field) any
}

// ApplyTextSearch keeps items where at least one of fields, read as a
// string, contains query case-insensitively. Non-string values never match.
func ApplyTextSearch[T Record](items []T, query string, fields []domain.Field) []T {
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields {
			s, ok := item.FieldValue(f).(string)
			if ok && strings.Contains(strings.ToLower(s), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// ApplyFilters keeps items matching every filter.
func ApplyFilters[T Record](items []T, filters domain.Filters) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll[T Record](item T, filters domain.Filters) bool {
	for field, want := range filters {
		if !equalValues(item.FieldValue(field), want) {
			return false
		}
	}
	return true
}

// ApplySort returns a stably sorted copy. Nil values sort first in ascending
// order and last in descending order.
func ApplySort[T Record](items []T, field domain.Field, order domain.SortOrder) []T {
	out := slices.Clone(items)
	mult := 1
	if order == domain.SortDesc {
		mult = -1
	}
	coll := newCollator()
	slices.SortStableFunc(out, func(a, b T) int {
		return mult * compareValues(coll, a.FieldValue(field), b.FieldValue(field))
	})
	return out
}

func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// Collators keep scratch buffers, so each goroutine takes its own.
var collators = sync.Pool{New: func() any { return newCollator() }}

// CompareText orders two strings the way ApplySort does.
func CompareText(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// FindMany runs text search, then filters, then sort.
func FindMany[T Record](items []T, params domain.QueryParams) []T {
	results := slices.Clone(items)
	if params.TextSearch != nil {
		results = ApplyTextSearch(results, params.TextSearch.Query, params.TextSearch.Fields)
	}
	if len(params.Filters) > 0 {
		results = ApplyFilters(results, params.Filters)
	}
	if params.Sort != nil {
		results = ApplySort(results, params.Sort.Field, params.Sort.Order)
	}
	if results == nil {
		results = []T{}
	}
	return results
}

// FindManyPaginated is FindMany followed by a page slice. Metadata is computed
// from the count before slicing.
func FindManyPaginated[T Record](items []T, params domain.PaginatedQueryParams) domain.Page[T] {
	all := FindMany(items, params.QueryParams)
	return domain.Page[T]{
		Data: pageOf(all, params.Pagination),
		Meta: domain.NewPageMeta(params.Pagination, len(all)),
	}
}

func pageOf[T any](items []T, p domain.Pagination) []T {
	start := p.Offset()
	if start >= len(items) || p.Limit <= 0 {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return slices.Clone(items[start:end])
}

func equalValues(have, want any) bool {
	if have == nil || want == nil {
		return have == nil && want == nil
	}
	if hs, ok := have.(string); ok {
		ws, ok := want.(string)
		return ok && strings.EqualFold(hs, ws)
	}
	if hf, ok := toFloat(have); ok {
		wf, ok := toFloat(want)
		return ok && hf == wf
	}
	if ht, ok := have.(time.Time); ok {
		wt, ok := want.(time.Time)
		return ok && ht.Equal(wt)
	}
	if reflect.TypeOf(have) != reflect.TypeOf(want) || !reflect.TypeOf(have).Comparable() {
		return false
	}
	return have == want
}

func compareValues(coll *collate.Collator, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return coll.CompareString(as, bs)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
