// Package listview implements the sort, filter, and free-text search
// transforms applied to a collection before display. The composition order
// is fixed: sort, then filter, then search. Every stage is pure.
package listview

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction string

const (
	DirectionNone Direction = "none"
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// SortConfig names the field and direction of the active sort.
type SortConfig struct {
	Field     string
	Direction Direction
}

// NextSort returns the sort state after selecting field. Selecting the
// active field cycles none, asc, desc, none; selecting another field resets
// to ascending on it.
func NextSort(current SortConfig, field string) SortConfig {
	if current.Field != field {
		return SortConfig{Field: field, Direction: DirectionAsc}
	}
	switch current.Direction {
	case DirectionAsc:
		return SortConfig{Field: field, Direction: DirectionDesc}
	case DirectionDesc:
		return SortConfig{Field: field, Direction: DirectionNone}
	default:
		return SortConfig{Field: field, Direction: DirectionAsc}
	}
}

// Filters maps field names to the single accepted value per field. An item
// passes only if every entry matches (logical AND).
type Filters map[string]string

// Schema describes how a record type exposes its fields to the pipeline.
type Schema[T any] struct {
	// Value resolves a field by name; ok is false for unknown fields.
	Value func(item T, field string) (value any, ok bool)
	// Searchable lists the fields free-text search scans.
	Searchable []string
}

// Apply runs sort, filter, and search over items and returns a new slice.
// The input is never mutated.
func (s Schema[T]) Apply(items []T, sc SortConfig, filters Filters, term string) []T {
	out := make([]T, len(items))
	copy(out, items)
	out = s.sort(out, sc)
	out = s.filter(out, filters)
	out = s.search(out, term)
	return out
}

func (s Schema[T]) sort(items []T, sc SortConfig) []T {
	if sc.Field == "" || sc.Direction == DirectionNone || sc.Direction == "" {
		return items
	}
	// Collators are stateful, so build one per call rather than sharing.
	caseFold := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := s.Value(items[i], sc.Field)
		b, bok := s.Value(items[j], sc.Field)
		if !aok || !bok {
			return false
		}
		cmp := compareValues(caseFold, a, b)
		if sc.Direction == DirectionDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return items
}

// compareValues orders two field values: strings case-insensitively, other
// comparable kinds by their natural (case-sensitive) order.
func compareValues(caseFold *collate.Collator, a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return caseFold.CompareString(av, bv)
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case int:
		bv, _ := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func (s Schema[T]) filter(items []T, filters Filters) []T {
	if len(filters) == 0 {
		return items
	}
	out := items[:0]
	for _, item := range items {
		if s.passes(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

func (s Schema[T]) passes(item T, filters Filters) bool {
	for field, want := range filters {
		if want == "" {
			continue
		}
		value, ok := s.Value(item, field)
		if !ok || fmt.Sprint(value) != want {
			return false
		}
	}
	return true
}

func (s Schema[T]) search(items []T, term string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	out := items[:0]
	for _, item := range items {
		if s.matches(item, needle) {
			out = append(out, item)
		}
	}
	return out
}

func (s Schema[T]) matches(item T, needle string) bool {
	for _, field := range s.Searchable {
		value, ok := s.Value(item, field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(value)), needle) {
			return true
		}
	}
	return false
}
