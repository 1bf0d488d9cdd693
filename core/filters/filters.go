/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package filters implements the filter stage and the facet indexes that
// feed filter controls.
package filters

import (
	"reflect"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// Predicate decides whether one cell value passes a column filter.
type Predicate func(value any) bool

// Normalize prepares a filter value for storage in the filter state. The
// second result is false when the value means "no filter": nil, a blank
// string or an empty selection. Such entries are removed from the state
// instead of excluding rows.
func Normalize(kind columns.FilterKind, value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	if kind.IsSelect() {
		selected := Selection(value)
		if len(selected) == 0 {
			return nil, false
		}
		return selected, true
	}
	if v, ok := value.([]any); ok && len(v) == 0 {
		return nil, false
	}
	return value, true
}

// Selection converts a select filter value to a list of selected values.
// A scalar becomes a single-element selection.
func Selection(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	}
	if values, ok := sliceValues(value); ok {
		return values
	}
	return []any{value}
}

// sliceValues expands any slice except []byte into its elements.
func sliceValues(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// NewPredicate builds the predicate of col for the given filter value.
// It returns nil when the column cannot filter or the value means no filter.
func NewPredicate(col *columns.ColumnDef, filterValue any) Predicate {
	if col == nil || !col.CanFilter() {
		return nil
	}
	filterValue, ok := Normalize(col.FilterKind(), filterValue)
	if !ok {
		return nil
	}
	switch col.FilterKind() {
	case columns.FilterText:
		expr, isString := filterValue.(string)
		if !isString {
			expr = columns.FormatValue(filterValue)
		}
		match := col.TextMatch()
		return func(value any) bool {
			return Match(expr, columns.FormatValue(value), match)
		}
	case columns.FilterSelect, columns.FilterMultiSelect:
		selected := make(map[any]bool)
		// Selections read back from a URL are strings; they also match
		// non-string cells by display text.
		byText := make(map[string]bool)
		for _, v := range Selection(filterValue) {
			selected[columns.ValueKey(v)] = true
			if s, ok := v.(string); ok {
				byText[s] = true
			}
		}
		member := func(v any) bool {
			if selected[columns.ValueKey(v)] {
				return true
			}
			if _, isString := v.(string); !isString && v != nil && len(byText) > 0 {
				return byText[columns.FormatValue(v)]
			}
			return false
		}
		return func(value any) bool {
			// List-valued cells pass when any element is selected.
			if values, ok := sliceValues(value); ok {
				return slices.ContainsFunc(values, member)
			}
			return member(value)
		}
	case columns.FilterCustom:
		fn := col.FilterFn()
		return func(value any) bool {
			return fn(value, filterValue)
		}
	}
	return nil
}

type columnPredicate struct {
	col  *columns.ColumnDef
	pass Predicate
}

func compile(state query.FilterState, registry *columns.Registry) []columnPredicate {
	var preds []columnPredicate
	// Declaration order keeps evaluation deterministic.
	for _, col := range registry.Columns() {
		value, ok := state[col.ID()]
		if !ok {
			continue
		}
		if p := NewPredicate(col, value); p != nil {
			preds = append(preds, columnPredicate{col: col, pass: p})
		}
	}
	return preds
}

// Apply returns the records passing every column filter in state, in input
// order. Entries for unknown or non-filterable columns are ignored.
func Apply(records []tables.Record, state query.FilterState, registry *columns.Registry) []tables.Record {
	preds := compile(state, registry)
	out := make([]tables.Record, 0, len(records))
	for _, r := range records {
		if passes(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func passes(r tables.Record, preds []columnPredicate) bool {
	for _, p := range preds {
		if !p.pass(p.col.Value(r)) {
			return false
		}
	}
	return true
}

// Masks evaluates each active column filter separately and returns, per
// column id, the bitmap of record indices passing that filter alone.
func Masks(records []tables.Record, state query.FilterState, registry *columns.Registry) map[string]*roaring.Bitmap {
	preds := compile(state, registry)
	masks := make(map[string]*roaring.Bitmap, len(preds))
	for _, p := range preds {
		bm := roaring.New()
		for i, r := range records {
			if p.pass(p.col.Value(r)) {
				bm.Add(uint32(i))
			}
		}
		masks[p.col.ID()] = bm
	}
	return masks
}

// Combine intersects the masks of every column except the one named by
// except. The result covers [0, n) when no mask applies.
func Combine(masks map[string]*roaring.Bitmap, n int, except string) *roaring.Bitmap {
	out := roaring.New()
	out.AddRange(0, uint64(n))
	for id, bm := range masks {
		if id == except {
			continue
		}
		out.And(bm)
	}
	return out
}

// Indices lists the record indices held by bm in ascending order.
func Indices(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
