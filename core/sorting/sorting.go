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

// Package sorting orders derived rows by the active sort keys.
package sorting

import (
	"slices"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/grouping"
	"github.com/navespenhw/tanstack-table-demo/core/query"
)

// sortableColumn holds a column reference and its sort direction
type sortableColumn struct {
	col        *columns.ColumnDef
	compare    columns.CompareFunc
	descending bool
}

// resolve keeps the sort keys naming sortable columns, in priority order.
func resolve(state query.SortState, registry *columns.Registry) []sortableColumn {
	cols := make([]sortableColumn, 0, len(state))
	for _, sc := range state {
		col := registry.Column(sc.ID)
		if col == nil || !col.CanSort() {
			continue
		}
		cols = append(cols, sortableColumn{col: col, compare: col.Comparator(), descending: sc.Desc})
	}
	return cols
}

// Sort returns a new ordering of rows. Keys are compared in priority
// order; rows equal under every key keep their input order. Every sibling
// list of a group tree is sorted independently: top-level rows, the child
// groups of each group and the leaves of the innermost groups. The input
// rows are not modified.
func Sort(rows []grouping.Row, state query.SortState, registry *columns.Registry) []grouping.Row {
	cols := resolve(state, registry)
	if len(cols) == 0 {
		return slices.Clone(rows)
	}
	return sortLevel(rows, cols)
}

func sortLevel(rows []grouping.Row, cols []sortableColumn) []grouping.Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b grouping.Row) int {
		return compareRows(a, b, cols)
	})
	for i, r := range out {
		if g, ok := r.(*grouping.GroupRow); ok {
			sorted := *g
			sorted.Children = sortLevel(g.Children, cols)
			out[i] = &sorted
		}
	}
	return out
}

// compareRows compares two rows using multi-column sort order
// Returns negative if a < b, zero if equal, positive if a > b
func compareRows(a, b grouping.Row, cols []sortableColumn) int {
	for _, sc := range cols {
		if cmp := compareValues(grouping.Value(a, sc.col), grouping.Value(b, sc.col), sc); cmp != 0 {
			return cmp
		}
	}
	return 0
}

// compareValues compares two cell values for one sort key, direction
// applied. First and Last undefined placement ignore the direction.
func compareValues(a, b any, sc sortableColumn) int {
	aUndef, bUndef := a == nil, b == nil
	if aUndef || bUndef {
		if aUndef && bUndef {
			return 0
		}
		switch sc.col.SortUndefined() {
		case columns.UndefinedFirst:
			if aUndef {
				return -1
			}
			return 1
		case columns.UndefinedLast:
			if aUndef {
				return 1
			}
			return -1
		}
		// Default: undefined is the smallest value
		cmp := 1
		if aUndef {
			cmp = -1
		}
		if sc.descending {
			return -cmp
		}
		return cmp
	}
	cmp := sc.compare(a, b)
	if sc.descending {
		return -cmp
	}
	return cmp
}
