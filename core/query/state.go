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

package query

import (
	"maps"
	"slices"
)

// DefaultPageSize is used when no valid page size is given.
const DefaultPageSize = 10

// SortColumn is one sort key.
type SortColumn struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// SortState is the ordered list of sort keys, highest priority first.
type SortState []SortColumn

// FilterState maps a column id to its filter value: a string for text
// filters, a []any of selected values for select filters. A missing entry
// means the column is not filtered.
type FilterState map[string]any

// GroupingState lists the grouped column ids, outermost first.
type GroupingState []string

// PaginationState selects one page of the derived rows.
type PaginationState struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// ViewState is everything the user can change about a view.
type ViewState struct {
	Sorting    SortState       `json:"sorting"`
	Filters    FilterState     `json:"filters"`
	Grouping   GroupingState   `json:"grouping"`
	Pagination PaginationState `json:"pagination"`
	// Expanded lists the ids of group rows showing their children.
	Expanded []string `json:"expanded"`
}

// NewViewState returns an empty state showing the first page.
func NewViewState() ViewState {
	return ViewState{
		Sorting:    SortState{},
		Filters:    FilterState{},
		Grouping:   GroupingState{},
		Pagination: PaginationState{PageSize: DefaultPageSize},
		Expanded:   []string{},
	}
}

// Clone creates a deep copy of the state. Selection slices are copied too.
func (v ViewState) Clone() ViewState {
	clone := ViewState{
		Sorting:    slices.Clone(v.Sorting),
		Filters:    make(FilterState, len(v.Filters)),
		Grouping:   slices.Clone(v.Grouping),
		Pagination: v.Pagination,
		Expanded:   slices.Clone(v.Expanded),
	}
	if clone.Expanded == nil {
		clone.Expanded = []string{}
	}
	if clone.Sorting == nil {
		clone.Sorting = SortState{}
	}
	if clone.Grouping == nil {
		clone.Grouping = GroupingState{}
	}
	for id, value := range v.Filters {
		if values, ok := value.([]any); ok {
			value = slices.Clone(values)
		}
		clone.Filters[id] = value
	}
	return clone
}

// IsExpanded reports whether the group row with the given id is expanded.
func (v ViewState) IsExpanded(rowID string) bool {
	return slices.Contains(v.Expanded, rowID)
}

// ExpandedToggled returns the expanded list with rowID toggled.
func (v ViewState) ExpandedToggled(rowID string) []string {
	if i := slices.Index(v.Expanded, rowID); i >= 0 {
		return slices.Delete(slices.Clone(v.Expanded), i, i+1)
	}
	return append(slices.Clone(v.Expanded), rowID)
}

// FilteredColumns returns the ids of filtered columns, sorted.
func (f FilterState) FilteredColumns() []string {
	return slices.Sorted(maps.Keys(f))
}

// Index returns the priority of column id in the sort, or -1.
func (s SortState) Index(id string) int {
	return slices.IndexFunc(s, func(c SortColumn) bool { return c.ID == id })
}

// Direction reports whether column id is sorted and in which direction.
func (s SortState) Direction(id string) (desc bool, sorted bool) {
	if i := s.Index(id); i >= 0 {
		return s[i].Desc, true
	}
	return false, false
}

// Toggled returns the sort state after the user clicks column id. The
// column cycles none, asc, desc, none (desc, asc, none when descFirst).
// A non-additive toggle replaces every other key; an additive one keeps
// them and updates, appends or removes only this column.
func (s SortState) Toggled(id string, additive bool, descFirst bool) SortState {
	desc, sorted := s.Direction(id)
	var next *SortColumn
	switch {
	case !sorted:
		next = &SortColumn{ID: id, Desc: descFirst}
	case desc != descFirst:
		// second click, the column has been in both directions: remove it
		next = nil
	default:
		next = &SortColumn{ID: id, Desc: !desc}
	}

	if !additive {
		if next == nil {
			return SortState{}
		}
		return SortState{*next}
	}

	out := make(SortState, 0, len(s)+1)
	for _, c := range s {
		if c.ID != id {
			out = append(out, c)
		} else if next != nil {
			out = append(out, *next)
		}
	}
	if !sorted {
		out = append(out, *next)
	}
	return out
}

// Contains reports whether column id is grouped.
func (g GroupingState) Contains(id string) bool {
	return slices.Contains(g, id)
}

// Toggled returns the grouping with column id removed if it was grouped,
// or appended as the innermost group otherwise.
func (g GroupingState) Toggled(id string) GroupingState {
	if g.Contains(id) {
		out := make(GroupingState, 0, len(g))
		for _, c := range g {
			if c != id {
				out = append(out, c)
			}
		}
		return out
	}
	out := slices.Clone(g)
	return append(out, id)
}

// OrderColumns moves grouped columns to the front, in grouping order,
// keeping the relative order of the remaining columns.
func (g GroupingState) OrderColumns(ids []string) []string {
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range g {
		if present[id] {
			out = append(out, id)
		}
	}
	for _, id := range ids {
		if !g.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
