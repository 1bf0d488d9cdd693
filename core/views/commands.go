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

package views

import (
	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/filters"
	"github.com/navespenhw/tanstack-table-demo/core/query"
)

// Command is a user intent processed by Controller.Dispatch.
type Command interface {
	// Name identifies the command in errors and logs.
	Name() string
	// apply mutates a private copy of the state.
	apply(s *query.ViewState, reg *columns.Registry) error
	// resetsPage reports whether the intent changes the derived rows, so
	// that auto page reset applies.
	resetsPage() bool
}

// SetFilter sets or clears the filter of one column. A nil value, a blank
// string or an empty selection clears it.
type SetFilter struct {
	ColumnID string
	Value    any
}

// ToggleSort cycles the sort of one column. Additive keeps the other sort
// keys; otherwise the column becomes the only key.
type ToggleSort struct {
	ColumnID string
	Additive bool
}

// ToggleGroup adds the column as innermost group, or removes it.
type ToggleGroup struct {
	ColumnID string
}

// SetPage selects a page. Indexes past the end are kept and clamped when
// the rows are derived.
type SetPage struct {
	Index int
}

// SetPageSize changes the page size and goes back to the first page.
type SetPageSize struct {
	Size int
}

// ToggleExpanded expands or collapses a group row.
type ToggleExpanded struct {
	RowID string
}

// ResetSorting clears every sort key.
type ResetSorting struct{}

// ResetFilters clears every column filter.
type ResetFilters struct{}

// ResetGrouping clears the grouping.
type ResetGrouping struct{}

func (SetFilter) Name() string      { return "setFilter" }
func (ToggleSort) Name() string     { return "toggleSort" }
func (ToggleGroup) Name() string    { return "toggleGroup" }
func (SetPage) Name() string        { return "setPage" }
func (SetPageSize) Name() string    { return "setPageSize" }
func (ToggleExpanded) Name() string { return "toggleExpanded" }
func (ResetSorting) Name() string   { return "resetSorting" }
func (ResetFilters) Name() string   { return "resetFilters" }
func (ResetGrouping) Name() string  { return "resetGrouping" }

func (SetFilter) resetsPage() bool      { return true }
func (ToggleSort) resetsPage() bool     { return true }
func (ToggleGroup) resetsPage() bool    { return true }
func (SetPage) resetsPage() bool        { return false }
func (SetPageSize) resetsPage() bool    { return false }
func (ToggleExpanded) resetsPage() bool { return false }
func (ResetSorting) resetsPage() bool   { return true }
func (ResetFilters) resetsPage() bool   { return true }
func (ResetGrouping) resetsPage() bool  { return true }

// lookup returns the column or an InvalidStateError naming the command.
func lookup(cmd Command, reg *columns.Registry, id string) (*columns.ColumnDef, error) {
	col := reg.Column(id)
	if col == nil {
		return nil, &InvalidStateError{Command: cmd.Name(), ColumnID: id, Reason: "unknown column"}
	}
	return col, nil
}

func (c SetFilter) apply(s *query.ViewState, reg *columns.Registry) error {
	col, err := lookup(c, reg, c.ColumnID)
	if err != nil {
		return err
	}
	if !col.CanFilter() {
		return &InvalidStateError{Command: c.Name(), ColumnID: c.ColumnID, Reason: "column cannot filter"}
	}
	value, ok := filters.Normalize(col.FilterKind(), c.Value)
	if !ok {
		delete(s.Filters, c.ColumnID)
		return nil
	}
	s.Filters[c.ColumnID] = value
	return nil
}

func (c ToggleSort) apply(s *query.ViewState, reg *columns.Registry) error {
	col, err := lookup(c, reg, c.ColumnID)
	if err != nil {
		return err
	}
	if !col.CanSort() {
		return &InvalidStateError{Command: c.Name(), ColumnID: c.ColumnID, Reason: "column cannot sort"}
	}
	s.Sorting = s.Sorting.Toggled(c.ColumnID, c.Additive, col.SortDescFirst())
	return nil
}

func (c ToggleGroup) apply(s *query.ViewState, reg *columns.Registry) error {
	col, err := lookup(c, reg, c.ColumnID)
	if err != nil {
		return err
	}
	if !col.CanGroup() {
		return &InvalidStateError{Command: c.Name(), ColumnID: c.ColumnID, Reason: "column cannot group"}
	}
	s.Grouping = s.Grouping.Toggled(c.ColumnID)
	// Row ids of the old tree mean nothing in the new one.
	s.Expanded = []string{}
	return nil
}

func (c SetPage) apply(s *query.ViewState, _ *columns.Registry) error {
	if c.Index < 0 {
		return &InvalidStateError{Command: c.Name(), Reason: "page index must not be negative"}
	}
	s.Pagination.PageIndex = c.Index
	return nil
}

func (c SetPageSize) apply(s *query.ViewState, _ *columns.Registry) error {
	if c.Size <= 0 {
		return &InvalidStateError{Command: c.Name(), Reason: "page size must be positive"}
	}
	s.Pagination.PageSize = c.Size
	s.Pagination.PageIndex = 0
	return nil
}

func (c ToggleExpanded) apply(s *query.ViewState, _ *columns.Registry) error {
	if c.RowID == "" {
		return &InvalidStateError{Command: c.Name(), Reason: "row id is required"}
	}
	s.Expanded = s.ExpandedToggled(c.RowID)
	return nil
}

func (ResetSorting) apply(s *query.ViewState, _ *columns.Registry) error {
	s.Sorting = query.SortState{}
	return nil
}

func (ResetFilters) apply(s *query.ViewState, _ *columns.Registry) error {
	s.Filters = query.FilterState{}
	return nil
}

func (ResetGrouping) apply(s *query.ViewState, _ *columns.Registry) error {
	s.Grouping = query.GroupingState{}
	s.Expanded = []string{}
	return nil
}

// Validate checks a complete view state against the registry: every
// referenced column must exist and support the capability it is used
// for, ids must not repeat and pagination must be in range.
func Validate(s query.ViewState, reg *columns.Registry) error {
	const name = "validate"
	seen := map[string]bool{}
	for _, sc := range s.Sorting {
		col := reg.Column(sc.ID)
		switch {
		case col == nil:
			return &InvalidStateError{Command: name, ColumnID: sc.ID, Reason: "unknown sort column"}
		case !col.CanSort():
			return &InvalidStateError{Command: name, ColumnID: sc.ID, Reason: "column cannot sort"}
		case seen[sc.ID]:
			return &InvalidStateError{Command: name, ColumnID: sc.ID, Reason: "column sorted twice"}
		}
		seen[sc.ID] = true
	}
	for _, id := range s.Filters.FilteredColumns() {
		col := reg.Column(id)
		if col == nil {
			return &InvalidStateError{Command: name, ColumnID: id, Reason: "unknown filter column"}
		}
		if !col.CanFilter() {
			return &InvalidStateError{Command: name, ColumnID: id, Reason: "column cannot filter"}
		}
	}
	clear(seen)
	for _, id := range s.Grouping {
		col := reg.Column(id)
		switch {
		case col == nil:
			return &InvalidStateError{Command: name, ColumnID: id, Reason: "unknown group column"}
		case !col.CanGroup():
			return &InvalidStateError{Command: name, ColumnID: id, Reason: "column cannot group"}
		case seen[id]:
			return &InvalidStateError{Command: name, ColumnID: id, Reason: "column grouped twice"}
		}
		seen[id] = true
	}
	if s.Pagination.PageIndex < 0 {
		return &InvalidStateError{Command: name, Reason: "page index must not be negative"}
	}
	if s.Pagination.PageSize <= 0 {
		return &InvalidStateError{Command: name, Reason: "page size must be positive"}
	}
	return nil
}
