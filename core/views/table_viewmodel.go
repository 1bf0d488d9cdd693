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
	"fmt"
	"strconv"
	"strings"

	"github.com/google/safehtml"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/filters"
	"github.com/navespenhw/tanstack-table-demo/core/grouping"
	"github.com/navespenhw/tanstack-table-demo/core/query"
)

// PageSizes are the page sizes offered by the page size selector.
var PageSizes = []int{10, 20, 30, 40, 50}

// MaxTextOptions caps the suggestions listed for text filters.
const MaxTextOptions = 200

// CellKind tells renderers how a cell is to be shown.
type CellKind string

const (
	// CellGrouped is the cell of a group row in the column it groups by.
	CellGrouped CellKind = "grouped"
	// CellAggregated is any other cell of a group row.
	CellAggregated CellKind = "aggregated"
	// CellPlaceholder is a leaf cell in a grouped column; it stays empty.
	CellPlaceholder CellKind = "placeholder"
	// CellPlain is an ordinary leaf cell.
	CellPlain CellKind = "plain"
)

// TableViewModel contains the derived view formatted for template consumption
type TableViewModel struct {
	Title   string            `json:"title"`
	Headers []HeaderViewModel `json:"headers"`
	Rows    []RowViewModel    `json:"rows"`

	IsGrouped bool             `json:"isGrouped"`
	Timings   map[string]int64 `json:"timingsMicros"`

	// Pagination info
	PageIndex   int              `json:"pageIndex"`
	PageCount   int              `json:"pageCount"`
	PageSize    int              `json:"pageSize"`
	PageSizes   []PageSizeOption `json:"pageSizes"`
	FirstRow    int              `json:"firstRow"`
	LastRow     int              `json:"lastRow"`
	CanPrevious bool             `json:"canPrevious"`
	CanNext     bool             `json:"canNext"`

	// Counts
	TopLevelRowCount   int  `json:"topLevelRowCount"`
	RowCount           int  `json:"rowCount"`
	UnfilteredRowCount int  `json:"unfilteredRowCount"`
	HiddenByFilters    int  `json:"hiddenByFilters"`
	ShowHiddenCount    bool `json:"showHiddenCount"`

	CurrentURL      safehtml.URL `json:"-"`
	FirstPageURL    safehtml.URL `json:"-"`
	PrevPageURL     safehtml.URL `json:"-"`
	NextPageURL     safehtml.URL `json:"-"`
	LastPageURL     safehtml.URL `json:"-"`
	ResetFiltersURL safehtml.URL `json:"-"`
	ResetSortingURL safehtml.URL `json:"-"`
}

// PageNumber is the one-based page index shown to users.
func (vm *TableViewModel) PageNumber() int {
	return vm.PageIndex + 1
}

// PageSizeOption is one entry of the page size selector.
type PageSizeOption struct {
	Size     int          `json:"size"`
	Selected bool         `json:"selected"`
	URL      safehtml.URL `json:"-"`
}

// HeaderViewModel is the derived state of one column header.
type HeaderViewModel struct {
	ID        string `json:"id"`
	Header    string `json:"header"`
	TextAlign string `json:"textAlign,omitempty"`

	CanSort   bool `json:"canSort"`
	CanFilter bool `json:"canFilter"`
	CanGroup  bool `json:"canGroup"`

	SortDirection string `json:"sortDirection,omitempty"` // "asc", "desc" or empty
	AriaSort      string `json:"ariaSort"`
	SortIndex     int    `json:"sortIndex,omitempty"` // 1-based priority when several columns sort
	IsGrouped     bool   `json:"isGrouped"`
	GroupIndex    int    `json:"groupIndex,omitempty"` // 1-based nesting level

	FilterKind  string        `json:"filterKind,omitempty"`
	FilterValue string        `json:"filterValue,omitempty"`
	IsFiltered  bool          `json:"isFiltered"`
	FacetPolicy string        `json:"facetPolicy,omitempty"`
	FacetCount  int           `json:"facetCount,omitempty"`
	Options     []FacetOption `json:"options,omitempty"`

	SortURL        safehtml.URL `json:"-"`
	MultiSortURL   safehtml.URL `json:"-"`
	GroupURL       safehtml.URL `json:"-"`
	ClearFilterURL safehtml.URL `json:"-"`

	// FilterParam and FormFields drive the GET form of a text filter.
	FilterParam safehtml.Identifier `json:"-"`
	FormFields  []FormField         `json:"-"`
}

// FormField is a hidden input carrying the rest of the view state.
type FormField struct {
	Name  safehtml.Identifier
	Value string
}

// FacetOption is one value offered by a filter control.
type FacetOption struct {
	Value    string       `json:"value"`
	Label    string       `json:"label"`
	Count    int          `json:"count"`
	Selected bool         `json:"selected"`
	URL      safehtml.URL `json:"-"`
}

// RowViewModel is one displayed row.
type RowViewModel struct {
	ID          string          `json:"id"`
	Depth       int             `json:"depth"`
	IsGroup     bool            `json:"isGroup"`
	IsExpanded  bool            `json:"isExpanded"`
	LeafCount   int             `json:"leafCount"`
	SubRowCount int             `json:"subRowCount"`
	Cells       []CellViewModel `json:"cells"`
	ExpandURL   safehtml.URL    `json:"-"`
}

// CellViewModel is one displayed cell.
type CellViewModel struct {
	ColumnID  string   `json:"columnId"`
	Kind      CellKind `json:"kind"`
	Text      string   `json:"text"`
	TextAlign string   `json:"textAlign,omitempty"`
}

// ViewModel builds the view model of the current state and result. Links
// point at path with the view state encoded in the query string.
func (c *Controller) ViewModel(path string) *TableViewModel {
	c.mu.Lock()
	state := c.state.Clone()
	result := c.result
	c.mu.Unlock()
	return BuildViewModel(c.table.Name(), c.registry, state, result, path)
}

// BuildViewModel turns a pipeline result into a TableViewModel.
func BuildViewModel(title string, reg *columns.Registry, state query.ViewState, result *Result, path string) *TableViewModel {
	q := query.FromState(path, state)
	page := result.Page

	vm := &TableViewModel{
		Title:              title,
		IsGrouped:          len(state.Grouping) > 0,
		PageIndex:          page.PageIndex,
		PageCount:          page.PageCount,
		PageSize:           page.PageSize,
		FirstRow:           page.FirstRow(),
		LastRow:            page.LastRow(),
		CanPrevious:        page.CanPreviousPage(),
		CanNext:            page.CanNextPage(),
		TopLevelRowCount:   page.TotalRowCount,
		RowCount:           result.RowCount,
		UnfilteredRowCount: result.UnfilteredRowCount,
		HiddenByFilters:    result.HiddenByFilters(),
		Timings: map[string]int64{
			"filter":   result.Timings.Filter.Microseconds(),
			"facets":   result.Timings.Facets.Microseconds(),
			"group":    result.Timings.Group.Microseconds(),
			"sort":     result.Timings.Sort.Microseconds(),
			"paginate": result.Timings.Paginate.Microseconds(),
		},
		CurrentURL:      q.ToSafeURL(),
		FirstPageURL:    q.WithPage(0),
		PrevPageURL:     q.WithPage(page.PageIndex - 1),
		NextPageURL:     q.WithPage(page.PageIndex + 1),
		LastPageURL:     q.WithPage(page.PageCount - 1),
		ResetFiltersURL: withState(q, func(s *query.ViewState) { s.Filters = query.FilterState{} }),
		ResetSortingURL: withState(q, func(s *query.ViewState) { s.Sorting = query.SortState{} }),
	}
	// Hidden rows are only meaningful next to a flat row count.
	vm.ShowHiddenCount = !vm.IsGrouped && vm.HiddenByFilters > 0

	for _, size := range PageSizes {
		vm.PageSizes = append(vm.PageSizes, PageSizeOption{
			Size:     size,
			Selected: size == page.PageSize,
			URL:      q.WithPageSize(size),
		})
	}

	ordered := orderColumns(reg, state.Grouping)
	for _, col := range ordered {
		vm.Headers = append(vm.Headers, buildHeader(col, state, result.Facets[col.ID()], q))
	}

	expand := func(g *grouping.GroupRow) bool { return state.IsExpanded(g.ID()) }
	grouping.Walk(page.Rows, expand, func(r grouping.Row) {
		vm.Rows = append(vm.Rows, buildRow(r, ordered, state, q))
	})
	return vm
}

// orderColumns puts grouped columns first, in grouping order.
func orderColumns(reg *columns.Registry, g query.GroupingState) []*columns.ColumnDef {
	ids := make([]string, len(reg.Columns()))
	for i, col := range reg.Columns() {
		ids[i] = col.ID()
	}
	ordered := make([]*columns.ColumnDef, 0, len(ids))
	for _, id := range g.OrderColumns(ids) {
		ordered = append(ordered, reg.Column(id))
	}
	return ordered
}

func withState(q *query.Query, mutate func(*query.ViewState)) safehtml.URL {
	next := q.Clone()
	mutate(&next.State)
	return next.ToSafeURL()
}

func buildHeader(col *columns.ColumnDef, state query.ViewState, facets *filters.FacetIndex, q *query.Query) HeaderViewModel {
	h := HeaderViewModel{
		ID:        col.ID(),
		Header:    col.Header(),
		TextAlign: col.Meta("textAlign"),
		CanSort:   col.CanSort(),
		CanFilter: col.CanFilter(),
		CanGroup:  col.CanGroup(),
		AriaSort:  "none",
	}

	if desc, sorted := state.Sorting.Direction(col.ID()); sorted {
		h.SortDirection = "asc"
		h.AriaSort = "ascending"
		if desc {
			h.SortDirection = "desc"
			h.AriaSort = "descending"
		}
		if len(state.Sorting) > 1 {
			h.SortIndex = state.Sorting.Index(col.ID()) + 1
		}
	}
	if h.CanSort {
		h.SortURL = q.WithSortToggled(col.ID(), false, col.SortDescFirst())
		h.MultiSortURL = q.WithSortToggled(col.ID(), true, col.SortDescFirst())
	}

	for i, id := range state.Grouping {
		if id == col.ID() {
			h.IsGrouped = true
			h.GroupIndex = i + 1
		}
	}
	if h.CanGroup {
		h.GroupURL = q.WithGroupToggled(col.ID())
	}

	if !h.CanFilter {
		return h
	}
	h.FilterKind = col.FilterKind().String()
	h.FacetPolicy = col.FacetPolicy().String()
	h.ClearFilterURL = q.WithoutFilter(col.ID())
	if !col.FilterKind().IsSelect() {
		h.FilterParam = fieldName(query.FilterParam(col.ID()))
		for _, f := range q.FormFields(col.ID()) {
			h.FormFields = append(h.FormFields, FormField{Name: fieldName(f.Name), Value: f.Value})
		}
	}
	value, filtered := state.Filters[col.ID()]
	h.IsFiltered = filtered
	if filtered {
		h.FilterValue = filterText(col, value)
	}
	if facets != nil {
		h.FacetCount = facets.Len()
		h.Options = buildOptions(col, facets, q)
	}
	return h
}

// fieldName returns a query parameter name as an identifier for a name
// attribute. Filter parameter names carry escaped column ids; the others
// are fixed.
func fieldName(name string) safehtml.Identifier {
	prefix, column, _ := strings.Cut(name, "-")
	switch prefix {
	case "f":
		return safehtml.IdentifierFromConstantPrefix("f", column)
	case "s":
		return safehtml.IdentifierFromConstantPrefix("s", column)
	}
	switch name {
	case "sort":
		return safehtml.IdentifierFromConstant("sort")
	case "grouped":
		return safehtml.IdentifierFromConstant("grouped")
	case "page":
		return safehtml.IdentifierFromConstant("page")
	case "size":
		return safehtml.IdentifierFromConstant("size")
	case "expanded":
		return safehtml.IdentifierFromConstant("expanded")
	}
	panic(fmt.Sprintf("views: unknown query parameter %q", name))
}

func filterText(col *columns.ColumnDef, value any) string {
	if !col.FilterKind().IsSelect() {
		if s, ok := value.(string); ok {
			return s
		}
		return columns.FormatValue(value)
	}
	selected := filters.Selection(value)
	labels := make([]string, len(selected))
	for i, v := range selected {
		labels[i] = col.Render(v)
	}
	return strings.Join(labels, ", ")
}

func buildOptions(col *columns.ColumnDef, facets *filters.FacetIndex, q *query.Query) []FacetOption {
	entries := facets.Sorted()
	isSelect := col.FilterKind().IsSelect()
	if !isSelect && len(entries) > MaxTextOptions {
		entries = entries[:MaxTextOptions]
	}
	options := make([]FacetOption, 0, len(entries))
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		value := columns.FormatValue(e.Value)
		opt := FacetOption{
			Value: value,
			Label: col.Render(e.Value),
			Count: e.Count,
		}
		if isSelect {
			opt.Selected = q.IsSelected(col.ID(), value)
			opt.URL = q.WithSelectionToggled(col.ID(), value)
		} else {
			opt.URL = q.WithFilter(col.ID(), strconv.Quote(value))
		}
		options = append(options, opt)
	}
	return options
}

func buildRow(r grouping.Row, ordered []*columns.ColumnDef, state query.ViewState, q *query.Query) RowViewModel {
	row := RowViewModel{
		ID:        r.ID(),
		Depth:     r.Depth(),
		LeafCount: r.LeafCount(),
	}
	g, isGroup := r.(*grouping.GroupRow)
	if isGroup {
		row.IsGroup = true
		row.IsExpanded = state.IsExpanded(g.ID())
		row.SubRowCount = len(g.Children)
		row.ExpandURL = q.WithExpandedToggled(g.ID())
	}

	for _, col := range ordered {
		cell := CellViewModel{ColumnID: col.ID(), TextAlign: col.Meta("textAlign")}
		switch {
		case isGroup && g.ColumnID == col.ID():
			cell.Kind = CellGrouped
			cell.Text = col.Render(g.GroupValue) + " (" + strconv.Itoa(g.LeafCount()) + ")"
		case state.Grouping.Contains(col.ID()):
			cell.Kind = CellPlaceholder
		case isGroup:
			cell.Kind = CellAggregated
			if col.AggregationFn() != columns.AggNone {
				cell.Text = col.RenderAggregated(grouping.Value(g, col))
			}
		default:
			cell.Kind = CellPlain
			cell.Text = col.Render(grouping.Value(r, col))
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}
