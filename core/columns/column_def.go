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

package columns

import (
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// Accessor reads a column value from a record. A nil result means undefined.
type Accessor func(tables.Record) any

// CellRenderer turns a cell value into display text.
type CellRenderer func(value any) string

// FilterFunc decides whether a cell value passes the column's filter value.
type FilterFunc func(value any, filterValue any) bool

// CompareFunc orders two defined cell values, returning -1, 0 or 1.
type CompareFunc func(a, b any) int

// Reducer folds the values of every leaf under a group into one aggregate.
type Reducer func(values []any) any

// FilterKind selects the filter control and predicate of a column.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterText
	FilterSelect
	FilterMultiSelect
	FilterCustom
)

func (k FilterKind) String() string {
	switch k {
	case FilterText:
		return "text"
	case FilterSelect:
		return "select"
	case FilterMultiSelect:
		return "select-multi"
	case FilterCustom:
		return "custom"
	default:
		return "none"
	}
}

// IsSelect reports whether the filter value is a set of selected options.
func (k FilterKind) IsSelect() bool {
	return k == FilterSelect || k == FilterMultiSelect
}

// TextMatch controls how bare terms of a text filter are matched.
type TextMatch int

const (
	// TextMatchExact matches bare terms by trimmed, case-insensitive equality.
	TextMatchExact TextMatch = iota
	// TextMatchContains matches bare terms as case-insensitive substrings.
	TextMatchContains
)

// FacetPolicy selects which row set a column's facet index is derived from.
type FacetPolicy int

const (
	// FacetReachable derives options from rows passing every other column filter.
	FacetReachable FacetPolicy = iota
	// FacetStable derives options once per record set, ignoring all filters.
	FacetStable
)

func (p FacetPolicy) String() string {
	if p == FacetStable {
		return "stable"
	}
	return "reachable"
}

// SortingFn selects the comparator used when sorting by a column.
type SortingFn int

const (
	SortBasic SortingFn = iota
	SortAlphanumeric
	SortAlphanumericCaseSensitive
	SortText
	SortTextCaseSensitive
	SortDatetime
	SortCustom
)

// UndefinedPlacement decides where rows with an undefined value sort.
type UndefinedPlacement int

const (
	// UndefinedDefault lets undefined take part in the comparator as the smallest value.
	UndefinedDefault UndefinedPlacement = iota
	// UndefinedFirst places undefined before every defined value in both directions.
	UndefinedFirst
	// UndefinedLast places undefined after every defined value in both directions.
	UndefinedLast
)

// AggregationFn selects the reduction computed for group rows.
type AggregationFn int

const (
	AggNone AggregationFn = iota
	AggSum
	AggMean
	AggUniqueCount
	AggCount
	AggMin
	AggMax
	AggMedian
	AggCustom
)

func (a AggregationFn) String() string {
	switch a {
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggUniqueCount:
		return "uniqueCount"
	case AggCount:
		return "count"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggMedian:
		return "median"
	case AggCustom:
		return "custom"
	default:
		return "none"
	}
}

// ColumnDef is the declarative description of one column. It is built with
// NewColumn or NewDisplayColumn and is read-only once declared.
type ColumnDef struct {
	id     string // must not contain any of the following characters: & = : ,
	header string

	accessor Accessor

	sortable   bool
	filterable bool
	groupable  bool

	filterKind  FilterKind
	filterFn    FilterFunc
	textMatch   TextMatch
	facetPolicy FacetPolicy

	sortingFn     SortingFn
	sortCompare   CompareFunc
	sortUndefined UndefinedPlacement
	sortDescFirst bool

	aggregationFn AggregationFn
	reducer       Reducer

	cell           CellRenderer
	aggregatedCell CellRenderer

	meta map[string]string
}

// Option configures a ColumnDef.
type Option func(*ColumnDef)

// NewColumn creates an accessor column reading the record field named id.
// Accessor columns are sortable and filterable by default, not groupable.
func NewColumn(id string, opts ...Option) *ColumnDef {
	c := &ColumnDef{
		id:         id,
		header:     id,
		accessor:   AccessorKey(id),
		sortable:   true,
		filterable: true,
		meta:       map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDisplayColumn creates a column without accessor, used for per-row
// controls. It cannot sort, filter, group or aggregate.
func NewDisplayColumn(id string, opts ...Option) *ColumnDef {
	c := &ColumnDef{
		id:   id,
		meta: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessorKey returns an accessor reading the given record field.
func AccessorKey(key string) Accessor {
	return func(r tables.Record) any {
		return r.Get(key)
	}
}

func WithHeader(header string) Option {
	return func(c *ColumnDef) { c.header = header }
}

func WithAccessor(fn Accessor) Option {
	return func(c *ColumnDef) { c.accessor = fn }
}

func WithAccessorKey(key string) Option {
	return func(c *ColumnDef) { c.accessor = AccessorKey(key) }
}

func WithSorting(enabled bool) Option {
	return func(c *ColumnDef) { c.sortable = enabled }
}

func WithFiltering(enabled bool) Option {
	return func(c *ColumnDef) { c.filterable = enabled }
}

func WithGrouping(enabled bool) Option {
	return func(c *ColumnDef) { c.groupable = enabled }
}

// WithFilter sets the filter kind; FilterCustom also needs WithFilterFn.
func WithFilter(kind FilterKind) Option {
	return func(c *ColumnDef) { c.filterKind = kind }
}

// WithFilterFn installs a custom predicate and switches the kind to FilterCustom.
func WithFilterFn(fn FilterFunc) Option {
	return func(c *ColumnDef) {
		c.filterKind = FilterCustom
		c.filterFn = fn
	}
}

func WithTextMatch(m TextMatch) Option {
	return func(c *ColumnDef) { c.textMatch = m }
}

func WithFacetPolicy(p FacetPolicy) Option {
	return func(c *ColumnDef) { c.facetPolicy = p }
}

func WithSortingFn(fn SortingFn) Option {
	return func(c *ColumnDef) { c.sortingFn = fn }
}

// WithSortCompare installs a custom comparator and switches to SortCustom.
func WithSortCompare(cmp CompareFunc) Option {
	return func(c *ColumnDef) {
		c.sortingFn = SortCustom
		c.sortCompare = cmp
	}
}

func WithSortUndefined(p UndefinedPlacement) Option {
	return func(c *ColumnDef) { c.sortUndefined = p }
}

// WithSortDescFirst makes the first sort toggle descending.
func WithSortDescFirst() Option {
	return func(c *ColumnDef) { c.sortDescFirst = true }
}

func WithAggregation(fn AggregationFn) Option {
	return func(c *ColumnDef) { c.aggregationFn = fn }
}

// WithReducer installs a custom aggregate and switches to AggCustom.
func WithReducer(r Reducer) Option {
	return func(c *ColumnDef) {
		c.aggregationFn = AggCustom
		c.reducer = r
	}
}

func WithCell(r CellRenderer) Option {
	return func(c *ColumnDef) { c.cell = r }
}

func WithAggregatedCell(r CellRenderer) Option {
	return func(c *ColumnDef) { c.aggregatedCell = r }
}

func WithMeta(key, value string) Option {
	return func(c *ColumnDef) { c.meta[key] = value }
}

func (c *ColumnDef) ID() string {
	return c.id
}

func (c *ColumnDef) Header() string {
	return c.header
}

// IsDisplay reports whether the column has no accessor.
func (c *ColumnDef) IsDisplay() bool {
	return c.accessor == nil
}

// Value reads the column value from r; display columns always yield nil.
func (c *ColumnDef) Value(r tables.Record) any {
	if c.accessor == nil {
		return nil
	}
	return c.accessor(r)
}

func (c *ColumnDef) CanSort() bool {
	return c.sortable && c.accessor != nil
}

func (c *ColumnDef) CanFilter() bool {
	return c.filterable && c.accessor != nil && c.filterKind != FilterNone
}

func (c *ColumnDef) CanGroup() bool {
	return c.groupable && c.accessor != nil
}

func (c *ColumnDef) FilterKind() FilterKind {
	return c.filterKind
}

func (c *ColumnDef) FilterFn() FilterFunc {
	return c.filterFn
}

func (c *ColumnDef) TextMatch() TextMatch {
	return c.textMatch
}

func (c *ColumnDef) FacetPolicy() FacetPolicy {
	return c.facetPolicy
}

func (c *ColumnDef) SortingFn() SortingFn {
	return c.sortingFn
}

func (c *ColumnDef) SortUndefined() UndefinedPlacement {
	return c.sortUndefined
}

func (c *ColumnDef) SortDescFirst() bool {
	return c.sortDescFirst
}

func (c *ColumnDef) AggregationFn() AggregationFn {
	return c.aggregationFn
}

func (c *ColumnDef) Reducer() Reducer {
	return c.reducer
}

// Meta returns a presentation hint such as "textAlign".
func (c *ColumnDef) Meta(key string) string {
	return c.meta[key]
}

// Comparator returns the comparison used for defined values of this column.
func (c *ColumnDef) Comparator() CompareFunc {
	switch c.sortingFn {
	case SortAlphanumeric:
		return CompareAlphanumeric
	case SortAlphanumericCaseSensitive:
		return CompareAlphanumericCaseSensitive
	case SortText:
		return CompareText
	case SortTextCaseSensitive:
		return CompareTextCaseSensitive
	case SortDatetime:
		return CompareDatetime
	case SortCustom:
		if c.sortCompare != nil {
			return c.sortCompare
		}
	}
	return Compare
}

// Render formats a leaf cell value.
func (c *ColumnDef) Render(value any) string {
	if c.cell != nil {
		return c.cell(value)
	}
	return FormatValue(value)
}

// RenderAggregated formats a group row's aggregate, falling back to the
// plain cell renderer when no aggregated renderer is declared.
func (c *ColumnDef) RenderAggregated(value any) string {
	if c.aggregatedCell != nil {
		return c.aggregatedCell(value)
	}
	return c.Render(value)
}
