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

// Package query holds the view state and its URL encoding.
package query

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/google/safehtml"
)

// Query represents the parsed state of a table view URL.
//
// URL format:
//
//	sort=age:desc,name     sort keys, highest priority first
//	grouped=species,breed  grouped columns, outermost first
//	f-name='rex'           text filter
//	s-species=dog&s-species=cat
//	                       select filter, one parameter per selected value
//	page=2&size=25         zero-based page index and page size
//	expanded=type:dog      expanded group row, one parameter per row
//
// Column ids in filter parameter names are escaped so that every name is
// a valid HTML identifier: bytes outside [a-zA-Z0-9-] become _XX in hex,
// so a column "first name" is filtered by f-first_20name.
type Query struct {
	// Base path (e.g., "/")
	Path string

	State ViewState
}

// NewQuery creates a Query from a URL.
func NewQuery(u *url.URL) *Query {
	q := &Query{
		Path:  u.Path,
		State: NewViewState(),
	}
	params := u.Query()

	if sortStr := params.Get("sort"); sortStr != "" {
		for _, part := range strings.Split(sortStr, ",") {
			id, dir, _ := strings.Cut(part, ":")
			if id == "" || q.State.Sorting.Index(id) >= 0 {
				continue
			}
			q.State.Sorting = append(q.State.Sorting, SortColumn{ID: id, Desc: dir == "desc"})
		}
	}

	if groupedStr := params.Get("grouped"); groupedStr != "" {
		for _, id := range strings.Split(groupedStr, ",") {
			if id != "" && !q.State.Grouping.Contains(id) {
				q.State.Grouping = append(q.State.Grouping, id)
			}
		}
	}

	// Text filters hold the last value given, select filters every value.
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		prefix, escaped, ok := strings.Cut(key, "-")
		if !ok {
			continue
		}
		column, ok := unescapeColumn(escaped)
		if !ok {
			continue
		}
		switch prefix {
		case textFilterPrefix:
			q.State.Filters[column] = values[len(values)-1]
		case selectFilterPrefix:
			selected := make([]any, len(values))
			for i, v := range values {
				selected[i] = v
			}
			q.State.Filters[column] = selected
		}
	}

	for _, id := range params["expanded"] {
		if id != "" && !q.State.IsExpanded(id) {
			q.State.Expanded = append(q.State.Expanded, id)
		}
	}

	if page, err := strconv.Atoi(params.Get("page")); err == nil && page >= 0 {
		q.State.Pagination.PageIndex = page
	}
	if size, err := strconv.Atoi(params.Get("size")); err == nil && size > 0 {
		q.State.Pagination.PageSize = size
	}
	return q
}

// FromState creates a Query for the given path and state.
func FromState(path string, state ViewState) *Query {
	return &Query{Path: path, State: state.Clone()}
}

// Clone creates a deep copy of the Query.
func (q *Query) Clone() *Query {
	return &Query{Path: q.Path, State: q.State.Clone()}
}

// ToURL converts the Query back to a URL string.
func (q *Query) ToURL() string {
	u := &url.URL{Path: q.Path, RawQuery: q.Values().Encode()}
	return u.String()
}

// Values encodes the view state as query parameters.
func (q *Query) Values() url.Values {
	params := url.Values{}

	if len(q.State.Sorting) > 0 {
		parts := make([]string, len(q.State.Sorting))
		for i, c := range q.State.Sorting {
			parts[i] = c.ID
			if c.Desc {
				parts[i] += ":desc"
			}
		}
		params.Set("sort", strings.Join(parts, ","))
	}

	if len(q.State.Grouping) > 0 {
		params.Set("grouped", strings.Join(q.State.Grouping, ","))
	}

	for column, value := range q.State.Filters {
		if selected, ok := value.([]any); ok {
			key := SelectParam(column)
			for _, v := range selected {
				params.Add(key, filterString(v))
			}
			continue
		}
		if s := filterString(value); s != "" {
			params.Set(FilterParam(column), s)
		}
	}

	for _, id := range q.State.Expanded {
		params.Add("expanded", id)
	}

	if q.State.Pagination.PageIndex > 0 {
		params.Set("page", strconv.Itoa(q.State.Pagination.PageIndex))
	}
	size := q.State.Pagination.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	params.Set("size", strconv.Itoa(size))
	return params
}

// Field is one name/value pair of an HTML form.
type Field struct {
	Name  string
	Value string
}

// FormFields returns the state as hidden form fields for a GET form that
// sets the filter of column. The column's current filter and the page
// index are left out, so submitting the form replaces the filter and
// returns to the first page.
func (q *Query) FormFields(column string) []Field {
	next := q.Clone()
	delete(next.State.Filters, column)
	next.State.Pagination.PageIndex = 0
	params := next.Values()
	var fields []Field
	for _, name := range slices.Sorted(maps.Keys(params)) {
		for _, v := range params[name] {
			fields = append(fields, Field{Name: name, Value: v})
		}
	}
	return fields
}

const (
	textFilterPrefix   = "f"
	selectFilterPrefix = "s"
)

// FilterParam returns the query parameter name carrying a column's text
// filter.
func FilterParam(column string) string {
	return textFilterPrefix + "-" + EscapeColumn(column)
}

// SelectParam returns the query parameter name carrying a column's
// selected values.
func SelectParam(column string) string {
	return selectFilterPrefix + "-" + EscapeColumn(column)
}

const hexDigits = "0123456789ABCDEF"

// EscapeColumn encodes a column id so that it only holds [-_a-zA-Z0-9].
func EscapeColumn(column string) string {
	var b strings.Builder
	for i := 0; i < len(column); i++ {
		c := column[i]
		if c == '-' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('_')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

func unescapeColumn(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", false
		}
		n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", false
		}
		b.WriteByte(byte(n))
		i += 2
	}
	return b.String(), true
}

func filterString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// ToSafeURL converts the Query to a safehtml.URL.
func (q *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(q.ToURL())
}

// WithSortToggled returns a URL with the column's sort toggled.
func (q *Query) WithSortToggled(column string, additive bool, descFirst bool) safehtml.URL {
	next := q.Clone()
	next.State.Sorting = q.State.Sorting.Toggled(column, additive, descFirst)
	return next.ToSafeURL()
}

// WithGroupToggled returns a URL with the column added to or removed from
// the grouping.
func (q *Query) WithGroupToggled(column string) safehtml.URL {
	next := q.Clone()
	next.State.Grouping = q.State.Grouping.Toggled(column)
	return next.ToSafeURL()
}

// WithFilter returns a URL with the column's filter replaced.
func (q *Query) WithFilter(column string, value any) safehtml.URL {
	next := q.Clone()
	next.State.Filters[column] = value
	return next.ToSafeURL()
}

// WithoutFilter returns a URL with the column's filter cleared.
func (q *Query) WithoutFilter(column string) safehtml.URL {
	next := q.Clone()
	delete(next.State.Filters, column)
	return next.ToSafeURL()
}

// WithSelectionToggled returns a URL with value added to or removed from
// the column's selected set.
func (q *Query) WithSelectionToggled(column string, value string) safehtml.URL {
	next := q.Clone()
	var selected []any
	switch v := q.State.Filters[column].(type) {
	case []any:
		selected = slices.Clone(v)
	case string:
		selected = []any{v}
	}
	if i := slices.IndexFunc(selected, func(s any) bool { return filterString(s) == value }); i >= 0 {
		selected = slices.Delete(selected, i, i+1)
	} else {
		selected = append(selected, value)
	}
	if len(selected) == 0 {
		delete(next.State.Filters, column)
	} else {
		next.State.Filters[column] = selected
	}
	return next.ToSafeURL()
}

// IsSelected reports whether value is part of the column's select filter.
func (q *Query) IsSelected(column string, value string) bool {
	switch v := q.State.Filters[column].(type) {
	case []any:
		return slices.ContainsFunc(v, func(s any) bool { return filterString(s) == value })
	case string:
		return v == value
	}
	return false
}

// WithPage returns a URL showing another page.
func (q *Query) WithPage(index int) safehtml.URL {
	next := q.Clone()
	next.State.Pagination.PageIndex = max(index, 0)
	return next.ToSafeURL()
}

// WithPageSize returns a URL with another page size, back on the first page.
func (q *Query) WithPageSize(size int) safehtml.URL {
	next := q.Clone()
	next.State.Pagination.PageSize = size
	next.State.Pagination.PageIndex = 0
	return next.ToSafeURL()
}

// IsColumnGrouped checks if a column is in the grouped columns list.
func (q *Query) IsColumnGrouped(column string) bool {
	return q.State.Grouping.Contains(column)
}

// WithExpandedToggled returns a URL with the group row expanded or collapsed.
func (q *Query) WithExpandedToggled(rowID string) safehtml.URL {
	next := q.Clone()
	next.State.Expanded = q.State.ExpandedToggled(rowID)
	return next.ToSafeURL()
}
