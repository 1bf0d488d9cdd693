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

// Package pagination slices derived rows into fixed-size pages.
package pagination

import (
	"github.com/navespenhw/tanstack-table-demo/core/grouping"
	"github.com/navespenhw/tanstack-table-demo/core/query"
)

// Page is one slice of the derived rows.
type Page struct {
	Rows []grouping.Row
	// PageIndex is the effective index after clamping.
	PageIndex     int
	PageSize      int
	PageCount     int
	TotalRowCount int
}

// PageSize returns size, or query.DefaultPageSize when size is not positive.
func PageSize(size int) int {
	if size <= 0 {
		return query.DefaultPageSize
	}
	return size
}

// PageCount returns the number of pages needed for total rows; there is
// always at least one page.
func PageCount(total, size int) int {
	size = PageSize(size)
	if total <= 0 {
		return 1
	}
	// total + size - 1 would overflow for sizes near math.MaxInt.
	count := total / size
	if total%size != 0 {
		count++
	}
	return count
}

// ClampIndex maps a requested page index to a valid one: negative indexes
// become 0 and indexes past the end become the last page.
func ClampIndex(index, total, size int) int {
	last := PageCount(total, size) - 1
	return max(0, min(index, last))
}

// Bounds returns the effective page index and the [start, end) range of
// row positions on that page.
func Bounds(total int, state query.PaginationState) (index, start, end int) {
	size := PageSize(state.PageSize)
	index = ClampIndex(state.PageIndex, total, size)
	start = min(index*size, total)
	end = start + min(size, total-start)
	return index, start, end
}

// Paginate returns the page of rows selected by state. It never fails: an
// out of range index is clamped to the nearest valid page.
func Paginate(rows []grouping.Row, state query.PaginationState) Page {
	index, start, end := Bounds(len(rows), state)
	return NewPage(rows[start:end], index, state.PageSize, len(rows))
}

// NewPage assembles a page from rows already cut to the page.
func NewPage(pageRows []grouping.Row, index, size, total int) Page {
	size = PageSize(size)
	out := make([]grouping.Row, len(pageRows))
	copy(out, pageRows)
	return Page{
		Rows:          out,
		PageIndex:     index,
		PageSize:      size,
		PageCount:     PageCount(total, size),
		TotalRowCount: total,
	}
}

// CanPreviousPage reports whether a page precedes p.
func (p Page) CanPreviousPage() bool {
	return p.PageIndex > 0
}

// CanNextPage reports whether a page follows p.
func (p Page) CanNextPage() bool {
	return p.PageIndex < p.PageCount-1
}

// FirstRow returns the one-based position of the first row on the page,
// or 0 for an empty page.
func (p Page) FirstRow() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.PageIndex*p.PageSize + 1
}

// LastRow returns the one-based position of the last row on the page.
func (p Page) LastRow() int {
	return p.PageIndex*p.PageSize + len(p.Rows)
}
