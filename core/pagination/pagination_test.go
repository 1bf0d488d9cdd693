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

package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/navespenhw/tanstack-table-demo/core/grouping"
	"github.com/navespenhw/tanstack-table-demo/core/query"
)

func makeRows(n int) []grouping.Row {
	rows := make([]grouping.Row, n)
	for i := range rows {
		rows[i] = &grouping.LeafRow{Index: i}
	}
	return rows
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		state         query.PaginationState
		wantIndex     int
		wantCount     int
		wantRows      int
		wantFirstLeaf int
	}{
		{"empty", 0, query.PaginationState{PageIndex: 0, PageSize: 10}, 0, 1, 0, -1},
		{"empty with stale index", 0, query.PaginationState{PageIndex: 3, PageSize: 10}, 0, 1, 0, -1},
		{"first page", 47, query.PaginationState{PageIndex: 0, PageSize: 10}, 0, 5, 10, 0},
		{"last partial page", 47, query.PaginationState{PageIndex: 4, PageSize: 10}, 4, 5, 7, 40},
		{"index past the end clamps", 47, query.PaginationState{PageIndex: 9, PageSize: 10}, 4, 5, 7, 40},
		{"negative index clamps", 47, query.PaginationState{PageIndex: -2, PageSize: 10}, 0, 5, 10, 0},
		{"exact multiple", 30, query.PaginationState{PageIndex: 2, PageSize: 10}, 2, 3, 10, 20},
		{"invalid size falls back", 25, query.PaginationState{PageIndex: 1, PageSize: 0}, 1, 3, 10, 10},
		{"single page", 3, query.PaginationState{PageIndex: 0, PageSize: 50}, 0, 1, 3, 0},
		{"huge size", 5, query.PaginationState{PageIndex: 0, PageSize: math.MaxInt}, 0, 1, 5, 0},
		{"huge size past the end", 5, query.PaginationState{PageIndex: 2, PageSize: math.MaxInt - 1}, 0, 1, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(makeRows(tt.total), tt.state)
			assert.Equal(t, tt.wantIndex, page.PageIndex)
			assert.Equal(t, tt.wantCount, page.PageCount)
			assert.Equal(t, tt.total, page.TotalRowCount)
			assert.Len(t, page.Rows, tt.wantRows)
			if tt.wantFirstLeaf >= 0 {
				assert.Equal(t, tt.wantFirstLeaf, page.Rows[0].(*grouping.LeafRow).Index)
			}
		})
	}
}

func TestPageNavigation(t *testing.T) {
	page := Paginate(makeRows(47), query.PaginationState{PageIndex: 4, PageSize: 10})
	assert.True(t, page.CanPreviousPage())
	assert.False(t, page.CanNextPage())
	assert.Equal(t, 41, page.FirstRow())
	assert.Equal(t, 47, page.LastRow())

	empty := Paginate(nil, query.PaginationState{PageSize: 10})
	assert.False(t, empty.CanPreviousPage())
	assert.False(t, empty.CanNextPage())
	assert.Equal(t, 0, empty.FirstRow())
	assert.Empty(t, empty.Rows)
	assert.NotNil(t, empty.Rows)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{47, 10, 5},
		{5, math.MaxInt, 1},
		{math.MaxInt, math.MaxInt, 1},
		{math.MaxInt, math.MaxInt - 1, 2},
		{math.MaxInt, 1, math.MaxInt},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.size), "PageCount(%d, %d)", tt.total, tt.size)
	}
}
