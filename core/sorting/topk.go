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

package sorting

import (
	"container/heap"
	"slices"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/grouping"
	"github.com/navespenhw/tanstack-table-demo/core/query"
)

// topKHeap implements a max-heap for top-K selection
// When we want the smallest K elements, we use a max-heap:
// - If new element is smaller than max, pop max and push new element
// - At the end, heap contains K smallest elements
type topKHeap struct {
	positions []int // positions into rows
	rows      []grouping.Row
	cols      []sortableColumn
}

func (h *topKHeap) Len() int { return len(h.positions) }

// Less returns true if element at i should be ABOVE j in the heap.
// The top of the heap is the "worst" of the K best elements.
func (h *topKHeap) Less(i, j int) bool {
	return h.compare(h.positions[i], h.positions[j]) > 0
}

func (h *topKHeap) Swap(i, j int) {
	h.positions[i], h.positions[j] = h.positions[j], h.positions[i]
}

func (h *topKHeap) Push(x interface{}) {
	h.positions = append(h.positions, x.(int))
}

func (h *topKHeap) Pop() interface{} {
	old := h.positions
	n := len(old)
	x := old[n-1]
	h.positions = old[0 : n-1]
	return x
}

// compare orders two positions by the sort keys, then by input position, so
// the selection matches the stable ordering of Sort.
func (h *topKHeap) compare(i, j int) int {
	if cmp := compareRows(h.rows[i], h.rows[j], h.cols); cmp != 0 {
		return cmp
	}
	return i - j
}

// TopK returns the first k rows of Sort(rows, state, registry) without
// sorting the rest. It is meant for flat leaf rows, where only the pages up
// to the current one need an order: O(n log k) instead of O(n log n).
// Group rows in the result have their children sorted as Sort would.
func TopK(rows []grouping.Row, state query.SortState, registry *columns.Registry, k int) []grouping.Row {
	if len(rows) == 0 || k <= 0 {
		return []grouping.Row{}
	}
	cols := resolve(state, registry)
	if len(cols) == 0 {
		return slices.Clone(rows[:min(k, len(rows))])
	}
	if k >= len(rows) {
		return sortLevel(rows, cols)
	}

	h := &topKHeap{
		positions: make([]int, 0, k),
		rows:      rows,
		cols:      cols,
	}
	// Initialize heap with first K elements
	for i := 0; i < k; i++ {
		h.positions = append(h.positions, i)
	}
	heap.Init(h)

	// Process remaining elements
	for i := k; i < len(rows); i++ {
		// Compare with heap top (the "worst" of current K best)
		if h.compare(i, h.positions[0]) < 0 {
			heap.Pop(h)
			heap.Push(h, i)
		}
	}

	// Extract and sort the K elements
	slices.SortFunc(h.positions, h.compare)
	selected := make([]grouping.Row, len(h.positions))
	for i, p := range h.positions {
		selected[i] = rows[p]
	}
	return sortLevel(selected, cols)
}
