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

package filters

import (
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// FacetEntry is one distinct value of a column and how many rows hold it.
type FacetEntry struct {
	Value any
	Count int
}

// FacetIndex maps each distinct value of a column to its row count. Values
// keep their first-appearance order.
type FacetIndex struct {
	ColumnID string
	entries  []FacetEntry
	byKey    map[any]int
}

func newFacetIndex(columnID string) *FacetIndex {
	return &FacetIndex{ColumnID: columnID, byKey: make(map[any]int)}
}

func (f *FacetIndex) add(value any) {
	// List-valued cells count once per element.
	if values, ok := sliceValues(value); ok {
		for _, v := range values {
			f.add(v)
		}
		return
	}
	key := columns.ValueKey(value)
	if i, ok := f.byKey[key]; ok {
		f.entries[i].Count++
		return
	}
	f.byKey[key] = len(f.entries)
	f.entries = append(f.entries, FacetEntry{Value: value, Count: 1})
}

// Len returns the number of distinct values.
func (f *FacetIndex) Len() int {
	return len(f.entries)
}

// Count returns how many rows hold value.
func (f *FacetIndex) Count(value any) int {
	if i, ok := f.byKey[columns.ValueKey(value)]; ok {
		return f.entries[i].Count
	}
	return 0
}

// Entries returns the distinct values in first-appearance order.
func (f *FacetIndex) Entries() []FacetEntry {
	return slices.Clone(f.entries)
}

// Sorted returns the distinct values ordered by the generic ordering, the
// order used for option lists.
func (f *FacetIndex) Sorted() []FacetEntry {
	out := slices.Clone(f.entries)
	slices.SortStableFunc(out, func(a, b FacetEntry) int {
		return columns.Compare(a.Value, b.Value)
	})
	return out
}

// FacetedUniqueValues counts the distinct values of column columnID over
// every record.
func FacetedUniqueValues(records []tables.Record, registry *columns.Registry, columnID string) *FacetIndex {
	f := newFacetIndex(columnID)
	col := registry.Column(columnID)
	if col == nil {
		return f
	}
	for _, r := range records {
		f.add(col.Value(r))
	}
	return f
}

// FacetedUniqueValuesOf counts the distinct values of column columnID over
// the records whose index is in rows.
func FacetedUniqueValuesOf(records []tables.Record, rows *roaring.Bitmap, registry *columns.Registry, columnID string) *FacetIndex {
	f := newFacetIndex(columnID)
	col := registry.Column(columnID)
	if col == nil {
		return f
	}
	it := rows.Iterator()
	for it.HasNext() {
		f.add(col.Value(records[it.Next()]))
	}
	return f
}

type facetKey struct {
	columnID string
	version  uint64
}

// FacetCache memoizes the facet indexes of FacetStable columns. Entries are
// keyed by column id and record-set version only, never by filter state:
// editing one filter must not change the option list of a stable column.
// Only a new record set invalidates them.
type FacetCache struct {
	mu      sync.Mutex
	entries map[facetKey]*FacetIndex
	hits    int
	misses  int
}

// NewFacetCache creates an empty cache. A cache may be shared by every view
// of the same table.
func NewFacetCache() *FacetCache {
	return &FacetCache{entries: make(map[facetKey]*FacetIndex)}
}

// Stable returns the facet index of columnID over the full record set of
// the given version, computing it on first use.
func (c *FacetCache) Stable(records []tables.Record, version uint64, registry *columns.Registry, columnID string) *FacetIndex {
	key := facetKey{columnID: columnID, version: version}
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.entries[key]; ok {
		c.hits++
		return f
	}
	c.misses++
	// Drop indexes of older record sets for this column.
	for k := range c.entries {
		if k.columnID == columnID && k.version != version {
			delete(c.entries, k)
		}
	}
	f := FacetedUniqueValues(records, registry, columnID)
	c.entries[key] = f
	return f
}

// Stats returns the number of cache hits and misses so far.
func (c *FacetCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Derive builds the facet index of every filterable column. Stable columns
// come from the cache; reachable columns count the records passing every
// filter except their own.
func Derive(records []tables.Record, version uint64, masks map[string]*roaring.Bitmap, registry *columns.Registry, cache *FacetCache) map[string]*FacetIndex {
	out := make(map[string]*FacetIndex)
	for _, col := range registry.FilterableColumns() {
		if col.FacetPolicy() == columns.FacetStable && cache != nil {
			out[col.ID()] = cache.Stable(records, version, registry, col.ID())
			continue
		}
		if col.FacetPolicy() == columns.FacetStable {
			out[col.ID()] = FacetedUniqueValues(records, registry, col.ID())
			continue
		}
		reachable := Combine(masks, len(records), col.ID())
		out[col.ID()] = FacetedUniqueValuesOf(records, reachable, registry, col.ID())
	}
	return out
}
