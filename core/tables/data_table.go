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

// Package tables holds the immutable record set that every view is derived from.
package tables

import (
	"maps"
	"slices"
	"sync"
)

// Record is an opaque keyed bag of field values. A missing key or a nil value
// is treated as undefined by every pipeline stage.
type Record map[string]any

// Get returns the value stored under key, or nil if it is undefined.
func (r Record) Get(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// Has reports whether key holds a defined value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// DataTable is the row store. The record slice is never modified in place:
// Replace swaps it wholesale and bumps the version so memoized derivations
// keyed on the version are invalidated.
type DataTable struct {
	mu      sync.RWMutex
	name    string
	records []Record
	version uint64
}

// NewDataTable creates a table holding the given records.
func NewDataTable(name string, records []Record) *DataTable {
	return &DataTable{
		name:    name,
		records: cloneRecords(records),
		version: 1,
	}
}

// Name returns the table name.
func (t *DataTable) Name() string {
	return t.name
}

// Records returns the current record set. Callers must not modify it.
func (t *DataTable) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.records
}

// Snapshot returns the record set together with its version.
func (t *DataTable) Snapshot() ([]Record, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.records, t.version
}

// Length returns the number of records.
func (t *DataTable) Length() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Version identifies the current record set.
func (t *DataTable) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Replace swaps the record set and returns the new version.
func (t *DataTable) Replace(records []Record) uint64 {
	next := cloneRecords(records)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = next
	t.version++
	return t.version
}

// GetColumnNames returns the union of keys across all records, in
// first-appearance order. Keys of a single record are visited sorted.
func (t *DataTable) GetColumnNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := make(map[string]bool)
	names := []string{}
	for _, r := range t.records {
		for _, k := range slices.Sorted(maps.Keys(r)) {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names
}

// cloneRecords copies the slice header and every record map so that later
// changes by the caller do not leak into the table.
func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		c := make(Record, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
