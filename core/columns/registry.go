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
	"errors"
	"fmt"
	"strings"

	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// ErrConfig is the target for errors.Is on every column declaration error.
var ErrConfig = errors.New("invalid column configuration")

// ConfigError reports a column declaration that can never work. It is
// raised once, at declaration time, and is not recoverable.
type ConfigError struct {
	ColumnID string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("column %q: %s", e.ColumnID, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// reservedIDChars are used as separators in view-state URLs.
const reservedIDChars = "&=:,"

// Registry is the ordered, validated set of declared columns.
type Registry struct {
	columns []*ColumnDef
	byID    map[string]*ColumnDef
}

// Declare validates the column definitions and returns a registry keeping
// their declaration order. All problems are reported together.
func Declare(defs []*ColumnDef) (*Registry, error) {
	var errs []error
	r := &Registry{
		columns: make([]*ColumnDef, 0, len(defs)),
		byID:    make(map[string]*ColumnDef, len(defs)),
	}
	for i, c := range defs {
		if c == nil {
			errs = append(errs, &ConfigError{ColumnID: fmt.Sprintf("#%d", i), Reason: "nil column definition"})
			continue
		}
		if err := validate(c); err != nil {
			errs = append(errs, err...)
			continue
		}
		if _, dup := r.byID[c.id]; dup {
			errs = append(errs, &ConfigError{ColumnID: c.id, Reason: "duplicate column id"})
			continue
		}
		r.byID[c.id] = c
		r.columns = append(r.columns, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// MustDeclare is Declare for static declarations; it panics on error.
func MustDeclare(defs []*ColumnDef) *Registry {
	r, err := Declare(defs)
	if err != nil {
		panic(err)
	}
	return r
}

func validate(c *ColumnDef) []error {
	var errs []error
	fail := func(reason string) {
		errs = append(errs, &ConfigError{ColumnID: c.id, Reason: reason})
	}
	if c.id == "" {
		fail("id is required")
	}
	if strings.ContainsAny(c.id, reservedIDChars) {
		fail(fmt.Sprintf("id must not contain any of %q", reservedIDChars))
	}
	if c.accessor == nil {
		if c.sortable || c.groupable || c.filterKind != FilterNone {
			fail("display column cannot sort, filter or group")
		}
		if c.aggregationFn != AggNone {
			fail("display column cannot aggregate")
		}
	}
	if c.filterKind == FilterCustom && c.filterFn == nil {
		fail("custom filter requires a predicate")
	}
	if c.sortingFn == SortCustom && c.sortCompare == nil {
		fail("custom sorting requires a comparator")
	}
	if c.aggregationFn == AggCustom && c.reducer == nil {
		fail("custom aggregation requires a reducer")
	}
	return errs
}

// Columns returns the columns in declaration order.
func (r *Registry) Columns() []*ColumnDef {
	return r.columns
}

// Column returns the column with the given id, or nil.
func (r *Registry) Column(id string) *ColumnDef {
	return r.byID[id]
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Accessor reads the value of column id from record; unknown columns yield nil.
func (r *Registry) Accessor(id string, record tables.Record) any {
	c := r.byID[id]
	if c == nil {
		return nil
	}
	return c.Value(record)
}

func (r *Registry) CanSort(id string) bool {
	c := r.byID[id]
	return c != nil && c.CanSort()
}

func (r *Registry) CanFilter(id string) bool {
	c := r.byID[id]
	return c != nil && c.CanFilter()
}

func (r *Registry) CanGroup(id string) bool {
	c := r.byID[id]
	return c != nil && c.CanGroup()
}

// AggregatedColumns returns the columns declaring an aggregation function.
func (r *Registry) AggregatedColumns() []*ColumnDef {
	var out []*ColumnDef
	for _, c := range r.columns {
		if c.aggregationFn != AggNone {
			out = append(out, c)
		}
	}
	return out
}

// FilterableColumns returns the columns that offer a filter control.
func (r *Registry) FilterableColumns() []*ColumnDef {
	var out []*ColumnDef
	for _, c := range r.columns {
		if c.CanFilter() {
			out = append(out, c)
		}
	}
	return out
}
