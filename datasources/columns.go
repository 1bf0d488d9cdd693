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

package datasources

import (
	"time"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// MaxSelectOptions is the largest number of distinct strings for which a
// column gets a multi-select filter instead of a text filter.
const MaxSelectOptions = 25

// InferColumns declares a column for every field of a loaded table, in
// first-appearance order. Datetime columns sort newest first and show the
// latest value in group rows. Numeric columns are summed and right aligned.
// String columns with few distinct values can be grouped and get a
// multi-select filter with stable facets; other string columns get a text
// filter and count distinct values in group rows.
func InferColumns(table *tables.DataTable) (*columns.Registry, error) {
	records := table.Records()
	var defs []*columns.ColumnDef
	for _, name := range table.GetColumnNames() {
		defs = append(defs, inferColumn(name, records))
	}
	return columns.Declare(defs)
}

func inferColumn(name string, records []tables.Record) *columns.ColumnDef {
	defined := 0
	numeric := true
	datetime := true
	distinct := map[any]bool{}
	for _, r := range records {
		v := r.Get(name)
		if v == nil {
			continue
		}
		defined++
		if _, ok := columns.ToFloat64(v); !ok {
			numeric = false
		}
		if _, ok := v.(time.Time); !ok {
			datetime = false
		}
		if len(distinct) <= MaxSelectOptions {
			distinct[columns.ValueKey(v)] = true
		}
	}

	if defined == 0 {
		numeric, datetime = false, false
	}
	switch {
	case datetime:
		return columns.NewColumn(name,
			columns.WithSortingFn(columns.SortDatetime),
			columns.WithSortUndefined(columns.UndefinedLast),
			columns.WithSortDescFirst(),
			columns.WithAggregation(columns.AggMax),
		)
	case numeric:
		return columns.NewColumn(name,
			columns.WithAggregation(columns.AggSum),
			columns.WithSortUndefined(columns.UndefinedLast),
			columns.WithMeta("textAlign", "right"),
		)
	case len(distinct) <= MaxSelectOptions:
		return columns.NewColumn(name,
			columns.WithFilter(columns.FilterMultiSelect),
			columns.WithFacetPolicy(columns.FacetStable),
			columns.WithGrouping(true),
			columns.WithAggregation(columns.AggUniqueCount),
		)
	default:
		return columns.NewColumn(name,
			columns.WithFilter(columns.FilterText),
			columns.WithTextMatch(columns.TextMatchContains),
			columns.WithSortingFn(columns.SortAlphanumeric),
			columns.WithAggregation(columns.AggUniqueCount),
		)
	}
}
