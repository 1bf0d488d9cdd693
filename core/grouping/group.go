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

// Package grouping partitions rows into a tree of group rows carrying
// aggregates.
//
// Terminology:
// * the columns that are part of the grouping hierarchy are called grouped columns
// * columns declaring an aggregation function are called aggregated columns
// * every leaf under a group shares the group's value and the values of all its ancestors
package grouping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/navespenhw/tanstack-table-demo/core/aggregates"
	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// Row is a derived view node: either a *LeafRow or a *GroupRow.
type Row interface {
	ID() string
	Depth() int
	// LeafCount is the number of records under the row; 1 for a leaf.
	LeafCount() int
	isRow()
}

// LeafRow wraps one record.
type LeafRow struct {
	Index  int // position of the record in the table
	Record tables.Record
	depth  int
}

func (l *LeafRow) ID() string     { return strconv.Itoa(l.Index) }
func (l *LeafRow) Depth() int     { return l.depth }
func (l *LeafRow) LeafCount() int { return 1 }
func (*LeafRow) isRow()           {}

// GroupRow is one partition of the records sharing a value of ColumnID.
type GroupRow struct {
	ColumnID   string
	GroupValue any
	// Children are group rows of the next grouped column, or leaf rows
	// for the innermost grouped column.
	Children []Row
	// Leaves are all records transitively under the group, in input order.
	Leaves     []*LeafRow
	Aggregates map[string]any

	states  map[string]aggregates.State
	grouped query.GroupingState
	id      string
	depth   int
}

func (g *GroupRow) ID() string     { return g.id }
func (g *GroupRow) Depth() int     { return g.depth }
func (g *GroupRow) LeafCount() int { return len(g.Leaves) }
func (*GroupRow) isRow()           {}

// IsGroupedBy reports whether columnID is one of the grouped columns of the
// tree this row belongs to.
func (g *GroupRow) IsGroupedBy(columnID string) bool {
	return g.grouped.Contains(columnID)
}

// Value returns the value a row shows, and sorts by, for a column. For a
// group row this is the aggregate of an aggregated column, the first leaf's
// value of a grouped column, and undefined otherwise. Grouped columns are
// never aggregated.
func Value(row Row, col *columns.ColumnDef) any {
	switch r := row.(type) {
	case *LeafRow:
		return col.Value(r.Record)
	case *GroupRow:
		if r.IsGroupedBy(col.ID()) {
			if len(r.Leaves) > 0 {
				return col.Value(r.Leaves[0].Record)
			}
			return nil
		}
		return r.Aggregates[col.ID()]
	}
	return nil
}

// Group partitions every record of the table.
func Group(records []tables.Record, grouping query.GroupingState, registry *columns.Registry) []Row {
	indices := make([]int, len(records))
	for i := range indices {
		indices[i] = i
	}
	return GroupIndices(records, indices, grouping, registry)
}

// GroupIndices partitions the records at the given indices. With no
// grouping it returns the leaf rows in input order. Otherwise groups appear
// in first-appearance order of their value and are nested by the remaining
// grouped columns. Grouping entries naming unknown columns are skipped.
func GroupIndices(records []tables.Record, indices []int, grouping query.GroupingState, registry *columns.Registry) []Row {
	var grouped []*columns.ColumnDef
	var ids query.GroupingState
	for _, id := range grouping {
		if col := registry.Column(id); col != nil && !col.IsDisplay() {
			grouped = append(grouped, col)
			ids = append(ids, id)
		}
	}

	leaves := make([]*LeafRow, len(indices))
	for i, idx := range indices {
		leaves[i] = &LeafRow{Index: idx, Record: records[idx], depth: len(grouped)}
	}
	if len(grouped) == 0 {
		return leafRows(leaves)
	}

	g := &grouper{grouped: grouped, ids: ids}
	for _, col := range registry.AggregatedColumns() {
		if !ids.Contains(col.ID()) {
			g.aggregated = append(g.aggregated, col)
		}
	}
	return g.groupLevel(leaves, 0, "")
}

type grouper struct {
	grouped    []*columns.ColumnDef
	ids        query.GroupingState
	aggregated []*columns.ColumnDef
}

func (g *grouper) groupLevel(leaves []*LeafRow, depth int, parentID string) []Row {
	col := g.grouped[depth]

	// Partition by value in first-appearance order
	valueToGroupKey := map[any]int{}
	var partitions [][]*LeafRow
	for _, leaf := range leaves {
		key := columns.ValueKey(col.Value(leaf.Record))
		groupKey, ok := valueToGroupKey[key]
		if !ok {
			groupKey = len(partitions)
			valueToGroupKey[key] = groupKey
			partitions = append(partitions, nil)
		}
		partitions[groupKey] = append(partitions[groupKey], leaf)
	}

	rows := make([]Row, len(partitions))
	for i, part := range partitions {
		value := col.Value(part[0].Record)
		id := groupID(parentID, col.ID(), value)
		group := &GroupRow{
			ColumnID:   col.ID(),
			GroupValue: value,
			Leaves:     part,
			Aggregates: make(map[string]any, len(g.aggregated)),
			states:     make(map[string]aggregates.State, len(g.aggregated)),
			grouped:    g.ids,
			id:         id,
			depth:      depth,
		}
		if depth+1 < len(g.grouped) {
			group.Children = g.groupLevel(part, depth+1, id)
		} else {
			group.Children = leafRows(part)
		}
		g.aggregate(group)
		rows[i] = group
	}
	return rows
}

// valueEscaper keeps group id value segments free of the level separator
// and of the kind tags below.
var valueEscaper = strings.NewReplacer(
	"%", "%25",
	">", "%3E",
	"~", "%7E",
	"#", "%23",
	"!", "%21",
	"@", "%40",
	"*", "%2A",
)

// groupID builds the id of a group row as parentID>column:value. Values
// that fall into different partitions get different ids:
//
//	type:dog     string
//	type:        empty string
//	type:~       undefined
//	type:#1      number
//	type:!true   bool
//	type:@<ns>   time, as Unix nanoseconds
//
// Column ids never contain ':', and escaped values never contain '>'.
func groupID(parentID, columnID string, value any) string {
	id := columnID + ":" + valueSegment(value)
	if parentID != "" {
		id = parentID + ">" + id
	}
	return id
}

func valueSegment(value any) string {
	switch v := value.(type) {
	case nil:
		return "~"
	case string:
		return valueEscaper.Replace(v)
	case bool:
		return "!" + strconv.FormatBool(v)
	case time.Time:
		return "@" + strconv.FormatInt(v.UnixNano(), 10)
	}
	if f, ok := columns.ToFloat64(value); ok {
		if math.IsNaN(f) {
			return "#NaN"
		}
		return "#" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "*" + valueEscaper.Replace(fmt.Sprintf("%#v", value))
}

// aggregate computes the group's aggregates bottom-up: groups directly
// above leaves fold leaf values, higher groups combine their children.
func (g *grouper) aggregate(group *GroupRow) {
	for _, col := range g.aggregated {
		state := aggregates.New(col.AggregationFn(), col.Reducer())
		if state == nil {
			continue
		}
		for _, child := range group.Children {
			switch c := child.(type) {
			case *LeafRow:
				state.Add(col.Value(c.Record))
			case *GroupRow:
				state.Combine(c.states[col.ID()])
			}
		}
		group.states[col.ID()] = state
		group.Aggregates[col.ID()] = state.Result()
	}
}

func leafRows(leaves []*LeafRow) []Row {
	rows := make([]Row, len(leaves))
	for i, l := range leaves {
		rows[i] = l
	}
	return rows
}

// LeafCount returns the number of records under rows.
func LeafCount(rows []Row) int {
	n := 0
	for _, r := range rows {
		n += r.LeafCount()
	}
	return n
}

// Walk visits rows depth-first, parents before children. Children of a
// group are visited only when expand returns true for it.
func Walk(rows []Row, expand func(*GroupRow) bool, visit func(Row)) {
	for _, r := range rows {
		visit(r)
		if g, ok := r.(*GroupRow); ok && expand(g) {
			Walk(g.Children, expand, visit)
		}
	}
}
