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

package grouping

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

func testRegistry(t *testing.T) *columns.Registry {
	t.Helper()
	r, err := columns.Declare([]*columns.ColumnDef{
		columns.NewColumn("type", columns.WithGrouping(true)),
		columns.NewColumn("breed", columns.WithGrouping(true), columns.WithAggregation(columns.AggUniqueCount)),
		columns.NewColumn("age", columns.WithAggregation(columns.AggMean)),
		columns.NewColumn("amountRaised", columns.WithAggregation(columns.AggSum)),
		columns.NewColumn("name"),
	})
	require.NoError(t, err)
	return r
}

func scenarioRecords() []tables.Record {
	return []tables.Record{
		{"type": "dog", "breed": "lab", "age": 10, "amountRaised": 100.0, "name": "a"},
		{"type": "dog", "breed": "pug", "age": nil, "name": "b"},
		{"type": "cat", "breed": "tabby", "age": 20, "amountRaised": 50.0, "name": "c"},
		{"type": "fish", "age": 1, "amountRaised": 200.0, "name": "d"},
		{"type": "cat", "breed": "tabby", "age": 4, "amountRaised": 150.0, "name": "e"},
	}
}

func TestGroupWithoutGroupingIsIdentity(t *testing.T) {
	records := scenarioRecords()
	rows := Group(records, query.GroupingState{}, testRegistry(t))

	require.Len(t, rows, len(records))
	for i, r := range rows {
		leaf, ok := r.(*LeafRow)
		require.True(t, ok)
		assert.Equal(t, i, leaf.Index)
		assert.Equal(t, records[i], leaf.Record)
		assert.Equal(t, 0, leaf.Depth())
	}
}

func TestGroupScenario(t *testing.T) {
	rows := Group(scenarioRecords(), query.GroupingState{"type"}, testRegistry(t))

	tests := []struct {
		value     string
		id        string
		leafCount int
		sum       float64
		mean      any
		breeds    int
	}{
		{"dog", "type:dog", 2, 100, 10.0, 2},
		{"cat", "type:cat", 2, 200, 12.0, 1},
		{"fish", "type:fish", 1, 200, 1.0, 1},
	}
	require.Len(t, rows, len(tests))
	for i, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			g, ok := rows[i].(*GroupRow)
			require.True(t, ok)
			assert.Equal(t, "type", g.ColumnID)
			assert.Equal(t, tt.value, g.GroupValue)
			assert.Equal(t, tt.id, g.ID())
			assert.Equal(t, tt.leafCount, g.LeafCount())
			assert.Equal(t, tt.sum, g.Aggregates["amountRaised"])
			assert.Equal(t, tt.mean, g.Aggregates["age"])
			assert.Equal(t, tt.breeds, g.Aggregates["breed"])
			for _, child := range g.Children {
				assert.Equal(t, 1, child.Depth())
			}
		})
	}
}

func TestNestedGrouping(t *testing.T) {
	reg := testRegistry(t)
	rows := Group(scenarioRecords(), query.GroupingState{"type", "breed"}, reg)
	require.Len(t, rows, 3)

	dog := rows[0].(*GroupRow)
	require.Len(t, dog.Children, 2)
	lab := dog.Children[0].(*GroupRow)
	assert.Equal(t, "type:dog>breed:lab", lab.ID())
	assert.Equal(t, 1, lab.Depth())
	assert.Equal(t, "0", lab.Children[0].ID())
	assert.Equal(t, 2, lab.Children[0].Depth())

	// Parent aggregates are combined from children and agree with the leaves.
	assert.Equal(t, 100.0, dog.Aggregates["amountRaised"])
	assert.Equal(t, 10.0, dog.Aggregates["age"])
	assert.NotContains(t, dog.Aggregates, "breed", "grouped columns are not aggregated")

	// fish has no breed: one group for the undefined value.
	fish := rows[2].(*GroupRow)
	require.Len(t, fish.Children, 1)
	assert.Nil(t, fish.Children[0].(*GroupRow).GroupValue)
	assert.Equal(t, "type:fish>breed:", fish.Children[0].ID())

	// Grouped columns show the first leaf's value, others are undefined.
	assert.Equal(t, "dog", Value(dog, reg.Column("type")))
	assert.Equal(t, "lab", Value(dog, reg.Column("breed")))
	assert.Nil(t, Value(dog, reg.Column("name")))
	assert.Equal(t, 100.0, Value(dog, reg.Column("amountRaised")))
}

func TestGroupingKeepsEveryRecord(t *testing.T) {
	reg := testRegistry(t)
	records := scenarioRecords()
	groupings := []query.GroupingState{
		{},
		{"type"},
		{"breed"},
		{"type", "breed"},
		{"breed", "type"},
		{"name", "type"},
	}
	for _, grouping := range groupings {
		rows := Group(records, grouping, reg)
		assert.Equal(t, len(records), LeafCount(rows), "%v", grouping)

		seen := map[int]int{}
		var visit func([]Row)
		visit = func(rows []Row) {
			for _, r := range rows {
				switch x := r.(type) {
				case *LeafRow:
					seen[x.Index]++
				case *GroupRow:
					visit(x.Children)
				}
			}
		}
		visit(rows)
		for i := range records {
			assert.Equal(t, 1, seen[i], "record %d under %v", i, grouping)
		}
	}
}

func TestGroupIndicesKeepsTableIndex(t *testing.T) {
	rows := GroupIndices(scenarioRecords(), []int{2, 4}, query.GroupingState{"type"}, testRegistry(t))
	require.Len(t, rows, 1)
	cat := rows[0].(*GroupRow)
	assert.Equal(t, []string{"2", "4"}, []string{cat.Children[0].ID(), cat.Children[1].ID()})
	assert.Equal(t, 200.0, cat.Aggregates["amountRaised"])
}

func TestGroupUnknownColumnSkipped(t *testing.T) {
	rows := Group(scenarioRecords(), query.GroupingState{"missing"}, testRegistry(t))
	assert.Len(t, rows, 5)
}

func TestWalk(t *testing.T) {
	rows := Group(scenarioRecords(), query.GroupingState{"type"}, testRegistry(t))

	var ids []string
	Walk(rows, func(g *GroupRow) bool { return g.GroupValue == "cat" }, func(r Row) {
		ids = append(ids, r.ID())
	})
	assert.Equal(t, []string{"type:dog", "type:cat", "2", "4", "type:fish"}, ids)
}

func TestGroupIDsAreDistinct(t *testing.T) {
	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []tables.Record{
		{"name": "a"},
		{"type": "", "name": "b"},
		{"type": 1, "name": "c"},
		{"type": "1", "name": "d"},
		{"type": "#1", "name": "e"},
		{"type": "~", "name": "f"},
		{"type": true, "name": "g"},
		{"type": "a>breed:b", "name": "h"},
		{"type": when, "name": "i"},
		{"type": 1.0, "name": "j"},
	}
	rows := Group(records, query.GroupingState{"type"}, testRegistry(t))

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{
		"type:~",
		"type:",
		"type:#1",
		"type:1",
		"type:%231",
		"type:%7E",
		"type:!true",
		"type:a%3Ebreed:b",
		"type:@" + strconv.FormatInt(when.UnixNano(), 10),
	}, ids)
	// 1 and 1.0 share a partition.
	assert.Equal(t, 2, rows[2].LeafCount())
}

func TestNestedGroupIDsAreDistinct(t *testing.T) {
	records := []tables.Record{
		{"type": "a>breed:b", "breed": "c"},
		{"type": "a", "breed": "b>breed:c"},
	}
	rows := Group(records, query.GroupingState{"type", "breed"}, testRegistry(t))
	require.Len(t, rows, 2)

	inner := func(r Row) string { return r.(*GroupRow).Children[0].ID() }
	assert.Equal(t, "type:a%3Ebreed:b>breed:c", inner(rows[0]))
	assert.Equal(t, "type:a>breed:b%3Ebreed:c", inner(rows[1]))
}
