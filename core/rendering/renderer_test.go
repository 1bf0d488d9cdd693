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

package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
	"github.com/navespenhw/tanstack-table-demo/core/views"
)

func renderTestController(t *testing.T, state query.ViewState) *views.Controller {
	t.Helper()
	table := tables.NewDataTable("pets", []tables.Record{
		{"species": "dog", "name": "Rex", "age": 3},
		{"species": "cat", "name": "Tom <b>", "age": 5},
		{"species": "dog", "name": "Fido", "age": 7},
	})
	reg := columns.MustDeclare([]*columns.ColumnDef{
		columns.NewColumn("species",
			columns.WithHeader("Species"),
			columns.WithFilter(columns.FilterMultiSelect),
			columns.WithGrouping(true),
		),
		columns.NewColumn("name", columns.WithHeader("Name"), columns.WithFilter(columns.FilterText)),
		columns.NewColumn("age", columns.WithHeader("Age"), columns.WithAggregation(columns.AggMean)),
	})
	c, err := views.NewController(table, reg, views.WithState(state))
	require.NoError(t, err)
	return c
}

func TestRenderHTML(t *testing.T) {
	r, err := NewTableRenderer()
	require.NoError(t, err)

	c := renderTestController(t, query.NewViewState())
	var sb strings.Builder
	require.NoError(t, r.Render(&sb, c.ViewModel("/")))
	out := sb.String()

	assert.Contains(t, out, "<title>pets</title>")
	assert.Contains(t, out, `aria-sort="none"`)
	assert.Contains(t, out, `name="f-name"`)
	assert.Contains(t, out, "Tom &lt;b&gt;")
	assert.NotContains(t, out, "Tom <b>")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "3 rows")
}

func TestRenderHTMLGrouped(t *testing.T) {
	r, err := NewTableRenderer()
	require.NoError(t, err)

	state := query.NewViewState()
	state.Grouping = query.GroupingState{"species"}
	c := renderTestController(t, state)
	var sb strings.Builder
	require.NoError(t, r.Render(&sb, c.ViewModel("/")))
	out := sb.String()

	assert.Contains(t, out, "2 groups, 3 rows")
	assert.Contains(t, out, `class="group"`)
	assert.Contains(t, out, "dog (2)")
	assert.Contains(t, out, "expanded=species")
}

func TestToAsciiFromController(t *testing.T) {
	state := query.NewViewState()
	state.Sorting = query.SortState{{ID: "age", Desc: true}}
	c := renderTestController(t, state)
	out := ToAscii(c.ViewModel("/"))

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 7)
	assert.Contains(t, lines[1], "Age v")
	assert.Contains(t, lines[3], "Fido")
	assert.Contains(t, lines[5], "Rex")
}
