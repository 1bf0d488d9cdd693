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

package aggregates

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		fn     columns.AggregationFn
		values []any
		want   any
	}{
		{"sum skips undefined", columns.AggSum, []any{5, nil, 7}, 12.0},
		{"sum ignores strings", columns.AggSum, []any{5, "dog", 2.5}, 7.5},
		{"sum is exact", columns.AggSum, []any{0.1, 0.2}, 0.3},
		{"sum of decimals", columns.AggSum, []any{decimal.RequireFromString("1.10"), 2}, 3.1},
		{"sum skips NaN", columns.AggSum, []any{math.NaN(), 1}, 1.0},
		{"sum of nothing", columns.AggSum, nil, 0.0},
		{"mean excludes undefined", columns.AggMean, []any{10, nil, 20}, 15.0},
		{"mean coerces numeric text", columns.AggMean, []any{"4", 2, "x"}, 3.0},
		{"mean of undefined", columns.AggMean, []any{nil, nil}, nil},
		{"unique count includes undefined", columns.AggUniqueCount, []any{"a", nil, "a", nil, "b"}, 3},
		{"unique count numeric kinds", columns.AggUniqueCount, []any{1, 1.0, int64(1)}, 1},
		{"count", columns.AggCount, []any{1, nil, "x"}, 3},
		{"min", columns.AggMin, []any{nil, 3, 1, 2}, 1},
		{"max", columns.AggMax, []any{3, nil, 7.5, 2}, 7.5},
		{"max of undefined", columns.AggMax, []any{nil}, nil},
		{"median odd", columns.AggMedian, []any{5, 1, 3}, 3.0},
		{"median even", columns.AggMedian, []any{4, 1, nil, 3, 2}, 2.5},
		{"none", columns.AggNone, []any{1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.fn, nil, tt.values))
		})
	}
}

func TestCustom(t *testing.T) {
	joined := func(values []any) any {
		out := ""
		for _, v := range values {
			out += columns.FormatValue(v)
		}
		return out
	}
	assert.Equal(t, "abc", Compute(columns.AggCustom, joined, []any{"a", "b", "c"}))

	left := New(columns.AggCustom, joined)
	left.Add("a")
	right := New(columns.AggCustom, joined)
	right.Add("b")
	left.Combine(right)
	assert.Equal(t, "ab", left.Result())
}

// TestCombineAgreesWithDirect splits the leaves into child groups and checks
// that combining the child states equals aggregating every leaf at once.
func TestCombineAgreesWithDirect(t *testing.T) {
	leaves := [][]any{
		{10, nil, 20},
		{},
		{5, "7", 1.5, nil},
		{nil},
	}
	var all []any
	for _, l := range leaves {
		all = append(all, l...)
	}

	fns := []columns.AggregationFn{
		columns.AggSum, columns.AggMean, columns.AggUniqueCount, columns.AggCount,
		columns.AggMin, columns.AggMax, columns.AggMedian,
	}
	for _, fn := range fns {
		t.Run(fn.String(), func(t *testing.T) {
			parent := New(fn, nil)
			for _, l := range leaves {
				child := New(fn, nil)
				for _, v := range l {
					child.Add(v)
				}
				parent.Combine(child)
			}
			assert.Equal(t, Compute(fn, nil, all), parent.Result())
		})
	}
}

func TestMeanIsWeighted(t *testing.T) {
	// mean of child means would be (10 + 40) / 2 = 25
	a := New(columns.AggMean, nil)
	a.Add(10)
	b := New(columns.AggMean, nil)
	for _, v := range []any{30, 40, 50} {
		b.Add(v)
	}
	a.Combine(b)
	assert.Equal(t, 32.5, a.Result())
}
