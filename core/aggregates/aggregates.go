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

// Package aggregates provides aggregate state types for hierarchical aggregation.
// These types store intermediate state that can be combined up a grouping hierarchy,
// allowing aggregates to be computed at leaf level and merged up to parent groups.
package aggregates

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
)

// State is the interface for all aggregate state types. No state ever
// panics on unexpected values: they are skipped or coerced.
type State interface {
	// Add folds one leaf value into the state.
	Add(value any)
	// Combine merges another state of the same kind into this one.
	Combine(other State)
	// Result returns the aggregate value; nil means undefined.
	Result() any
}

// New returns an empty state for the aggregation function, or nil for
// AggNone. The reducer is used by AggCustom only.
func New(fn columns.AggregationFn, reducer columns.Reducer) State {
	switch fn {
	case columns.AggSum:
		return &SumState{}
	case columns.AggMean:
		return &MeanState{}
	case columns.AggUniqueCount:
		return NewUniqueCountState()
	case columns.AggCount:
		return &CountState{}
	case columns.AggMin:
		return &ExtremumState{max: false}
	case columns.AggMax:
		return &ExtremumState{max: true}
	case columns.AggMedian:
		return &MedianState{}
	case columns.AggCustom:
		return &CustomState{Reducer: reducer}
	}
	return nil
}

// Compute aggregates values directly, without a hierarchy.
func Compute(fn columns.AggregationFn, reducer columns.Reducer, values []any) any {
	s := New(fn, reducer)
	if s == nil {
		return nil
	}
	for _, v := range values {
		s.Add(v)
	}
	return s.Result()
}

// SumState adds up numeric values exactly. Undefined and non-numeric
// values count as 0.
type SumState struct {
	Sum decimal.Decimal
}

// Add adds a single value to the aggregate state.
func (s *SumState) Add(value any) {
	if d, ok := toDecimal(value); ok {
		s.Sum = s.Sum.Add(d)
	}
}

// Combine merges another sum state into this one.
func (s *SumState) Combine(other State) {
	if o, ok := other.(*SumState); ok {
		s.Sum = s.Sum.Add(o.Sum)
	}
}

// Result returns the sum as a float64.
func (s *SumState) Result() any {
	return s.Sum.InexactFloat64()
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	}
	f, ok := columns.ToFloat64(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

// MeanState stores the count and sum of the defined numeric values, so
// that combined means stay weighted by leaf count.
type MeanState struct {
	Count int64
	Sum   float64
}

// Add adds a single value; numeric strings and bools are coerced, anything
// else is excluded from both numerator and denominator.
func (s *MeanState) Add(value any) {
	if f, ok := columns.CoerceFloat64(value); ok {
		s.Count++
		s.Sum += f
	}
}

// Combine merges another mean state into this one.
func (s *MeanState) Combine(other State) {
	if o, ok := other.(*MeanState); ok {
		s.Count += o.Count
		s.Sum += o.Sum
	}
}

// Result returns the mean, or nil when no value was defined.
func (s *MeanState) Result() any {
	if s.Count == 0 {
		return nil
	}
	return s.Sum / float64(s.Count)
}

// UniqueCountState counts distinct values. Undefined is a value like any
// other.
type UniqueCountState struct {
	seen map[any]struct{}
}

// NewUniqueCountState creates a new empty unique count state.
func NewUniqueCountState() *UniqueCountState {
	return &UniqueCountState{seen: make(map[any]struct{})}
}

// Add adds a single value to the aggregate state.
func (s *UniqueCountState) Add(value any) {
	s.seen[columns.ValueKey(value)] = struct{}{}
}

// Combine merges another unique count state into this one.
func (s *UniqueCountState) Combine(other State) {
	if o, ok := other.(*UniqueCountState); ok {
		for k := range o.seen {
			s.seen[k] = struct{}{}
		}
	}
}

// Result returns the number of distinct values.
func (s *UniqueCountState) Result() any {
	return len(s.seen)
}

// CountState counts leaves.
type CountState struct {
	Count int64
}

func (s *CountState) Add(any) {
	s.Count++
}

func (s *CountState) Combine(other State) {
	if o, ok := other.(*CountState); ok {
		s.Count += o.Count
	}
}

func (s *CountState) Result() any {
	return int(s.Count)
}

// ExtremumState keeps the smallest or largest defined value under the
// generic ordering.
type ExtremumState struct {
	max   bool
	value any
}

func (s *ExtremumState) Add(value any) {
	if value == nil {
		return
	}
	if f, ok := columns.ToFloat64(value); ok && math.IsNaN(f) {
		return
	}
	if s.value == nil {
		s.value = value
		return
	}
	c := columns.Compare(value, s.value)
	if (s.max && c > 0) || (!s.max && c < 0) {
		s.value = value
	}
}

func (s *ExtremumState) Combine(other State) {
	if o, ok := other.(*ExtremumState); ok && o.max == s.max {
		s.Add(o.value)
	}
}

func (s *ExtremumState) Result() any {
	return s.value
}

// MedianState keeps every numeric value, since medians do not combine.
type MedianState struct {
	Values []float64
}

func (s *MedianState) Add(value any) {
	if f, ok := columns.ToFloat64(value); ok && !math.IsNaN(f) {
		s.Values = append(s.Values, f)
	}
}

func (s *MedianState) Combine(other State) {
	if o, ok := other.(*MedianState); ok {
		s.Values = append(s.Values, o.Values...)
	}
}

// Result returns the median, or nil when there is no numeric value.
func (s *MedianState) Result() any {
	if len(s.Values) == 0 {
		return nil
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// CustomState collects leaf values in leaf order for a caller reducer.
type CustomState struct {
	Reducer columns.Reducer
	Values  []any
}

func (s *CustomState) Add(value any) {
	s.Values = append(s.Values, value)
}

func (s *CustomState) Combine(other State) {
	if o, ok := other.(*CustomState); ok {
		s.Values = append(s.Values, o.Values...)
	}
}

func (s *CustomState) Result() any {
	if s.Reducer == nil {
		return nil
	}
	return s.Reducer(slices.Clone(s.Values))
}
