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
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ToFloat64 converts numeric kinds to float64. Strings are not numbers here.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	}
	return 0, false
}

// CoerceFloat64 is ToFloat64 that also accepts numeric strings and bools.
// NaN never coerces.
func CoerceFloat64(v any) (float64, bool) {
	f, ok := ToFloat64(v)
	if !ok {
		switch x := v.(type) {
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return 0, false
			}
			f, ok = parsed, true
		case bool:
			if x {
				return 1, true
			}
			return 0, true
		}
	}
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

type nanKey struct{}

type timeKey struct{ nanos int64 }

// ValueKey maps a cell value to a comparable map key so that equal values
// share a key: every numeric kind collapses to float64, NaNs share one key
// and times compare by instant.
func ValueKey(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool:
		return x
	case time.Time:
		return timeKey{x.UnixNano()}
	}
	if f, ok := ToFloat64(v); ok {
		if math.IsNaN(f) {
			return nanKey{}
		}
		return f
	}
	if reflect.TypeOf(v).Comparable() {
		return v
	}
	return fmt.Sprintf("%#v", v)
}

// Equal reports whether two cell values are the same value.
func Equal(a, b any) bool {
	return ValueKey(a) == ValueKey(b)
}

// SortString is the string form used by text and alphanumeric comparators.
// Undefined, NaN and infinite numbers become the empty string.
func SortString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	}
	if f, ok := ToFloat64(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return FormatValue(v)
}

// FormatValue is the default cell renderer.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02 15:04")
	case decimal.Decimal:
		return x.String()
	}
	if f, ok := ToFloat64(v); ok {
		return FormatFloat64(f)
	}
	return fmt.Sprint(v)
}

// FormatFloat64 formats a float64 value for display.
// Returns "NaN" for NaN, "+Inf"/"-Inf" for infinities.
func FormatFloat64(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
