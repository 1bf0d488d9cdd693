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
	"cmp"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// valueKind ranks values of different kinds against each other.
// Undefined sorts before everything else.
type valueKind int

const (
	kindUndefined valueKind = iota
	kindBool
	kindNumber
	kindString
	kindTime
	kindOther
)

func kindOf(v any) valueKind {
	switch v.(type) {
	case nil:
		return kindUndefined
	case bool:
		return kindBool
	case string:
		return kindString
	case time.Time:
		return kindTime
	case decimal.Decimal:
		return kindNumber
	}
	if _, ok := ToFloat64(v); ok {
		return kindNumber
	}
	return kindOther
}

// Compare is the generic ordering: numbers numerically (NaN last), strings
// lexicographically, false before true, times chronologically. Values of
// different kinds are ordered by kind, undefined first.
func Compare(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch ka {
	case kindUndefined:
		return 0
	case kindBool:
		return compareBools(a.(bool), b.(bool))
	case kindNumber:
		da, aDec := a.(decimal.Decimal)
		db, bDec := b.(decimal.Decimal)
		if aDec && bDec {
			return da.Cmp(db)
		}
		fa, _ := ToFloat64(a)
		fb, _ := ToFloat64(b)
		return compareFloat64s(fa, fb)
	case kindString:
		return strings.Compare(a.(string), b.(string))
	case kindTime:
		return compareTimes(a.(time.Time), b.(time.Time))
	default:
		// Fallback: use string representation
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// CompareText compares the string forms of a and b case-insensitively.
func CompareText(a, b any) int {
	return strings.Compare(strings.ToLower(SortString(a)), strings.ToLower(SortString(b)))
}

// CompareTextCaseSensitive compares the string forms of a and b.
func CompareTextCaseSensitive(a, b any) int {
	return strings.Compare(SortString(a), SortString(b))
}

// CompareDatetime orders time values; anything else uses the generic ordering.
func CompareDatetime(a, b any) int {
	ta, aOK := a.(time.Time)
	tb, bOK := b.(time.Time)
	if aOK && bOK {
		return compareTimes(ta, tb)
	}
	return Compare(a, b)
}

// CompareAlphanumeric compares the lower-cased string forms of a and b,
// treating runs of digits as numbers so that "item2" sorts before "item10".
func CompareAlphanumeric(a, b any) int {
	return compareAlphanumeric(strings.ToLower(SortString(a)), strings.ToLower(SortString(b)))
}

// CompareAlphanumericCaseSensitive is CompareAlphanumeric without case folding.
func CompareAlphanumericCaseSensitive(a, b any) int {
	return compareAlphanumeric(SortString(a), SortString(b))
}

// compareAlphanumeric walks both strings chunk by chunk. Two digit chunks
// compare numerically, two text chunks lexicographically, and a text chunk
// sorts before a digit chunk.
func compareAlphanumeric(a, b string) int {
	ca := splitDigitRuns(a)
	cb := splitDigitRuns(b)
	for len(ca) > 0 && len(cb) > 0 {
		x, y := ca[0], cb[0]
		ca, cb = ca[1:], cb[1:]
		xNum, yNum := isDigits(x), isDigits(y)
		switch {
		case !xNum && !yNum:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		case xNum != yNum:
			if xNum {
				return 1
			}
			return -1
		default:
			if c := compareDigitRuns(x, y); c != 0 {
				return c
			}
		}
	}
	return cmp.Compare(len(ca), len(cb))
}

func splitDigitRuns(s string) []string {
	var chunks []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			if i > start {
				chunks = append(chunks, s[start:i])
			}
			start = i
		}
	}
	return chunks
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isDigits(s string) bool {
	return s != "" && isDigit(s[0])
}

// compareDigitRuns compares two digit strings numerically without parsing,
// so arbitrarily long runs cannot overflow.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

// compareTimes compares two time.Time values
func compareTimes(a, b time.Time) int {
	if a.Before(b) {
		return -1
	}
	if a.After(b) {
		return 1
	}
	return 0
}

// compareBools compares two bool values (false < true)
func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

// compareFloat64s compares two float64 values with NaN handling.
// NaN values are considered greater than all other values (sort to end).
func compareFloat64s(a, b float64) int {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)

	if aNaN && bNaN {
		return 0
	}
	if aNaN {
		return 1
	}
	if bNaN {
		return -1
	}
	return cmp.Compare(a, b)
}
