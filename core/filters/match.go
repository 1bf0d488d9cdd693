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

package filters

import (
	"strings"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
)

// Text filter syntax:
//
//	"CLOSED"        exact, case-sensitive match
//	'CLOSED'        case-insensitive substring match
//	CLOSED          bare term, see columns.TextMatch
//	!term           negation
//	a&b|c           & binds tighter than |; no parentheses
//
// Bare terms match the trimmed value case-insensitively, either in full
// (TextMatchExact) or as a substring (TextMatchContains).

// Match reports whether value satisfies the filter expression.
func Match(filter string, value string, bare columns.TextMatch) bool {
	orMatch := false
	for _, or := range strings.Split(filter, "|") {
		andMatch := true
		for _, and := range strings.Split(or, "&") {
			andMatch = andMatch && matchTerm(strings.TrimSpace(and), value, bare)
		}
		orMatch = orMatch || andMatch
	}
	return orMatch
}

func matchTerm(term string, value string, bare columns.TextMatch) bool {
	not := false
	if strings.HasPrefix(term, "!") {
		not = true
		term = strings.TrimSpace(term[1:])
	}
	match := false
	switch {
	case quoted(term, '"'):
		match = value == term[1:len(term)-1]
	case quoted(term, '\''):
		match = strings.Contains(strings.ToLower(value), strings.ToLower(term[1:len(term)-1]))
	case term != "":
		norm := strings.ToLower(strings.TrimSpace(value))
		want := strings.ToLower(strings.Trim(term, `"'`))
		if bare == columns.TextMatchContains {
			match = strings.Contains(norm, want)
		} else {
			match = norm == want
		}
	}
	if not {
		return !match
	}
	return match
}

func quoted(term string, q byte) bool {
	return len(term) >= 2 && term[0] == q && term[len(term)-1] == q
}
