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
	"testing"
	"time"
)

func TestParseDatetime(t *testing.T) {
	testCases := []struct {
		input   string
		wantErr bool
		check   func(time.Time) bool
	}{
		{"2024-01-15", false, func(t time.Time) bool { return t.Year() == 2024 && t.Month() == 1 && t.Day() == 15 }},
		{"2024-01-15T10:30:00Z", false, func(t time.Time) bool { return t.Hour() == 10 && t.Minute() == 30 }},
		{"2024-01-15 14:45:30", false, func(t time.Time) bool { return t.Hour() == 14 && t.Minute() == 45 }},
		{"2024-01-15 14:45", false, func(t time.Time) bool { return t.Hour() == 14 && t.Second() == 0 }},
		{"2024/06/20", false, func(t time.Time) bool { return t.Month() == 6 && t.Day() == 20 }},
		{"Jan 2, 2023", false, func(t time.Time) bool { return t.Year() == 2023 && t.Day() == 2 }},
		{"", true, nil},
		{"invalid", true, nil},
		// Unix timestamp (seconds)
		{"1704067200", false, func(t time.Time) bool { return t.Year() == 2024 && t.Month() == 1 && t.Day() == 1 }},
		// Unix timestamp (milliseconds)
		{"1704067200000", false, func(t time.Time) bool { return t.Year() == 2024 && t.Month() == 1 && t.Day() == 1 }},
	}

	for _, tc := range testCases {
		got, err := ParseDatetime(tc.input, time.UTC)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDatetime(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDatetime(%q) error: %v", tc.input, err)
			continue
		}
		if tc.check != nil && !tc.check(got) {
			t.Errorf("ParseDatetime(%q) = %v, failed check", tc.input, got)
		}
	}
}

func TestParseDatetimeText(t *testing.T) {
	if _, ok := ParseDatetimeText("1704067200", time.UTC); ok {
		t.Error("timestamps must not parse as text")
	}
	got, ok := ParseDatetimeText("2024-06-20", time.UTC)
	if !ok || got.Day() != 20 {
		t.Errorf("ParseDatetimeText(2024-06-20) = %v, %v", got, ok)
	}
}
