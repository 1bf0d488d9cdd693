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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// ColumnType is the type inferred for a CSV column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt64
	TypeFloat64
	TypeBool
	TypeDatetime
)

// String returns the string representation of the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	case TypeDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// CsvLoader loads CSV files with a mandatory header row. Column types are
// inferred from the data: a column whose non-empty cells all parse as
// integers holds int64 values, then float64, then bool, then time.Time in
// UTC, otherwise string.
// Empty cells are undefined.
type CsvLoader struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

// Load opens path and reads it with Read.
func (l *CsvLoader) Load(path string) ([]tables.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return l.Read(file)
}

// Read parses CSV data from r.
func (l *CsvLoader) Read(r io.Reader) ([]tables.Record, error) {
	reader := csv.NewReader(r)
	if l.Comma != 0 {
		reader.Comma = l.Comma
	}
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file has no header row")
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
		if header[i] == "" {
			return nil, fmt.Errorf("CSV header column %d is empty", i)
		}
	}
	data := rows[1:]
	types := inferColumnTypes(len(header), data)

	records := make([]tables.Record, len(data))
	for i, row := range data {
		rec := make(tables.Record, len(header))
		for j, name := range header {
			if j >= len(row) || row[j] == "" {
				continue
			}
			v, err := parseCell(row[j], types[j])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, name, err)
			}
			rec[name] = v
		}
		records[i] = rec
	}
	return records, nil
}

func parseCell(s string, t ColumnType) (any, error) {
	switch t {
	case TypeInt64:
		return strconv.ParseInt(s, 10, 64)
	case TypeFloat64:
		return strconv.ParseFloat(s, 64)
	case TypeBool:
		return strconv.ParseBool(s)
	case TypeDatetime:
		t, ok := columns.ParseDatetimeText(s, time.UTC)
		if !ok {
			return nil, fmt.Errorf("unable to parse datetime: %q", s)
		}
		return t, nil
	default:
		return s, nil
	}
}

// inferColumnTypes scans every row to determine column types.
func inferColumnTypes(n int, rows [][]string) []ColumnType {
	types := make([]ColumnType, n)
	for i := range types {
		types[i] = inferColumnType(i, rows)
	}
	return types
}

func inferColumnType(colIdx int, rows [][]string) ColumnType {
	isInt := true
	isFloat := true
	isBool := true
	isDatetime := true
	seen := false

	for _, row := range rows {
		if colIdx >= len(row) || row[colIdx] == "" {
			continue
		}
		val := row[colIdx]
		seen = true

		if isInt {
			if _, err := strconv.ParseInt(val, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if val != "true" && val != "false" {
				isBool = false
			}
		}
		if isDatetime {
			if _, ok := columns.ParseDatetimeText(val, time.UTC); !ok {
				isDatetime = false
			}
		}
	}

	switch {
	case !seen:
		return TypeString
	case isInt:
		return TypeInt64
	case isFloat:
		return TypeFloat64
	case isBool:
		return TypeBool
	case isDatetime:
		return TypeDatetime
	}
	return TypeString
}
