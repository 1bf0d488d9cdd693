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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

const petsCSV = `name,species,age,amountRaised,adopted
Rex,dog,3,12.5,true
Tom,cat,,7,false
Nemo,fish,1,,
`

const petsJSON = `[
  {"name": "Rex", "species": "dog", "age": 3, "tags": ["good", "loud"]},
  {"name": "Tom", "species": "cat", "age": null}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCsvLoaderTypes(t *testing.T) {
	records, err := NewCsvLoader().Read(strings.NewReader(petsCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, tables.Record{"name": "Rex", "species": "dog", "age": int64(3), "amountRaised": 12.5, "adopted": true}, records[0])
	assert.Equal(t, tables.Record{"name": "Tom", "species": "cat", "amountRaised": 7.0, "adopted": false}, records[1])
	assert.False(t, records[2].Has("amountRaised"))
	assert.False(t, records[2].Has("adopted"))
}

func TestCsvLoaderDatetime(t *testing.T) {
	records, err := NewCsvLoader().Read(strings.NewReader("name,adopted\nRex,2024-01-15\nTom,\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), records[0].Get("adopted"))
	assert.False(t, records[1].Has("adopted"))
}

func TestCsvLoaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no header", "", "no header row"},
		{"blank header", "name,,age\n", "header column 1 is empty"},
		{"bad quoting", "name\n\"Rex\n", "failed to read CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCsvLoader().Read(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  ColumnType
	}{
		{"ints", []string{"1", "", "-4"}, TypeInt64},
		{"floats", []string{"1", "2.5"}, TypeFloat64},
		{"bools", []string{"true", "false"}, TypeBool},
		{"dates", []string{"2024-01-15", "", "2024-06-20 14:45:30"}, TypeDatetime},
		{"timestamps stay ints", []string{"1704067200"}, TypeInt64},
		{"mixed", []string{"1", "x"}, TypeString},
		{"empty", []string{"", ""}, TypeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]string, len(tt.cells))
			for i, c := range tt.cells {
				rows[i] = []string{c}
			}
			assert.Equal(t, tt.want, inferColumnType(0, rows))
		})
	}
}

func TestJsonLoader(t *testing.T) {
	records, err := NewJsonLoader().Parse([]byte(petsJSON))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 3.0, records[0].Get("age"))
	assert.Equal(t, []any{"good", "loud"}, records[0].Get("tags"))
	assert.False(t, records[1].Has("age"))
	_, present := records[1]["age"]
	assert.False(t, present)

	_, err = NewJsonLoader().Parse([]byte(`[1, 2]`))
	assert.ErrorContains(t, err, "element 0 is not an object")
	_, err = NewJsonLoader().Parse([]byte(`{"name": "Rex"}`))
	assert.ErrorContains(t, err, "failed to parse JSON")
}

func TestManagerCaches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pets.csv", petsCSV)

	m := NewManager()
	m.SetBaseDir(dir)
	assert.Equal(t, []string{"csv", "json"}, m.SourceTypes())
	assert.False(t, m.IsLoaded("csv", "pets.csv"))

	table, err := m.LoadData("csv", "pets.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Length())
	assert.Equal(t, "pets.csv", table.Name())
	assert.True(t, m.IsLoaded("csv", "pets.csv"))

	again, err := m.LoadData("csv", filepath.Join(dir, "pets.csv"))
	require.NoError(t, err)
	assert.Same(t, table, again)

	m.InvalidateCache("csv", "pets.csv")
	assert.False(t, m.IsLoaded("csv", "pets.csv"))
}

func TestManagerReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pets.json", petsJSON)

	m := NewManager()
	table, err := m.LoadData("json", path)
	require.NoError(t, err)
	version := table.Version()

	writeFile(t, dir, "pets.json", `[{"name": "Solo"}]`)
	reloaded, err := m.Reload("json", path)
	require.NoError(t, err)
	assert.Same(t, table, reloaded)
	assert.Equal(t, 1, table.Length())
	assert.Greater(t, table.Version(), version)
}

func TestManagerErrors(t *testing.T) {
	m := NewManager()
	_, err := m.LoadData("postgres", "x")
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = m.LoadData("csv", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "failed to open CSV file")
}
