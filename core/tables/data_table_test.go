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

package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord(t *testing.T) {
	r := Record{"name": "Rex", "breed": nil}
	assert.Equal(t, "Rex", r.Get("name"))
	assert.True(t, r.Has("name"))
	assert.False(t, r.Has("breed"))
	assert.False(t, r.Has("age"))
	assert.Nil(t, Record(nil).Get("name"))
}

func TestDataTableReplace(t *testing.T) {
	records := []Record{{"name": "Rex"}, {"name": "Tom"}}
	table := NewDataTable("pets", records)
	assert.Equal(t, "pets", table.Name())
	assert.Equal(t, 2, table.Length())
	assert.Equal(t, uint64(1), table.Version())

	// The table keeps its own copy.
	records[0]["name"] = "Max"
	assert.Equal(t, "Rex", table.Records()[0].Get("name"))

	version := table.Replace([]Record{{"name": "Nemo"}})
	assert.Equal(t, uint64(2), version)
	snapshot, v := table.Snapshot()
	assert.Equal(t, version, v)
	assert.Equal(t, []Record{{"name": "Nemo"}}, snapshot)
}

func TestGetColumnNames(t *testing.T) {
	table := NewDataTable("pets", []Record{
		{"species": "dog", "name": "Rex"},
		{"age": 3, "name": "Tom"},
	})
	assert.Equal(t, []string{"name", "species", "age"}, table.GetColumnNames())
}
