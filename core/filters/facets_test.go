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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

func TestFacetedUniqueValues(t *testing.T) {
	reg := petRegistry(t)
	f := FacetedUniqueValues(petRecords(), reg, "species")

	assert.Equal(t, []FacetEntry{{"dog", 2}, {"cat", 2}, {"fish", 1}}, f.Entries())
	assert.Equal(t, []FacetEntry{{"cat", 2}, {"dog", 2}, {"fish", 1}}, f.Sorted())
	assert.Equal(t, 2, f.Count("dog"))
	assert.Equal(t, 0, f.Count("bird"))
	assert.Equal(t, 3, f.Len())
}

func TestFacetedUniqueValuesCountsUndefinedAndListElements(t *testing.T) {
	reg := petRegistry(t)

	ages := FacetedUniqueValues(petRecords(), reg, "age")
	assert.Equal(t, 2, ages.Count(3))
	assert.Equal(t, 2, ages.Count(3.0), "numeric kinds share a key")
	assert.Equal(t, 1, ages.Count(nil))

	tags := FacetedUniqueValues(petRecords(), reg, "tags")
	assert.Equal(t, 1, tags.Count("quiet"))
	assert.Equal(t, 1, tags.Count("loud"))
	assert.Equal(t, 3, tags.Count(nil))
}

func TestFacetCacheStalenessContract(t *testing.T) {
	reg := petRegistry(t)
	records := petRecords()
	cache := NewFacetCache()

	before := Derive(records, 1, Masks(records, query.FilterState{}, reg), reg, cache)

	// Narrowing other filters leaves the stable species options untouched,
	// while the reachable name options shrink.
	state := query.FilterState{"age": []any{3}}
	after := Derive(records, 1, Masks(records, state, reg), reg, cache)

	assert.Same(t, before["species"], after["species"])
	assert.Equal(t, before["species"].Entries(), after["species"].Entries())
	assert.Equal(t, 5, before["name"].Len())
	assert.Equal(t, []FacetEntry{{"Rex", 1}, {"Fido", 1}}, after["name"].Entries())

	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	// A new record set version invalidates the cache.
	replaced := append(records[:0:0], records...)
	replaced = append(replaced, tables.Record{"species": "bird", "name": "Tweety"})
	fresh := Derive(replaced, 2, Masks(replaced, state, reg), reg, cache)
	assert.Equal(t, 1, fresh["species"].Count("bird"))
	_, misses = cache.Stats()
	assert.Equal(t, 2, misses)
}

func TestReachableFacetsIgnoreOwnFilter(t *testing.T) {
	reg := petRegistry(t)
	records := petRecords()
	state := query.FilterState{"age": []any{3}, "name": "rex"}

	facets := Derive(records, 1, Masks(records, state, reg), reg, nil)

	// age options are restricted by the name filter only.
	assert.Equal(t, []FacetEntry{{3, 1}, {nil, 1}}, facets["age"].Entries())
	// name options are restricted by the age filter only.
	assert.Equal(t, []FacetEntry{{"Rex", 1}, {"Fido", 1}}, facets["name"].Entries())
}
