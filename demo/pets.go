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

// Package demo generates the pet adoption table used by the demo server.
package demo

import (
	"math"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// Species lists every species a generated pet can have.
var Species = []string{"bird", "cat", "dog", "fish", "horse", "rabbit", "snake"}

// FishBreeds are picked for fish, which gofakeit has no generator for.
var FishBreeds = []string{
	"Angelfish", "Betta", "Clownfish", "Corydoras", "Discus", "Goldfish",
	"Guppy", "Koi", "Molly", "Neon tetra", "Oscar", "Platy", "Swordtail",
}

var amountLocale = language.MustParse("nb-NO")

// GeneratePets returns n pets. The same seed always yields the same pets.
func GeneratePets(n int, seed int64) []tables.Record {
	f := gofakeit.New(uint64(seed))
	breeds := map[string]func() string{
		"bird": f.Bird,
		"cat":  f.Cat,
		"dog":  f.Dog,
		"fish": func() string { return f.RandomString(FishBreeds) },
	}

	pets := make([]tables.Record, n)
	for i := range pets {
		species := f.RandomString(Species)
		pet := tables.Record{
			"name":    f.PetName(),
			"species": species,
			"age":     f.IntRange(1, 23),
		}
		if breed, ok := breeds[species]; ok {
			pet["breed"] = breed()
		}
		if f.Bool() {
			amount := decimal.NewFromFloat(f.Float64Range(0, 10000)).Round(2)
			pet["amountRaised"] = amount.InexactFloat64()
		}
		pets[i] = pet
	}
	return pets
}

// NewPetTable wraps GeneratePets in a table.
func NewPetTable(n int, seed int64) *tables.DataTable {
	return tables.NewDataTable("pets", GeneratePets(n, seed))
}

// PetColumns declares the columns of the pet table.
func PetColumns() *columns.Registry {
	return columns.MustDeclare([]*columns.ColumnDef{
		columns.NewColumn("species",
			columns.WithHeader("Species"),
			columns.WithFilter(columns.FilterMultiSelect),
			columns.WithFacetPolicy(columns.FacetStable),
			columns.WithGrouping(true),
			columns.WithCell(TitleCase),
		),
		columns.NewColumn("breed",
			columns.WithHeader("Breed"),
			columns.WithAggregation(columns.AggUniqueCount),
			columns.WithSortUndefined(columns.UndefinedLast),
			columns.WithAggregatedCell(countLabel("breeds")),
		),
		columns.NewColumn("name",
			columns.WithHeader("Name"),
			columns.WithFilter(columns.FilterText),
			columns.WithAggregation(columns.AggUniqueCount),
			columns.WithAggregatedCell(countLabel("distinct names")),
		),
		columns.NewColumn("age",
			columns.WithHeader("Age"),
			columns.WithAggregation(columns.AggMean),
			columns.WithAggregatedCell(meanAge),
		),
		columns.NewColumn("amountRaised",
			columns.WithHeader("Amount raised"),
			columns.WithSortingFn(columns.SortAlphanumeric),
			columns.WithSortUndefined(columns.UndefinedLast),
			columns.WithAggregation(columns.AggSum),
			columns.WithCell(FormatAmount),
			columns.WithMeta("textAlign", "right"),
		),
		columns.NewDisplayColumn("actions"),
	})
}

// TitleCase upper-cases the first letter of a string value and lower-cases
// the rest.
func TitleCase(value any) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}

// FormatAmount renders an amount with two decimals in Norwegian notation.
// Undefined and zero amounts render empty.
func FormatAmount(value any) string {
	v, ok := columns.ToFloat64(value)
	if !ok || v == 0 || math.IsNaN(v) {
		return ""
	}
	return message.NewPrinter(amountLocale).Sprintf("%.2f", v)
}

func countLabel(noun string) columns.CellRenderer {
	return func(value any) string {
		n, ok := value.(int)
		if !ok || n <= 1 {
			return ""
		}
		return strconv.Itoa(n) + " " + noun
	}
}

func meanAge(value any) string {
	v, ok := columns.ToFloat64(value)
	if !ok {
		return ""
	}
	return "Mean age: " + strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
