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

// Package views holds the view-state controller, which runs the derivation
// pipeline (filter, group, sort, paginate) and builds view models for
// renderers.
package views

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/filters"
	"github.com/navespenhw/tanstack-table-demo/core/grouping"
	"github.com/navespenhw/tanstack-table-demo/core/pagination"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/sorting"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// Timings records how long each stage of one pipeline pass took.
type Timings struct {
	Filter   time.Duration
	Facets   time.Duration
	Group    time.Duration
	Sort     time.Duration
	Paginate time.Duration
}

// Total returns the duration of the whole pass.
func (t Timings) Total() time.Duration {
	return t.Filter + t.Facets + t.Group + t.Sort + t.Paginate
}

// Result is the output of one complete pipeline pass. It is never modified
// after it has been published.
type Result struct {
	Page pagination.Page
	// RowCount is the number of records passing the filters.
	RowCount int
	// UnfilteredRowCount is the number of records in the table.
	UnfilteredRowCount int
	Facets             map[string]*filters.FacetIndex
	Version            uint64
	Timings            Timings
}

// HiddenByFilters is the number of records removed by the filters.
func (r *Result) HiddenByFilters() int {
	return r.UnfilteredRowCount - r.RowCount
}

// Controller owns the view state of one table view. It is the only mutator
// of that state: every intent goes through Dispatch, which runs a full
// pipeline pass before the new state and result become visible.
type Controller struct {
	mu       sync.Mutex
	table    *tables.DataTable
	registry *columns.Registry
	facets   *filters.FacetCache

	autoResetPageIndex bool

	state  query.ViewState
	result *Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithState sets the initial view state. It is validated by NewController.
func WithState(s query.ViewState) Option {
	return func(c *Controller) { c.state = s.Clone() }
}

// WithFacetCache shares a facet cache between controllers of one table.
func WithFacetCache(cache *filters.FacetCache) Option {
	return func(c *Controller) { c.facets = cache }
}

// WithAutoResetPageIndex makes filter, sort and grouping intents return to
// the first page. Off by default: the page index is kept and clamped.
func WithAutoResetPageIndex(enabled bool) Option {
	return func(c *Controller) { c.autoResetPageIndex = enabled }
}

// NewController creates a controller and runs the first pipeline pass.
func NewController(table *tables.DataTable, registry *columns.Registry, opts ...Option) (*Controller, error) {
	if table == nil || registry == nil {
		return nil, errors.New("views: table and registry are required")
	}
	c := &Controller{
		table:    table,
		registry: registry,
		state:    query.NewViewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.facets == nil {
		c.facets = filters.NewFacetCache()
	}
	normalizeFilters(&c.state, registry)
	if err := Validate(c.state, registry); err != nil {
		return nil, err
	}
	records, version := table.Snapshot()
	c.result = c.derive(records, version, c.state)
	return c, nil
}

// normalizeFilters drops filter entries that mean "no filter" and brings
// the others into canonical form.
func normalizeFilters(s *query.ViewState, reg *columns.Registry) {
	for id, value := range s.Filters {
		col := reg.Column(id)
		if col == nil {
			continue
		}
		if normalized, ok := filters.Normalize(col.FilterKind(), value); ok {
			s.Filters[id] = normalized
		} else {
			delete(s.Filters, id)
		}
	}
}

// Dispatch applies one intent. The state is changed only if the intent is
// valid; on error the previous state and result stay in place.
func (c *Controller) Dispatch(cmd Command) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	if err := cmd.apply(&next, c.registry); err != nil {
		log.Debug().Err(err).Str("command", cmd.Name()).Msg("intent rejected")
		return c.result, err
	}
	if c.autoResetPageIndex && cmd.resetsPage() {
		next.Pagination.PageIndex = 0
	}
	records, version := c.table.Snapshot()
	result := c.derive(records, version, next)
	c.state = next
	c.result = result
	return result, nil
}

// SetState replaces the whole view state, for hosts that keep the state
// outside the controller (for example in a URL).
func (c *Controller) SetState(s query.ViewState) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := s.Clone()
	normalizeFilters(&next, c.registry)
	if err := Validate(next, c.registry); err != nil {
		return c.result, err
	}
	records, version := c.table.Snapshot()
	result := c.derive(records, version, next)
	c.state = next
	c.result = result
	return result, nil
}

// Load replaces the record set of the table wholesale and re-derives.
func (c *Controller) Load(records []tables.Record) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.table.Replace(records)
	snapshot, version := c.table.Snapshot()
	c.result = c.derive(snapshot, version, c.state)
	log.Info().Str("table", c.table.Name()).Int("records", len(snapshot)).Uint64("version", version).Msg("records loaded")
	return c.result
}

// Refresh re-derives if the table was replaced since the last pass, which
// happens when several controllers share one table.
func (c *Controller) Refresh() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, version := c.table.Snapshot()
	if version != c.result.Version {
		c.result = c.derive(records, version, c.state)
	}
	return c.result
}

// State returns a copy of the current view state.
func (c *Controller) State() query.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Result returns the result of the last complete pipeline pass.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) Registry() *columns.Registry {
	return c.registry
}

func (c *Controller) Table() *tables.DataTable {
	return c.table
}

// derive runs filter, facets, group, sort and paginate over records.
func (c *Controller) derive(records []tables.Record, version uint64, s query.ViewState) *Result {
	var timings Timings

	start := time.Now()
	masks := filters.Masks(records, s.Filters, c.registry)
	visible := filters.Indices(filters.Combine(masks, len(records), ""))
	timings.Filter = time.Since(start)

	start = time.Now()
	facets := filters.Derive(records, version, masks, c.registry, c.facets)
	timings.Facets = time.Since(start)

	start = time.Now()
	rows := grouping.GroupIndices(records, visible, s.Grouping, c.registry)
	timings.Group = time.Since(start)

	var page pagination.Page
	if len(s.Grouping) == 0 {
		// Flat rows: only the pages up to the current one need ordering.
		start = time.Now()
		index, from, to := pagination.Bounds(len(rows), s.Pagination)
		top := sorting.TopK(rows, s.Sorting, c.registry, to)
		timings.Sort = time.Since(start)

		start = time.Now()
		page = pagination.NewPage(top[from:to], index, s.Pagination.PageSize, len(rows))
		timings.Paginate = time.Since(start)
	} else {
		start = time.Now()
		sorted := sorting.Sort(rows, s.Sorting, c.registry)
		timings.Sort = time.Since(start)

		start = time.Now()
		page = pagination.Paginate(sorted, s.Pagination)
		timings.Paginate = time.Since(start)
	}

	result := &Result{
		Page:               page,
		RowCount:           len(visible),
		UnfilteredRowCount: len(records),
		Facets:             facets,
		Version:            version,
		Timings:            timings,
	}
	log.Debug().
		Str("table", c.table.Name()).
		Uint64("version", version).
		Int("records", len(records)).
		Int("visible", len(visible)).
		Int("page", page.PageIndex).
		Int("pages", page.PageCount).
		Dur("filter", timings.Filter).
		Dur("facets", timings.Facets).
		Dur("group", timings.Group).
		Dur("sort", timings.Sort).
		Dur("paginate", timings.Paginate).
		Msg("view derived")
	return result
}
