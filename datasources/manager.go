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
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// Manager handles loading and caching of data sources.
// Data is loaded lazily on demand and cached per source type and path.
type Manager struct {
	mu sync.RWMutex

	// Cached tables indexed by source type and absolute path
	tables map[sourceKey]*tables.DataTable

	// Registered loaders indexed by source type
	loaders map[string]Loader

	// Base directory for resolving relative paths
	baseDir string
}

type sourceKey struct {
	sourceType string
	path       string
}

// NewManager creates a new data source manager with the CSV and JSON
// loaders registered.
func NewManager() *Manager {
	m := &Manager{
		tables:  make(map[sourceKey]*tables.DataTable),
		loaders: make(map[string]Loader),
	}
	m.RegisterLoader(NewCsvLoader())
	m.RegisterLoader(NewJsonLoader())
	return m
}

// RegisterLoader registers a loader for its source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SourceTypes returns the registered source types, sorted.
func (m *Manager) SourceTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.loaders))
	for t := range m.loaders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// SetBaseDir sets the base directory for resolving relative paths.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// LoadData loads the file at path with the loader for sourceType.
// Returns the cached table if it was already loaded.
func (m *Manager) LoadData(sourceType, path string) (*tables.DataTable, error) {
	m.mu.RLock()
	key := sourceKey{sourceType, m.resolve(path)}
	if table, ok := m.tables[key]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	loader, ok := m.loaders[sourceType]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, sourceType)
	}

	records, err := loader.Load(key.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s source %s: %w", sourceType, key.path, err)
	}
	log.Info().Str("source", sourceType).Str("path", key.path).Int("records", len(records)).Msg("data source loaded")

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile; keep the first table.
	if table, ok := m.tables[key]; ok {
		return table, nil
	}
	table := tables.NewDataTable(filepath.Base(key.path), records)
	m.tables[key] = table
	return table, nil
}

// Reload reads the source again and replaces the records of the cached
// table, bumping its version. The table is loaded if it was not cached.
func (m *Manager) Reload(sourceType, path string) (*tables.DataTable, error) {
	m.mu.RLock()
	key := sourceKey{sourceType, m.resolve(path)}
	table, cached := m.tables[key]
	loader, ok := m.loaders[sourceType]
	m.mu.RUnlock()
	if !cached {
		return m.LoadData(sourceType, path)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, sourceType)
	}
	records, err := loader.Load(key.path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s source %s: %w", sourceType, key.path, err)
	}
	version := table.Replace(records)
	log.Info().Str("source", sourceType).Str("path", key.path).Uint64("version", version).Msg("data source reloaded")
	return table, nil
}

// IsLoaded reports whether the source is cached.
func (m *Manager) IsLoaded(sourceType, path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceKey{sourceType, m.resolve(path)}]
	return ok
}

// InvalidateCache drops the cached table for a source.
func (m *Manager) InvalidateCache(sourceType, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, sourceKey{sourceType, m.resolve(path)})
}

// resolve must be called with mu held.
func (m *Manager) resolve(path string) string {
	if !filepath.IsAbs(path) && m.baseDir != "" {
		path = filepath.Join(m.baseDir, path)
	}
	return filepath.Clean(path)
}
