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

// Package datasources loads record sets from files. Loaders are registered
// with a Manager under their source type; the Manager caches loaded tables
// per path.
package datasources

import (
	"errors"

	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// ErrUnknownSource is returned when no loader is registered for a source type.
var ErrUnknownSource = errors.New("unknown source type")

// Loader is the interface that all data source loaders must implement.
type Loader interface {
	// SourceType returns the type identifier used in config (e.g. "csv", "json").
	SourceType() string

	// Load reads every record from path. Missing or null cells are left
	// out of the record so they read as undefined.
	Load(path string) ([]tables.Record, error)
}
