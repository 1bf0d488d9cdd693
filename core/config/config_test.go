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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, Default().Data, cfg.Data)
	assert.Equal(t, "localhost:8097", cfg.Addr())

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.View.PageSize)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabledemo.ini")
	content := `
[server]
address = 0.0.0.0
port = 9000
session_ttl = 5m
max_sessions = 20

[data]
source = csv
path = pets.csv

[view]
page_size = 25
auto_reset_page_index = true

[log]
level = debug
pretty = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ServerConfig{Address: "0.0.0.0", Port: 9000, SessionTTL: 5 * time.Minute, MaxSessions: 20}, cfg.Server)
	assert.Equal(t, DataConfig{Source: SourceCSV, Path: "pets.csv", Rows: 50000, Seed: 1}, cfg.Data)
	assert.Equal(t, ViewConfig{PageSize: 25, AutoResetPageIndex: true}, cfg.View)
	assert.Equal(t, LogConfig{Level: "debug", Pretty: false}, cfg.Log)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad port", "[server]\nport = http\n", "[server] port"},
		{"port out of range", "[server]\nport = 70000\n", "out of range"},
		{"bad bool", "[view]\nauto_reset_page_index = maybe\n", "auto_reset_page_index"},
		{"unknown source", "[data]\nsource = ftp\n", `unknown source "ftp"`},
		{"csv without path", "[data]\nsource = csv\n", "path is required"},
		{"bad session ttl", "[server]\nsession_ttl = soon\n", "[server] session_ttl"},
		{"zero session ttl", "[server]\nsession_ttl = 0s\n", "session_ttl must be positive"},
		{"zero max sessions", "[server]\nmax_sessions = 0\n", "max_sessions must be positive"},
		{"zero page size", "[view]\npage_size = 0\n", "page_size must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseGenerated(t *testing.T) {
	cfg, err := Parse([]byte("[data]\nrows = 100\nseed = 42\n"))
	require.NoError(t, err)
	assert.Equal(t, DataConfig{Source: SourceGenerated, Rows: 100, Seed: 42}, cfg.Data)
}
