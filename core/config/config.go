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

// Package config loads the tabledemo.ini configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"
)

// Data sources.
const (
	SourceGenerated = "generated"
	SourceCSV       = "csv"
	SourceJSON      = "json"
)

// Config is the complete configuration. Every field has a default, so an
// empty or missing file is valid.
type Config struct {
	Server ServerConfig
	Data   DataConfig
	View   ViewConfig
	Log    LogConfig

	// Raw is the parsed file, for keys not modelled here.
	Raw *ini.File
}

type ServerConfig struct {
	Address string
	Port    int
	// Sessions idle for longer than SessionTTL are dropped; at most
	// MaxSessions are kept.
	SessionTTL  time.Duration
	MaxSessions int
}

type DataConfig struct {
	// Source is one of SourceGenerated, SourceCSV or SourceJSON.
	Source string
	// Path is the file read by the csv and json sources.
	Path string
	// Rows and Seed drive the generated source.
	Rows int
	Seed int64
}

type ViewConfig struct {
	PageSize           int
	AutoResetPageIndex bool
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: "localhost", Port: 8097, SessionTTL: 30 * time.Minute, MaxSessions: 1000},
		Data:   DataConfig{Source: SourceGenerated, Rows: 50000, Seed: 1},
		View:   ViewConfig{PageSize: 10},
		Log:    LogConfig{Level: "info", Pretty: true},
		Raw:    ini.Empty(),
	}
}

// Load reads the file at path on top of the defaults. A missing file is
// not an error; a malformed value is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	raw, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.Raw = raw
	if err := cfg.parse(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads configuration from ini source data, such as a []byte.
func Parse(source any) (*Config, error) {
	raw, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg := Default()
	cfg.Raw = raw
	if err := cfg.parse(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) parse() error {
	var errs []error

	server := cfg.Raw.Section("server")
	cfg.Server.Address = stringKey(server, "address", cfg.Server.Address)
	cfg.Server.Port = intKey(server, "port", cfg.Server.Port, &errs)
	cfg.Server.SessionTTL = durationKey(server, "session_ttl", cfg.Server.SessionTTL, &errs)
	cfg.Server.MaxSessions = intKey(server, "max_sessions", cfg.Server.MaxSessions, &errs)

	data := cfg.Raw.Section("data")
	cfg.Data.Source = stringKey(data, "source", cfg.Data.Source)
	cfg.Data.Path = stringKey(data, "path", cfg.Data.Path)
	cfg.Data.Rows = intKey(data, "rows", cfg.Data.Rows, &errs)
	cfg.Data.Seed = int64(intKey(data, "seed", int(cfg.Data.Seed), &errs))

	view := cfg.Raw.Section("view")
	cfg.View.PageSize = intKey(view, "page_size", cfg.View.PageSize, &errs)
	cfg.View.AutoResetPageIndex = boolKey(view, "auto_reset_page_index", cfg.View.AutoResetPageIndex, &errs)

	logs := cfg.Raw.Section("log")
	cfg.Log.Level = stringKey(logs, "level", cfg.Log.Level)
	cfg.Log.Pretty = boolKey(logs, "pretty", cfg.Log.Pretty, &errs)

	errs = append(errs, cfg.Validate())
	return errors.Join(errs...)
}

func stringKey(section *ini.Section, name, def string) string {
	if !section.HasKey(name) {
		return def
	}
	return section.Key(name).String()
}

func intKey(section *ini.Section, name string, def int, errs *[]error) int {
	if !section.HasKey(name) {
		return def
	}
	v, err := section.Key(name).Int()
	if err != nil {
		*errs = append(*errs, fmt.Errorf("[%s] %s: %w", section.Name(), name, err))
		return def
	}
	return v
}

func durationKey(section *ini.Section, name string, def time.Duration, errs *[]error) time.Duration {
	if !section.HasKey(name) {
		return def
	}
	v, err := section.Key(name).Duration()
	if err != nil {
		*errs = append(*errs, fmt.Errorf("[%s] %s: %w", section.Name(), name, err))
		return def
	}
	return v
}

func boolKey(section *ini.Section, name string, def bool, errs *[]error) bool {
	if !section.HasKey(name) {
		return def
	}
	v, err := section.Key(name).Bool()
	if err != nil {
		*errs = append(*errs, fmt.Errorf("[%s] %s: %w", section.Name(), name, err))
		return def
	}
	return v
}

// Validate checks value ranges.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("[server] port %d out of range", cfg.Server.Port))
	}
	if cfg.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("[server] session_ttl must be positive"))
	}
	if cfg.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("[server] max_sessions must be positive"))
	}
	switch cfg.Data.Source {
	case SourceGenerated:
		if cfg.Data.Rows < 0 {
			errs = append(errs, fmt.Errorf("[data] rows must not be negative"))
		}
	case SourceCSV, SourceJSON:
		if cfg.Data.Path == "" {
			errs = append(errs, fmt.Errorf("[data] path is required for source %q", cfg.Data.Source))
		}
	default:
		errs = append(errs, fmt.Errorf("[data] unknown source %q", cfg.Data.Source))
	}
	if cfg.View.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("[view] page_size must be positive"))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port the server listens on.
func (cfg *Config) Addr() string {
	return net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
}
