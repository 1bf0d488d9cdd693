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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/config"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/rendering"
	"github.com/navespenhw/tanstack-table-demo/core/server"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
	"github.com/navespenhw/tanstack-table-demo/core/views"
	"github.com/navespenhw/tanstack-table-demo/datasources"
	"github.com/navespenhw/tanstack-table-demo/demo"
)

func main() {
	configPath := flag.String("config", "tabledemo.ini", "path to the configuration file")
	ascii := flag.Bool("ascii", false, "print the first page of the table and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg.Log)

	manager := datasources.NewManager()
	table, registry, err := loadTable(cfg.Data, manager)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load data")
	}

	if *ascii {
		if err := printAscii(table, registry, cfg.View); err != nil {
			log.Fatal().Err(err).Msg("failed to print table")
		}
		return
	}

	srv, err := server.NewServer(table, registry,
		server.WithPageSize(cfg.View.PageSize),
		server.WithAutoResetPageIndex(cfg.View.AutoResetPageIndex),
		server.WithSessionTTL(cfg.Server.SessionTTL),
		server.WithMaxSessions(cfg.Server.MaxSessions),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reloadOnHangup(ctx, cfg.Data, manager)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(cfg.Addr()) }()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// loadTable returns the table and columns for the configured data source.
// Generated pets use the pet columns; files get inferred columns.
func loadTable(cfg config.DataConfig, manager *datasources.Manager) (*tables.DataTable, *columns.Registry, error) {
	if cfg.Source == config.SourceGenerated {
		start := time.Now()
		table := demo.NewPetTable(cfg.Rows, cfg.Seed)
		log.Info().Int("rows", table.Length()).Int64("seed", cfg.Seed).Dur("took", time.Since(start)).Msg("pets generated")
		return table, demo.PetColumns(), nil
	}
	table, err := manager.LoadData(cfg.Source, cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	registry, err := datasources.InferColumns(table)
	if err != nil {
		return nil, nil, err
	}
	return table, registry, nil
}

// reloadOnHangup re-reads file sources on SIGHUP. Open sessions pick up
// the new records on their next request.
func reloadOnHangup(ctx context.Context, cfg config.DataConfig, manager *datasources.Manager) {
	if cfg.Source == config.SourceGenerated {
		return
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if _, err := manager.Reload(cfg.Source, cfg.Path); err != nil {
				log.Error().Err(err).Msg("reload failed")
			}
		}
	}
}

func printAscii(table *tables.DataTable, registry *columns.Registry, cfg config.ViewConfig) error {
	state := query.NewViewState()
	state.Pagination.PageSize = cfg.PageSize
	ctl, err := views.NewController(table, registry, views.WithState(state))
	if err != nil {
		return err
	}
	if err := rendering.WriteAscii(os.Stdout, ctl.ViewModel("/")); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}
