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

// Package server exposes table views over HTTP: stateless pages whose view
// state lives in the URL, and sessions whose state is changed by commands.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/navespenhw/tanstack-table-demo/core/columns"
	"github.com/navespenhw/tanstack-table-demo/core/filters"
	"github.com/navespenhw/tanstack-table-demo/core/query"
	"github.com/navespenhw/tanstack-table-demo/core/rendering"
	"github.com/navespenhw/tanstack-table-demo/core/tables"
	"github.com/navespenhw/tanstack-table-demo/core/views"
)

// Server represents the application server with all its dependencies
type Server struct {
	table    *tables.DataTable
	registry *columns.Registry
	renderer *rendering.TableRenderer

	// Shared by every controller of the table, so stable facets are
	// computed once per record set.
	facets *filters.FacetCache

	autoResetPageIndex bool
	pageSize           int
	sessionTTL         time.Duration
	maxSessions        int
	now                func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry

	echo *echo.Echo
}

// Session limits used unless overridden by options.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
)

type sessionEntry struct {
	ctl      *views.Controller
	lastUsed time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithAutoResetPageIndex is passed on to every controller.
func WithAutoResetPageIndex(enabled bool) Option {
	return func(s *Server) { s.autoResetPageIndex = enabled }
}

// WithPageSize sets the page size used when a URL does not carry one.
func WithPageSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithSessionTTL drops sessions that were not used for ttl.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMaxSessions caps the number of open sessions. Creating one more
// drops the least recently used session.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// NewServer creates a server for one table and registers its routes.
func NewServer(table *tables.DataTable, registry *columns.Registry, opts ...Option) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	s := &Server{
		table:    table,
		registry: registry,
		renderer: renderer,
		facets:   filters.NewFacetCache(),
		pageSize:    query.DefaultPageSize,
		sessionTTL:  DefaultSessionTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
		echo:        echo.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(requestLogger())
	s.RegisterRoutes(s.echo)
	return s, nil
}

// RegisterRoutes adds the page and API routes to e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/", s.GetPage)
	e.GET("/table.txt", s.GetText)

	api := e.Group("/api")
	api.GET("/table", s.GetTable)
	api.POST("/sessions", s.CreateSession)
	api.GET("/sessions/:id", s.GetSession)
	api.DELETE("/sessions/:id", s.DeleteSession)
	api.POST("/sessions/:id/commands", s.PostCommand)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Str("table", s.table.Name()).Msg("server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestLogger logs every request through zerolog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// controllerFor builds a throwaway controller for a view state carried in
// the request URL.
func (s *Server) controllerFor(c echo.Context) (*views.Controller, error) {
	q := query.NewQuery(c.Request().URL)
	if c.QueryParam("size") == "" {
		q.State.Pagination.PageSize = s.pageSize
	}
	ctl, err := views.NewController(s.table, s.registry, s.controllerOptions(q.State)...)
	if err != nil {
		return nil, stateError(err)
	}
	return ctl, nil
}

func (s *Server) controllerOptions(state query.ViewState) []views.Option {
	return []views.Option{
		views.WithState(state),
		views.WithFacetCache(s.facets),
		views.WithAutoResetPageIndex(s.autoResetPageIndex),
	}
}

// GetPage renders the HTML page for the view state in the URL.
func (s *Server) GetPage(c echo.Context) error {
	ctl, err := s.controllerFor(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, ctl.ViewModel(c.Request().URL.Path)); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// GetText renders the view state in the URL as an ASCII table.
func (s *Server) GetText(c echo.Context) error {
	ctl, err := s.controllerFor(c)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, rendering.ToAscii(ctl.ViewModel("/")))
}

// GetTable returns the view model for the view state in the URL.
func (s *Server) GetTable(c echo.Context) error {
	ctl, err := s.controllerFor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ctl.ViewModel("/"))
}

// sessionResponse is returned by every session endpoint.
type sessionResponse struct {
	ID    string                `json:"id"`
	State query.ViewState       `json:"state"`
	View  *views.TableViewModel `json:"view"`
}

func newSessionResponse(id string, ctl *views.Controller) sessionResponse {
	return sessionResponse{ID: id, State: ctl.State(), View: ctl.ViewModel("/")}
}

// CreateSession starts a session whose initial state is taken from the URL.
func (s *Server) CreateSession(c echo.Context) error {
	ctl, err := s.controllerFor(c)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	s.mu.Lock()
	now := s.now()
	s.evictLocked(now)
	s.sessions[id] = &sessionEntry{ctl: ctl, lastUsed: now}
	s.mu.Unlock()
	log.Debug().Str("session", id).Msg("session created")
	return c.JSON(http.StatusCreated, newSessionResponse(id, ctl))
}

// evictLocked drops expired sessions and, when the server is full, the
// least recently used one. s.mu must be held.
func (s *Server) evictLocked(now time.Time) {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.sessions {
		if now.Sub(entry.lastUsed) > s.sessionTTL {
			delete(s.sessions, id)
			log.Debug().Str("session", id).Msg("session expired")
			continue
		}
		if oldestID == "" || entry.lastUsed.Before(oldest) {
			oldestID, oldest = id, entry.lastUsed
		}
	}
	if len(s.sessions) >= s.maxSessions && oldestID != "" {
		delete(s.sessions, oldestID)
		log.Debug().Str("session", oldestID).Msg("session evicted")
	}
}

// session looks up the session named in the path and marks it used.
func (s *Server) session(c echo.Context) (string, *views.Controller, error) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	now := s.now()
	if ok && now.Sub(entry.lastUsed) > s.sessionTTL {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		return id, nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("session %q not found", id))
	}
	entry.lastUsed = now
	return id, entry.ctl, nil
}

// GetSession returns the current view of a session, re-deriving it first
// if the table was reloaded.
func (s *Server) GetSession(c echo.Context) error {
	id, ctl, err := s.session(c)
	if err != nil {
		return err
	}
	ctl.Refresh()
	return c.JSON(http.StatusOK, newSessionResponse(id, ctl))
}

// DeleteSession ends a session.
func (s *Server) DeleteSession(c echo.Context) error {
	id, _, err := s.session(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

// PostCommand applies one command to a session.
func (s *Server) PostCommand(c echo.Context) error {
	id, ctl, err := s.session(c)
	if err != nil {
		return err
	}
	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := req.Command()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	start := time.Now()
	if _, err := ctl.Dispatch(cmd); err != nil {
		return stateError(err)
	}
	log.Debug().Str("session", id).Str("command", cmd.Name()).Dur("took", time.Since(start)).Msg("command applied")
	return c.JSON(http.StatusOK, newSessionResponse(id, ctl))
}

// stateError turns a rejected view state into a 400 response.
func stateError(err error) error {
	if errors.Is(err, views.ErrInvalidState) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return err
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
