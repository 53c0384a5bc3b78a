// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server hosts the upload demo HTTP server: it owns the
// gorilla/mux router and listener, but none of the multipart parsing
// itself, which lives in upload.go on top of the root multipart package.
package server

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"

	"github.com/packetd/multipart/confengine"
	"github.com/packetd/multipart/exporter"
	"github.com/packetd/multipart/internal/pubsub"
	"github.com/packetd/multipart/logger"
)

type Config struct {
	Enabled       bool          `config:"enabled"`
	Address       string        `config:"address"`
	Pprof         bool          `config:"pprof"`
	Timeout       time.Duration `config:"timeout"`
	MaxUploadSize int64         `config:"maxUploadSize"`
}

type Server struct {
	config Config
	router *mux.Router
	server *http.Server

	ps  *pubsub.PubSub
	exp *exporter.Exporter
}

// New builds a Server from the "server" child of conf. It returns a nil
// Server (and no error) when the server is disabled; callers must check.
func New(conf *confengine.Config) (*Server, error) {
	var config Config
	if err := conf.UnpackChild("server", &config); err != nil {
		return nil, err
	}
	if !config.Enabled {
		return nil, nil
	}
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = 32 << 20
	}

	router := mux.NewRouter()
	s := &Server{
		config: config,
		router: router,
		server: &http.Server{
			Handler:      router,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
		},
		ps: pubsub.New(),
	}
	if config.Pprof {
		s.registerPprofRoutes()
	}
	return s, nil
}

// Mount wires exp into the server and registers the upload, watch and
// metrics routes. It must be called before ListenAndServe.
func (s *Server) Mount(exp *exporter.Exporter) {
	s.exp = exp
	s.setupRoutes()
}

// Handler returns the server's routed handler, for tests that want to
// drive requests through httptest without binding a real listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	logger.Infof("server listening on %s", s.config.Address)
	return s.server.Serve(l)
}

func (s *Server) RegisterGetRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodGet).Path(path).HandlerFunc(f)
}

func (s *Server) RegisterPostRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodPost).Path(path).HandlerFunc(f)
}

func (s *Server) registerPprofRoutes() {
	s.RegisterGetRoute("/debug/pprof/cmdline", pprof.Cmdline)
	s.RegisterGetRoute("/debug/pprof/profile", pprof.Profile)
	s.RegisterGetRoute("/debug/pprof/symbol", pprof.Symbol)
	s.RegisterGetRoute("/debug/pprof/trace", pprof.Trace)
	s.RegisterGetRoute("/debug/pprof/{other}", pprof.Index)
}
