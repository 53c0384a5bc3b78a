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

// Package file sinks one JSON record per part to stdout or a
// lumberjack-rotated file.
package file

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/packetd/multipart/exporter"
	"github.com/packetd/multipart/internal/json"
)

func init() {
	exporter.Register(exporter.SinkFile, New)
}

type Sinker struct {
	wr      io.WriteCloser
	encoder interface{ Encode(any) error }
}

// New constructs the file sink from conf.File.
func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.File
	cfg.Validate()

	var wr io.WriteCloser
	if cfg.Console {
		wr = os.Stdout
	} else {
		wr = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  true,
		}
	}

	return &Sinker{wr: wr, encoder: json.NewEncoder(wr)}, nil
}

func (s *Sinker) Name() exporter.SinkKind {
	return exporter.SinkFile
}

func (s *Sinker) Sink(data any) error {
	rec, ok := data.(exporter.PartRecord)
	if !ok {
		return nil
	}
	return s.encoder.Encode(rec)
}

func (s *Sinker) Close() {
	s.wr.Close()
}
