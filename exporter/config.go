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

package exporter

import (
	"net/url"
	"time"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	File         FileConfig         `config:"file"`
	Mongo        MongoConfig        `config:"mongo"`
	MetricsWrite MetricsWriteConfig `config:"metricsWrite"`
}

// FileConfig sinks one JSON record per part to stdout or a rotated file.
type FileConfig struct {
	Enabled    bool   `config:"enabled"`
	Console    bool   `config:"console"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"`
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"`
}

func (fc *FileConfig) Validate() {
	if fc.Filename == "" {
		fc.Filename = "parts.log"
	}
	if fc.MaxSize <= 0 {
		fc.MaxSize = 100
	}
	if fc.MaxAge <= 0 {
		fc.MaxAge = 7
	}
	if fc.MaxBackups <= 0 {
		fc.MaxBackups = 10
	}
}

// MongoConfig archives part records as documents.
type MongoConfig struct {
	Enabled    bool          `config:"enabled"`
	URI        string        `config:"uri"`
	Database   string        `config:"database"`
	Collection string        `config:"collection"`
	Timeout    time.Duration `config:"timeout"`
}

func (mc *MongoConfig) Validate() {
	if mc.Database == "" {
		mc.Database = "multipart"
	}
	if mc.Collection == "" {
		mc.Collection = "parts"
	}
	if mc.Timeout <= 0 {
		mc.Timeout = defaultTimeout
	}
}

// MetricsWriteConfig periodically remote-writes parse-session summary
// metrics to a Prometheus-compatible endpoint.
type MetricsWriteConfig struct {
	Enabled  bool              `config:"enabled"`
	Endpoint string            `config:"endpoint"`
	Header   map[string]string `config:"header"`
	Interval time.Duration     `config:"interval"`
	Timeout  time.Duration     `config:"timeout"`
}

func (mc *MetricsWriteConfig) Validate() error {
	if mc.Endpoint != "" {
		if _, err := url.Parse(mc.Endpoint); err != nil {
			return err
		}
	}
	if mc.Timeout <= 0 {
		mc.Timeout = defaultTimeout
	}
	if mc.Interval <= 0 {
		mc.Interval = time.Minute
	}
	return nil
}
