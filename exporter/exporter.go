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
	"context"
	"sync"
	"time"

	"github.com/prometheus/prometheus/prompb"

	"github.com/packetd/multipart/confengine"
	"github.com/packetd/multipart/internal/fasttime"
	"github.com/packetd/multipart/logger"
)

// Exporter owns the configured sinks' lifecycle and fans each completed
// PartRecord out to them.
type Exporter struct {
	ctx    context.Context
	cancel context.CancelFunc
	conf   Config

	fileSinker         Sinker
	mongoSinker        Sinker
	metricsWriteSinker Sinker

	summary *summary
}

// New builds an Exporter from the "exporter" child of conf, constructing
// whichever sinks are enabled.
func New(conf *confengine.Config) (*Exporter, error) {
	var cfg Config
	if err := conf.UnpackChild("exporter", &cfg); err != nil {
		return nil, err
	}

	var fileSinker, mongoSinker, metricsWriteSinker Sinker
	var err error

	if cfg.File.Enabled {
		if fileSinker, err = Get(SinkFile)(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Mongo.Enabled {
		if mongoSinker, err = Get(SinkMongo)(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.MetricsWrite.Enabled {
		if metricsWriteSinker, err = Get(SinkMetricsWrite)(cfg); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		ctx:                ctx,
		cancel:             cancel,
		conf:               cfg,
		fileSinker:         fileSinker,
		mongoSinker:        mongoSinker,
		metricsWriteSinker: metricsWriteSinker,
		summary:            newSummary(),
	}, nil
}

// Start launches the background loop that periodically remote-writes
// summary metrics, if that sink is enabled.
func (e *Exporter) Start() {
	if e.conf.MetricsWrite.Enabled {
		go e.loopExportMetricsWrite()
	}
}

// Export fans record out to every enabled sink, logging (but not
// failing on) individual sink errors.
func (e *Exporter) Export(record PartRecord) {
	if e.fileSinker != nil {
		if err := e.fileSinker.Sink(record); err != nil {
			logger.Errorf("sink file record failed: %v", err)
		}
	}
	if e.mongoSinker != nil {
		if err := e.mongoSinker.Sink(record); err != nil {
			logger.Errorf("sink mongo record failed: %v", err)
		}
	}
	if e.conf.MetricsWrite.Enabled {
		e.summary.add(record)
	}
}

// Close stops the background loop and releases every enabled sink.
func (e *Exporter) Close() {
	e.cancel()
	if e.fileSinker != nil {
		e.fileSinker.Close()
	}
	if e.mongoSinker != nil {
		e.mongoSinker.Close()
	}
	if e.metricsWriteSinker != nil {
		e.metricsWriteSinker.Close()
	}
}

func (e *Exporter) loopExportMetricsWrite() {
	ticker := time.NewTicker(e.conf.MetricsWrite.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			wr := e.summary.writeRequestAndReset()
			if err := e.metricsWriteSinker.Sink(wr); err != nil {
				logger.Errorf("sink metrics write request failed: %v", err)
			}
		}
	}
}

// summary accumulates parts-per-interval / bytes-per-interval counters
// between metricsWrite ticks.
type summary struct {
	mut   sync.Mutex
	parts int64
	bytes int64
}

func newSummary() *summary {
	return &summary{}
}

func (s *summary) add(record PartRecord) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.parts++
	s.bytes += int64(record.Size)
}

func (s *summary) writeRequestAndReset() *prompb.WriteRequest {
	s.mut.Lock()
	parts, bytes := s.parts, s.bytes
	s.parts, s.bytes = 0, 0
	s.mut.Unlock()

	now := fasttime.UnixTimestamp() * 1000
	return &prompb.WriteRequest{
		Timeseries: []prompb.TimeSeries{
			{
				Labels:  []prompb.Label{{Name: "__name__", Value: "multipart_parts_per_interval"}},
				Samples: []prompb.Sample{{Value: float64(parts), Timestamp: now}},
			},
			{
				Labels:  []prompb.Label{{Name: "__name__", Value: "multipart_bytes_per_interval"}},
				Samples: []prompb.Sample{{Value: float64(bytes), Timestamp: now}},
			},
		},
	}
}
