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

// Package metrics exposes the process-wide Prometheus counters/gauges
// cmd serve publishes at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/multipart/common"
)

var (
	PartsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "parts_total",
			Help:      "Parts successfully parsed",
		},
	)

	PartBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "part_bytes_total",
			Help:      "Body bytes emitted across all parts",
		},
	)

	MalformedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "malformed_total",
			Help:      "MalformedData errors raised, by phase",
		},
		[]string{"phase"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "sessions_active",
			Help:      "Scoped parser sessions currently open",
		},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "git_hash", "build_time"},
	)

	_ = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "uptime_seconds",
			Help:      "Seconds since the process started",
		},
		func() float64 {
			return float64(time.Now().Unix() - common.Started())
		},
	)
)
