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

package server

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/packetd/multipart"
	"github.com/packetd/multipart/exporter"
	"github.com/packetd/multipart/internal/fasttime"
	"github.com/packetd/multipart/internal/json"
	"github.com/packetd/multipart/internal/metrics"
	"github.com/packetd/multipart/internal/parthash"
	"github.com/packetd/multipart/internal/tracekit"
	"github.com/packetd/multipart/logger"
)

func (s *Server) setupRoutes() {
	s.RegisterPostRoute("/upload", s.routeUpload)
	s.RegisterGetRoute("/watch", s.routeWatch)
	s.RegisterGetRoute("/metrics", s.routeMetrics)
}

func (s *Server) routeMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// routeUpload drains a multipart/form-data request body through a scoped
// Session, publishing one PartRecord per completed part to the exporter
// and to every /watch subscriber.
func (s *Server) routeUpload(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || params["boundary"] == "" {
		http.Error(w, "missing multipart boundary", http.StatusBadRequest)
		return
	}

	traceID, ok := tracekit.TraceIDFromHTTPHeader(r.Header)
	if !ok {
		traceID = tracekit.RandomTraceID()
	}

	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	body := http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
	records, err := s.drainUpload(body, []byte(params["boundary"]))
	if err != nil {
		logger.Warnf("trace %s: upload rejected: %v", traceID, err)
		if multipart.IsMalformed(err) {
			var phase multipart.Phase
			if me, ok := err.(*multipart.MalformedDataError); ok {
				phase = me.Phase
			}
			metrics.MalformedTotal.WithLabelValues(string(phase)).Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// drainUpload runs the parser to completion, exporting and publishing
// each part as its body finishes draining.
func (s *Server) drainUpload(body io.Reader, boundary []byte) ([]exporter.PartRecord, error) {
	var records []exporter.PartRecord

	buf := make([]byte, 32*1024)
	err := multipart.WithSession(boundary, multipart.DefaultCharset, func(p *multipart.Parser) error {
		var cur *multipart.Part
		var hasher *parthash.Hasher
		var size int

		flush := func() {
			if cur == nil {
				return
			}
			rec := exporter.PartRecord{
				Name:        cur.Name,
				FileName:    cur.FileName,
				ContentType: cur.ContentType,
				Size:        size,
				Fingerprint: hasher.Sum64(),
				Time:        time.Unix(fasttime.UnixTimestamp(), 0),
			}
			records = append(records, rec)
			if s.exp != nil {
				s.exp.Export(rec)
			}
			if b, err := json.Marshal(rec); err == nil {
				s.ps.Publish(append(b, '\n'))
			}
		}

		for {
			n, rerr := body.Read(buf)
			if n > 0 {
				p.Feed(buf[:n])
			}
			for {
				ev, everr := p.Next()
				if everr != nil {
					return everr
				}
				switch ev.Kind {
				case multipart.EventPart:
					flush()
					cur = ev.Part
					size = 0
					hasher = parthash.NewHasher(cur.Name, cur.FileName, cur.ContentType)
				case multipart.EventPartData:
					size += len(ev.PartData.Data)
					hasher.Write(ev.PartData.Data)
					metrics.PartBytesTotal.Add(float64(len(ev.PartData.Data)))
				case multipart.EventFinished:
					flush()
					metrics.PartsTotal.Add(float64(len(records)))
					return nil
				case multipart.EventNeedData:
					goto needData
				}
			}
		needData:
			if rerr != nil {
				if rerr == io.EOF {
					// Body exhausted before Finished; WithSession's
					// deferred Close reports this as UnexpectedExit.
					return nil
				}
				return rerr
			}
		}
	})
	return records, err
}

// routeWatch streams every published part record as newline-delimited
// JSON until maxMessage records are sent or timeout elapses between two.
func (s *Server) routeWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return
	}

	maxMessage, _ := strconv.Atoi(r.URL.Query().Get("max_message"))
	if maxMessage <= 0 {
		maxMessage = 100
	}

	timeout, _ := time.ParseDuration(r.URL.Query().Get("timeout"))
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	queue := s.ps.Subscribe(10)
	defer s.ps.Unsubscribe(queue)

	for i := 0; i < maxMessage; i++ {
		data, ok := queue.PopTimeout(timeout)
		if !ok {
			return
		}
		w.Write(data.([]byte))
		flusher.Flush()
	}
}
