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

// Package mongo archives part envelopes as documents, for durable
// upload-history queries that a log file doesn't support well.
package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/packetd/multipart/exporter"
)

func init() {
	exporter.Register(exporter.SinkMongo, New)
}

type Sinker struct {
	cli     *mongo.Client
	coll    *mongo.Collection
	timeout func() (context.Context, context.CancelFunc)
}

// New constructs the Mongo sink from conf.Mongo and connects eagerly, so
// a misconfigured URI fails at Exporter construction time rather than on
// the first upload.
func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.Mongo
	cfg.Validate()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	return &Sinker{
		cli:  cli,
		coll: cli.Database(cfg.Database).Collection(cfg.Collection),
		timeout: func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), timeout)
		},
	}, nil
}

func (s *Sinker) Name() exporter.SinkKind {
	return exporter.SinkMongo
}

func (s *Sinker) Sink(data any) error {
	rec, ok := data.(exporter.PartRecord)
	if !ok {
		return nil
	}

	ctx, cancel := s.timeout()
	defer cancel()

	doc := bson.M{
		"name":        rec.Name,
		"filename":    rec.FileName,
		"contentType": rec.ContentType,
		"size":        rec.Size,
		"fingerprint": rec.Fingerprint,
		"time":        rec.Time,
	}
	_, err := s.coll.InsertOne(ctx, doc)
	return err
}

func (s *Sinker) Close() {
	ctx, cancel := s.timeout()
	defer cancel()
	s.cli.Disconnect(ctx)
}
