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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/multipart/confengine"
	"github.com/packetd/multipart/exporter"
	_ "github.com/packetd/multipart/exporter/sinker/file"
	_ "github.com/packetd/multipart/exporter/sinker/metricswrite"
	_ "github.com/packetd/multipart/exporter/sinker/mongo"
	"github.com/packetd/multipart/internal/metrics"
	"github.com/packetd/multipart/internal/sigs"
	"github.com/packetd/multipart/logger"
	"github.com/packetd/multipart/server"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(serveConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		var logOpt logger.Options
		if err := cfg.UnpackChild("logger", &logOpt); err == nil {
			logger.SetOptions(logOpt)
		}

		metrics.BuildInfo.WithLabelValues(version, gitHash, buildTime).Set(1)

		exp, err := exporter.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create exporter: %v\n", err)
			os.Exit(1)
		}
		exp.Start()
		defer exp.Close()

		svr, err := server.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create server: %v\n", err)
			os.Exit(1)
		}
		if svr == nil {
			fmt.Fprintln(os.Stderr, "server is disabled in config, nothing to do")
			os.Exit(1)
		}
		svr.Mount(exp)

		go func() {
			if err := svr.ListenAndServe(); err != nil {
				logger.Errorf("server exited: %v", err)
			}
		}()

		<-sigs.Terminate()
		logger.Infof("shutting down")
	},
	Example: "# multipartd serve --config multipartd.yaml",
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "multipartd.yaml", "Configuration file path")
	rootCmd.AddCommand(serveCmd)
}
