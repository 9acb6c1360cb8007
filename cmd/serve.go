// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/LGFdev/sanipasse/internal/api"
	"github.com/LGFdev/sanipasse/internal/config"
	"github.com/LGFdev/sanipasse/internal/metrics"
	"github.com/LGFdev/sanipasse/internal/verify"
)

var (
	configFile string
	listenAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pass validation API",
	Long: `Starts the HTTP API used by door scanners:

  POST /api/validate  {"code": "...", "key": "..."}
  GET  /healthz
  GET  /metrics       Prometheus metrics

Settings come from a YAML file (--config) and SANIPASSE_ environment
variables. SANIPASSE_API_KEYS holds a comma separated list of accepted keys.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address, overrides the configuration")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if len(cfg.APIKeys) == 0 {
		logger.Warn("no api keys configured, every validation request will be refused")
	}

	server, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

// newServer wires the verifier, metrics registry and API from cfg.
func newServer(cfg *config.Config, logger *slog.Logger) (*api.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	opts, err := trustOptions(cfg.Trust.DGC, cfg.Trust.DDoc, cfg.Trust.Schema)
	if err != nil {
		return nil, err
	}
	opts = append(opts, verify.WithLogger(logger), verify.WithMetrics(m))
	v, err := verify.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("building verifier: %w", err)
	}

	return api.New(v, api.Options{
		APIKeys:  cfg.APIKeys,
		Rules:    cfg.Rules,
		Logger:   logger,
		Metrics:  m,
		Gatherer: reg,
	}), nil
}
