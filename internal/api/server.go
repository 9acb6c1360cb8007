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

// Package api serves pass verification over HTTP for door scanners and
// ticketing front ends.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/metrics"
	"github.com/LGFdev/sanipasse/internal/validity"
)

const (
	maxRequestBody  = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Verifier turns a scanned code into a verified certificate.
// *verify.Verifier implements it.
type Verifier interface {
	Verify(raw string) (*certificate.Info, error)
}

type Options struct {
	// APIKeys is the allow-list for /api/validate. Empty rejects everything.
	APIKeys []string
	Rules   validity.Rules
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

type Server struct {
	verifier Verifier
	apiKeys  [][]byte
	rules    validity.Rules
	logger   *slog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	now      func() time.Time
}

func New(v Verifier, opts Options) *Server {
	s := &Server{
		verifier: v,
		rules:    opts.Rules,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
		now:      opts.Now,
	}
	for _, k := range opts.APIKeys {
		if k != "" {
			s.apiKeys = append(s.apiKeys, []byte(k))
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/validate", s.handleValidate)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
