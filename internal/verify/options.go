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

package verify

import (
	"log/slog"
	"time"

	"github.com/LGFdev/sanipasse/internal/schema"
	"github.com/LGFdev/sanipasse/internal/trust"
)

// Recorder receives one observation per verification. *metrics.Metrics
// implements it.
type Recorder interface {
	ObserveVerification(format, result string, d time.Duration)
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithDGCTrust replaces the bundled DGC signer store.
func WithDGCTrust(s *trust.Store) Option {
	return func(v *Verifier) { v.dgcTrust = s }
}

// WithDDocTrust replaces the bundled 2D-DOC certificate store.
func WithDDocTrust(s *trust.Store) Option {
	return func(v *Verifier) { v.ddocTrust = s }
}

// WithSchema replaces the bundled DGC schema.
func WithSchema(s *schema.Validator) Option {
	return func(v *Verifier) { v.schema = s }
}

// WithClock sets the time source used for validity checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// WithLogger sets the logger for verification outcomes. Logging is off by default.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// WithMetrics reports every verification to r.
func WithMetrics(r Recorder) Option {
	return func(v *Verifier) { v.metrics = r }
}
