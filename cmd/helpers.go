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
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/LGFdev/sanipasse/internal/format"
	"github.com/LGFdev/sanipasse/internal/output"
	"github.com/LGFdev/sanipasse/internal/qr"
	"github.com/LGFdev/sanipasse/internal/schema"
	"github.com/LGFdev/sanipasse/internal/trust"
	"github.com/LGFdev/sanipasse/internal/verify"
)

func outputOptions() output.Options {
	return output.Options{JSON: jsonOutput, Verbose: verbose}
}

// trustOptions turns the store and schema overrides into verifier options.
// Empty paths keep the bundled data.
func trustOptions(dgcPath, ddocPath, schemaPath string) ([]verify.Option, error) {
	var opts []verify.Option
	if dgcPath != "" {
		s, err := trust.LoadFile(dgcPath)
		if err != nil {
			return nil, fmt.Errorf("loading DGC trust store: %w", err)
		}
		opts = append(opts, verify.WithDGCTrust(s))
	}
	if ddocPath != "" {
		s, err := trust.LoadFile(ddocPath)
		if err != nil {
			return nil, fmt.Errorf("loading 2D-DOC trust store: %w", err)
		}
		opts = append(opts, verify.WithDDocTrust(s))
	}
	if schemaPath != "" {
		s, err := schema.LoadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("loading schema: %w", err)
		}
		opts = append(opts, verify.WithSchema(s))
	}
	return opts, nil
}

// newVerifier builds the verifier used by the CLI commands, evaluating
// validity at the given instant.
func newVerifier(at time.Time) (*verify.Verifier, error) {
	opts, err := trustOptions(dgcTrustFile, ddocTrustFile, schemaFile)
	if err != nil {
		return nil, err
	}
	opts = append(opts, verify.WithClock(func() time.Time { return at }))
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, verify.WithLogger(logger))
	}
	return verify.New(opts...)
}

// parseAt parses an RFC 3339 evaluation time, or returns the current time
// for "".
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: expected RFC 3339, e.g. 2021-08-01T12:00:00Z", s)
	}
	return t, nil
}

// readCode returns the pass text from a QR image when fromImage is set, and
// otherwise from a file, stdin or the argument itself.
func readCode(input string, fromImage bool) (string, error) {
	if fromImage {
		return qr.ScanFile(input)
	}
	return format.ReadInput(input)
}
