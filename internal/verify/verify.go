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

// Package verify is the single entry point for checking a scanned health
// certificate: it detects the format and runs decoding, signature, claims,
// structure and normalization in order.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/claims"
	"github.com/LGFdev/sanipasse/internal/dcdoc"
	"github.com/LGFdev/sanipasse/internal/dgc"
	"github.com/LGFdev/sanipasse/internal/format"
	"github.com/LGFdev/sanipasse/internal/schema"
	"github.com/LGFdev/sanipasse/internal/trust"
)

// Verifier checks certificates against fixed trust stores. It holds no
// mutable state and is safe for concurrent use.
type Verifier struct {
	dgcTrust  *trust.Store
	ddocTrust *trust.Store
	schema    *schema.Validator
	now       func() time.Time
	logger    *slog.Logger
	metrics   Recorder
}

// New builds a Verifier. Anything not set through opts comes from the
// bundled data.
func New(opts ...Option) (*Verifier, error) {
	v := &Verifier{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	var err error
	if v.dgcTrust == nil {
		if v.dgcTrust, err = trust.DGC(); err != nil {
			return nil, fmt.Errorf("loading DGC trust store: %w", err)
		}
	}
	if v.ddocTrust == nil {
		if v.ddocTrust, err = trust.DDoc(); err != nil {
			return nil, fmt.Errorf("loading 2D-DOC trust store: %w", err)
		}
	}
	if v.schema == nil {
		if v.schema, err = schema.Default(); err != nil {
			return nil, fmt.Errorf("loading DGC schema: %w", err)
		}
	}
	if v.logger == nil {
		v.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return v, nil
}

// Verify checks raw and returns its normalized content. Every failure is a
// *certificate.Error; match kinds with errors.Is and the certificate.Err*
// sentinels.
func (v *Verifier) Verify(raw string) (*certificate.Info, error) {
	start := time.Now()
	f := format.Detect(raw)

	var (
		info *certificate.Info
		err  error
	)
	switch f {
	case format.FormatDGC:
		info, err = v.verifyDGC(raw)
	case format.FormatDDoc:
		info, err = v.verifyDDoc(raw)
	default:
		err = unrecognized()
	}

	v.observe(f, info, err, time.Since(start))
	return info, err
}

func (v *Verifier) verifyDGC(raw string) (*certificate.Info, error) {
	now := v.now()

	env, rec, err := dgc.Decode(raw)
	if err != nil {
		return nil, err
	}
	signer, err := dgc.VerifySignature(env, v.dgcTrust, now)
	if err != nil {
		return nil, withRecord(err, rec)
	}
	if err := claims.Validate(rec.IssuedAt, rec.ExpiresAt, now); err != nil {
		return nil, withRecord(err, rec)
	}
	if err := v.schema.Validate(rec.Payload); err != nil {
		return nil, withRecord(err, rec)
	}

	info, err := dgc.Normalize(certificate.NewVerified(rec, signer, raw))
	if err != nil {
		return nil, withRecord(err, rec)
	}
	return info, nil
}

func (v *Verifier) verifyDDoc(raw string) (*certificate.Info, error) {
	now := v.now()

	doc, err := dcdoc.Parse(raw)
	if err != nil {
		return nil, err
	}
	rec := doc.Record()
	signer, err := dcdoc.VerifySignature(doc, v.ddocTrust, now)
	if err != nil {
		return nil, withRecord(err, rec)
	}
	if err := claims.Validate(rec.IssuedAt, rec.ExpiresAt, now); err != nil {
		return nil, withRecord(err, rec)
	}
	if err := dcdoc.Validate(doc.Header.DocumentType, doc.Fields); err != nil {
		return nil, withRecord(err, rec)
	}

	info, err := dcdoc.Normalize(certificate.NewVerified(rec, signer, raw))
	if err != nil {
		return nil, withRecord(err, rec)
	}
	return info, nil
}

func unrecognized() *certificate.Error {
	return &certificate.Error{Kind: certificate.KindUnrecognizedFormat, Msg: "input is neither a DGC nor a 2D-DOC"}
}

func withRecord(err error, rec *certificate.UnverifiedRecord) error {
	var cerr *certificate.Error
	if errors.As(err, &cerr) && cerr.Record == nil {
		cerr.WithRecord(rec)
	}
	return err
}

func (v *Verifier) observe(f format.Format, info *certificate.Info, err error, d time.Duration) {
	result := "valid"
	if err != nil {
		result = certificate.KindOf(err).String()
	}
	if v.metrics != nil {
		v.metrics.ObserveVerification(string(f), result, d)
	}

	attrs := []slog.Attr{
		slog.String("format", string(f)),
		slog.String("result", result),
		slog.Duration("duration", d),
	}
	var cerr *certificate.Error
	if errors.As(err, &cerr) && cerr.Record != nil {
		attrs = append(attrs, slog.String("kid", cerr.Record.KeyIDString()))
	}

	ctx := context.Background()
	switch {
	case err == nil:
		attrs = append(attrs, slog.String("type", string(info.Type)))
		v.logger.LogAttrs(ctx, slog.LevelDebug, "certificate verified", attrs...)
	case certificate.KindOf(err).Expected():
		v.logger.LogAttrs(ctx, slog.LevelInfo, "certificate rejected", append(attrs, slog.String("error", err.Error()))...)
	default:
		v.logger.LogAttrs(ctx, slog.LevelWarn, "suspicious certificate input", append(attrs, slog.String("error", err.Error()))...)
	}
}
