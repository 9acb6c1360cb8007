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
	"bytes"
	"crypto/ecdsa"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/dcdoc"
	"github.com/LGFdev/sanipasse/internal/mock"
)

var (
	dgcKID     = []byte{0x8b, 0xcd, 0xf2, 0xed, 0xae, 0xfc, 0xee, 0xc5}
	otherKID   = []byte{1, 1, 1, 1, 1, 1, 1, 1}
	now        = time.Date(2021, 7, 1, 12, 0, 0, 0, time.UTC)
	signerFrom = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	signerTo   = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
)

type recorder struct {
	mu      sync.Mutex
	results []string
}

func (r *recorder) ObserveVerification(format, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, format+"/"+result)
}

type fixture struct {
	key      *ecdsa.PrivateKey
	verifier *Verifier
	metrics  *recorder
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()
	key, err := mock.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	dgcStore, err := mock.Store("i83y7a787sU=", key, signerFrom, signerTo)
	if err != nil {
		t.Fatal(err)
	}
	ddocStore, err := mock.Store("FR05TST1", key, signerFrom, signerTo)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{key: key, metrics: &recorder{}, logs: &bytes.Buffer{}}
	f.verifier, err = New(
		WithDGCTrust(dgcStore),
		WithDDocTrust(ddocStore),
		WithClock(func() time.Time { return at }),
		WithMetrics(f.metrics),
		WithLogger(slog.New(slog.NewJSONHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func (f *fixture) dgc(t *testing.T, cfg mock.DGCConfig) string {
	t.Helper()
	cfg.Key = f.key
	if cfg.KeyID == nil {
		cfg.KeyID = dgcKID
	}
	if cfg.Body == nil {
		cfg.Body = mock.VaccinationBody()
	}
	raw, err := mock.GenerateDGC(cfg)
	if err != nil {
		t.Fatalf("GenerateDGC: %v", err)
	}
	return raw
}

func (f *fixture) ddoc(t *testing.T, docType string, fields map[string]string, signed time.Time) string {
	t.Helper()
	raw, err := mock.Generate2DDoc(mock.DDocConfig{
		Key: f.key, CAID: "FR05", CertID: "TST1",
		DocumentType: docType, Signed: signed, Fields: fields,
	})
	if err != nil {
		t.Fatalf("Generate2DDoc: %v", err)
	}
	return raw
}

func TestVerify_FullyVaccinated(t *testing.T) {
	f := newFixture(t, now)
	raw := f.dgc(t, mock.DGCConfig{
		Issuer:    "FR",
		IssuedAt:  now.Add(-24 * time.Hour),
		ExpiresAt: now.Add(365 * 24 * time.Hour),
	})

	info, err := f.verifier.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if info.Type != certificate.TypeVaccination {
		t.Errorf("Type = %q", info.Type)
	}
	if info.Vaccination.DosesReceived != 2 || info.Vaccination.DosesExpected != 2 {
		t.Errorf("doses = %d/%d, want 2/2", info.Vaccination.DosesReceived, info.Vaccination.DosesExpected)
	}
	if info.Code != raw {
		t.Error("Code is not the raw input")
	}
	src, ok := info.Source.(certificate.DGCSource)
	if !ok {
		t.Fatalf("Source = %T", info.Source)
	}
	if src.Issuer != "FR" || !strings.Contains(src.Signer, "i83y7a787sU=") {
		t.Errorf("Source = %+v", src)
	}
}

func TestVerify_EveryType(t *testing.T) {
	f := newFixture(t, now)
	signed := now.AddDate(0, 0, -1)

	tests := []struct {
		name string
		raw  string
		want certificate.Type
	}{
		{"dgc vaccination", f.dgc(t, mock.DGCConfig{Body: mock.VaccinationBody()}), certificate.TypeVaccination},
		{"dgc test", f.dgc(t, mock.DGCConfig{Body: mock.TestBody()}), certificate.TypeTest},
		{"dgc recovery", f.dgc(t, mock.DGCConfig{Body: mock.RecoveryBody()}), certificate.TypeRecovery},
		{"dgc untagged uncompressed", f.dgc(t, mock.DGCConfig{Untagged: true, Uncompressed: true}), certificate.TypeVaccination},
		{"2d-doc vaccination", f.ddoc(t, dcdoc.TypeVaccination, mock.VaccinationFields(), signed), certificate.TypeVaccination},
		{"2d-doc test", f.ddoc(t, dcdoc.TypeTest, mock.TestFields(), signed), certificate.TypeTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := f.verifier.Verify(tt.raw)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if info.Type != tt.want {
				t.Errorf("Type = %q, want %q", info.Type, tt.want)
			}
			if info.FirstName == "" || info.LastName == "" {
				t.Errorf("empty name: %q %q", info.FirstName, info.LastName)
			}
		})
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	f := newFixture(t, now)
	envelope, err := mock.SignDGC(mock.DGCConfig{Key: f.key, KeyID: dgcKID, Body: mock.VaccinationBody()})
	if err != nil {
		t.Fatal(err)
	}

	tampered := bytes.Replace(envelope, []byte("Mustermann"), []byte("Musterfrau"), 1)
	if bytes.Equal(tampered, envelope) {
		t.Fatal("name not found in envelope")
	}
	raw, err := mock.EncodeDGC(tampered, true)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.verifier.Verify(raw); !errors.Is(err, certificate.ErrInvalidSignature) {
		t.Errorf("err = %v, want invalid signature", err)
	}
}

func TestVerify_Rejections(t *testing.T) {
	f := newFixture(t, now)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	noName := mock.VaccinationBody()
	delete(noName, "nam")
	noEntries := mock.VaccinationBody()
	delete(noEntries, "v")
	missingDose := mock.VaccinationFields()
	delete(missingDose, "L7")

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"unknown kid", f.dgc(t, mock.DGCConfig{KeyID: otherKID}), certificate.ErrUnknownSigner},
		{"expired", f.dgc(t, mock.DGCConfig{ExpiresAt: past}), certificate.ErrExpired},
		{"issued in future", f.dgc(t, mock.DGCConfig{IssuedAt: future}), certificate.ErrIssuedInFuture},
		{"future and expired", f.dgc(t, mock.DGCConfig{IssuedAt: future, ExpiresAt: past}), certificate.ErrIssuedInFuture},
		{"schema", f.dgc(t, mock.DGCConfig{Body: noName}), certificate.ErrSchemaValidation},
		{"no certificate entries", f.dgc(t, mock.DGCConfig{Body: noEntries}), certificate.ErrUnsupportedCertificate},
		{"bad base45", "HC1:NCF%%%", certificate.ErrMalformedInput},
		{"2d-doc missing field", f.ddoc(t, dcdoc.TypeVaccination, missingDose, past), certificate.ErrSchemaValidation},
		{"2d-doc signed tomorrow", f.ddoc(t, dcdoc.TypeTest, mock.TestFields(), now.AddDate(0, 0, 1)), certificate.ErrIssuedInFuture},
		{"plain text", "hello world", certificate.ErrUnrecognizedFormat},
		{"empty", "", certificate.ErrUnrecognizedFormat},
		{"url", "https://example.com/HC1:abc", certificate.ErrUnrecognizedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := f.verifier.Verify(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if info != nil {
				t.Error("info returned alongside an error")
			}
		})
	}
}

func TestVerify_DDocSignedTodayInParis(t *testing.T) {
	// 00:30 in Paris on 2 July, still 1 July in UTC.
	at := time.Date(2021, 7, 1, 22, 30, 0, 0, time.UTC)
	f := newFixture(t, at)

	fields := mock.TestFields()
	fields["F6"] = "020720210015"
	raw := f.ddoc(t, dcdoc.TypeTest, fields, time.Date(2021, 7, 2, 0, 0, 0, 0, time.UTC))
	if raw[16:20] != "1EAD" {
		t.Fatalf("signature date = %q, want 2021-07-02", raw[16:20])
	}

	info, err := f.verifier.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if info.Type != certificate.TypeTest {
		t.Errorf("Type = %q", info.Type)
	}
	want := time.Date(2021, 7, 1, 22, 15, 0, 0, time.UTC)
	if info.Test == nil || !info.Test.TestDate.Equal(want) {
		t.Errorf("Test = %+v, want sample time %v", info.Test, want)
	}
}

func TestVerify_SignerOutsideWindow(t *testing.T) {
	f := newFixture(t, signerTo.Add(24*time.Hour))
	raw := f.dgc(t, mock.DGCConfig{})

	_, err := f.verifier.Verify(raw)
	if !errors.Is(err, certificate.ErrInvalidCertificateAuthority) {
		t.Errorf("err = %v, want invalid certificate authority", err)
	}
}

func TestVerify_ErrorCarriesRecord(t *testing.T) {
	f := newFixture(t, now)
	raw := f.dgc(t, mock.DGCConfig{KeyID: otherKID, Issuer: "FR"})

	_, err := f.verifier.Verify(raw)
	var cerr *certificate.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *certificate.Error", err)
	}
	if cerr.Record == nil || cerr.Record.KeyIDString() != "AQEBAQEBAQE=" {
		t.Errorf("Record = %+v", cerr.Record)
	}
}

func TestVerify_ObservesAndLogs(t *testing.T) {
	f := newFixture(t, now)

	if _, err := f.verifier.Verify(f.dgc(t, mock.DGCConfig{})); err != nil {
		t.Fatal(err)
	}
	_, _ = f.verifier.Verify(f.dgc(t, mock.DGCConfig{ExpiresAt: now.Add(-time.Hour)}))
	_, _ = f.verifier.Verify("garbage")

	want := []string{"dgc/valid", "dgc/expired", "unknown/unrecognized_format"}
	if strings.Join(f.metrics.results, ",") != strings.Join(want, ",") {
		t.Errorf("results = %v, want %v", f.metrics.results, want)
	}

	logs := f.logs.String()
	for _, want := range []string{
		`"level":"DEBUG","msg":"certificate verified"`,
		`"level":"INFO","msg":"certificate rejected"`,
		`"level":"WARN","msg":"suspicious certificate input"`,
	} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %s:\n%s", want, logs)
		}
	}
}

func TestVerify_Concurrent(t *testing.T) {
	f := newFixture(t, now)
	inputs := []string{
		f.dgc(t, mock.DGCConfig{}),
		f.dgc(t, mock.DGCConfig{Body: mock.TestBody()}),
		f.ddoc(t, dcdoc.TypeVaccination, mock.VaccinationFields(), now.AddDate(0, 0, -1)),
	}

	var g errgroup.Group
	for i := 0; i < 30; i++ {
		raw := inputs[i%len(inputs)]
		g.Go(func() error {
			_, err := f.verifier.Verify(raw)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Verify: %v", err)
	}
}

func TestDecode(t *testing.T) {
	f := newFixture(t, now)

	d, err := f.verifier.Decode(f.dgc(t, mock.DGCConfig{ExpiresAt: now.Add(-time.Hour)}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Format != certificate.FormatDGC || d.Algorithm != "ES256" {
		t.Errorf("Format = %q, Algorithm = %q", d.Format, d.Algorithm)
	}
	if d.Signer == nil || d.Signer.KeyID != "i83y7a787sU=" {
		t.Errorf("Signer = %+v", d.Signer)
	}

	d, err = f.verifier.Decode(f.ddoc(t, dcdoc.TypeTest, mock.TestFields(), now))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Header == nil || d.Header.DocumentType != "B2" {
		t.Errorf("Header = %+v", d.Header)
	}

	if _, err := f.verifier.Decode("nope"); !errors.Is(err, certificate.ErrUnrecognizedFormat) {
		t.Errorf("err = %v, want unrecognized format", err)
	}
}

func TestNew_BundledData(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v.dgcTrust.Len() == 0 || v.ddocTrust.Len() == 0 {
		t.Error("bundled trust stores are empty")
	}
}
