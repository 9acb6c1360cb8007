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

package api

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/LGFdev/sanipasse/internal/metrics"
	"github.com/LGFdev/sanipasse/internal/mock"
	"github.com/LGFdev/sanipasse/internal/validity"
	"github.com/LGFdev/sanipasse/internal/verify"
)

var (
	testKID = []byte{0x8b, 0xcd, 0xf2, 0xed, 0xae, 0xfc, 0xee, 0xc5}
	testNow = time.Date(2021, 8, 20, 12, 0, 0, 0, time.UTC)
)

// ServerSuite runs the HTTP layer against a real verifier backed by a
// throwaway signer.
type ServerSuite struct {
	suite.Suite
	key      *ecdsa.PrivateKey
	registry *prometheus.Registry
	logs     *bytes.Buffer
	router   http.Handler
}

func (s *ServerSuite) SetupTest() {
	key, err := mock.GenerateKey()
	require.NoError(s.T(), err)
	s.key = key

	store, err := mock.Store("i83y7a787sU=", key,
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(s.T(), err)

	s.registry = prometheus.NewRegistry()
	m := metrics.New(s.registry)
	v, err := verify.New(
		verify.WithDGCTrust(store),
		verify.WithClock(func() time.Time { return testNow }),
		verify.WithMetrics(m),
	)
	require.NoError(s.T(), err)

	s.logs = &bytes.Buffer{}
	s.router = New(v, Options{
		APIKeys:  []string{"door-1", "door-2"},
		Rules:    validity.DefaultRules(),
		Logger:   slog.New(slog.NewJSONHandler(s.logs, nil)),
		Metrics:  m,
		Gatherer: s.registry,
		Now:      func() time.Time { return testNow },
	}).Routes()
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) pass(body map[string]any) string {
	raw, err := mock.GenerateDGC(mock.DGCConfig{
		Key:       s.key,
		KeyID:     testKID,
		Issuer:    "FR",
		IssuedAt:  testNow.Add(-24 * time.Hour),
		ExpiresAt: testNow.Add(365 * 24 * time.Hour),
		Body:      body,
	})
	require.NoError(s.T(), err)
	return raw
}

func (s *ServerSuite) post(body string) (*httptest.ResponseRecorder, validateResponse) {
	req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp validateResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func (s *ServerSuite) validate(code, key string) (*httptest.ResponseRecorder, validateResponse) {
	body, err := json.Marshal(validateRequest{Code: code, Key: key})
	require.NoError(s.T(), err)
	return s.post(string(body))
}

func (s *ServerSuite) TestValidate_ValidPass() {
	rec, resp := s.validate(s.pass(mock.VaccinationBody()), "door-2")

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.True(s.T(), resp.Validated)
	assert.Empty(s.T(), resp.Error)
	require.NotNil(s.T(), resp.Person)
	assert.Equal(s.T(), "Erika Dörte", resp.Person.FirstName)
	assert.Equal(s.T(), "Mustermann", resp.Person.LastName)
	assert.Equal(s.T(), "1964-08-12", resp.Person.DateOfBirth.String())
	assert.Equal(s.T(), "dgc", resp.Person.Format)
	assert.NotEmpty(s.T(), rec.Header().Get(requestIDHeader))
}

func (s *ServerSuite) TestValidate_AuthenticButNotValid() {
	// The negative test in the fixture body was sampled ten days before testNow.
	_, resp := s.validate(s.pass(mock.TestBody()), "door-1")

	assert.False(s.T(), resp.Validated)
	assert.Contains(s.T(), resp.Error, "test too old")
	assert.Empty(s.T(), resp.Kind)
	require.NotNil(s.T(), resp.Person)
	assert.Equal(s.T(), "Erika", resp.Person.FirstName)
}

func (s *ServerSuite) TestValidate_Rejected() {
	tampered := s.pass(mock.VaccinationBody())
	other, err := mock.GenerateDGC(mock.DGCConfig{
		Key: s.key, KeyID: []byte{1, 1, 1, 1, 1, 1, 1, 1},
		IssuedAt: testNow.Add(-time.Hour), ExpiresAt: testNow.Add(time.Hour),
		Body: mock.VaccinationBody(),
	})
	require.NoError(s.T(), err)

	tests := []struct {
		name     string
		code     string
		wantKind string
	}{
		{"not a pass", "https://example.org", "unrecognized_format"},
		{"unknown signer", other, "unknown_signer"},
		{"garbled base45", tampered[:20] + "%%%" + tampered[23:], "malformed_input"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec, resp := s.validate(tt.code, "door-1")
			assert.Equal(s.T(), http.StatusOK, rec.Code)
			assert.False(s.T(), resp.Validated)
			assert.Equal(s.T(), tt.wantKind, resp.Kind)
			assert.NotEmpty(s.T(), resp.Error)
			assert.Nil(s.T(), resp.Person)
		})
	}
}

func (s *ServerSuite) TestValidate_BadRequests() {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"invalid json", "not json", http.StatusBadRequest, "invalid request body"},
		{"wrong key", `{"code":"HC1:x","key":"door-3"}`, http.StatusUnauthorized, "invalid api key"},
		{"key prefix", `{"code":"HC1:x","key":"door"}`, http.StatusUnauthorized, "invalid api key"},
		{"missing key", `{"code":"HC1:x"}`, http.StatusUnauthorized, "invalid api key"},
		{"missing code", `{"key":"door-1"}`, http.StatusBadRequest, "code is required"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec, resp := s.post(tt.body)
			assert.Equal(s.T(), tt.wantStatus, rec.Code)
			assert.False(s.T(), resp.Validated)
			assert.Equal(s.T(), tt.wantError, resp.Error)
		})
	}
}

func (s *ServerSuite) TestHealth() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.JSONEq(s.T(), `{"status":"ok"}`, rec.Body.String())
}

func (s *ServerSuite) TestMetrics() {
	s.validate(s.pass(mock.VaccinationBody()), "door-1")
	s.validate("garbage", "door-1")
	s.post(`{"key":"nope"}`)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(s.T(), body, `sanipasse_verifications_total{format="dgc",result="valid"} 1`)
	assert.Contains(s.T(), body, `sanipasse_verifications_total{format="unknown",result="unrecognized_format"} 1`)
	assert.Contains(s.T(), body, `sanipasse_api_requests_total{route="/api/validate",status="200"} 2`)
	assert.Contains(s.T(), body, `sanipasse_api_requests_total{route="/api/validate",status="401"} 1`)
}

func (s *ServerSuite) TestRequestLogging() {
	s.validate("garbage", "door-1")

	logs := s.logs.String()
	assert.Contains(s.T(), logs, `"msg":"pass rejected"`)
	assert.Contains(s.T(), logs, `"kind":"unrecognized_format"`)
	assert.Contains(s.T(), logs, `"path":"/api/validate"`)
	assert.Contains(s.T(), logs, `"request_id":"`)
}

func TestServer_NoKeysRejectsEverything(t *testing.T) {
	srv := New(nil, Options{APIKeys: []string{""}})
	assert.False(t, srv.authorized(""))
	assert.False(t, srv.authorized("anything"))
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	srv := New(nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
