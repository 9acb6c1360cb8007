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
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/validity"
)

type validateRequest struct {
	Code string `json:"code"`
	Key  string `json:"key"`
}

type validateResponse struct {
	Validated bool   `json:"validated"`
	Error     string `json:"error,omitempty"`
	// Kind is the machine readable failure class, empty for validity
	// problems on authentic passes.
	Kind   string  `json:"kind,omitempty"`
	Person *person `json:"person,omitempty"`
}

type person struct {
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	DateOfBirth certificate.Date `json:"date_of_birth"`
	Type        certificate.Type `json:"type"`
	Format      string           `json:"format"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validateResponse{Error: "invalid request body"})
		return
	}
	if !s.authorized(req.Key) {
		s.logger.WarnContext(ctx, "api key rejected", "request_id", RequestID(ctx))
		writeJSON(w, http.StatusUnauthorized, validateResponse{Error: "invalid api key"})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, validateResponse{Error: "code is required"})
		return
	}

	info, err := s.verifier.Verify(req.Code)
	if err != nil {
		kind := certificate.KindOf(err)
		s.logger.InfoContext(ctx, "pass rejected",
			"request_id", RequestID(ctx),
			"kind", kind.String(),
			"error", err.Error(),
		)
		writeJSON(w, http.StatusOK, validateResponse{Error: err.Error(), Kind: kind.String()})
		return
	}

	resp := validateResponse{
		Validated: true,
		Person: &person{
			FirstName:   info.FirstName,
			LastName:    info.LastName,
			DateOfBirth: info.DateOfBirth,
			Type:        info.Type,
			Format:      string(info.Source.Format()),
		},
	}
	if problem := validity.FindError(info, s.now(), s.rules); problem != "" {
		resp.Validated = false
		resp.Error = problem
	}
	s.logger.InfoContext(ctx, "pass checked",
		"request_id", RequestID(ctx),
		"format", resp.Person.Format,
		"validated", resp.Validated,
	)
	writeJSON(w, http.StatusOK, resp)
}

// authorized compares key against every allowed key so the time taken does
// not depend on which one matched.
func (s *Server) authorized(key string) bool {
	if key == "" {
		return false
	}
	match := 0
	for _, allowed := range s.apiKeys {
		match |= subtle.ConstantTimeCompare([]byte(key), allowed)
	}
	return match == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
