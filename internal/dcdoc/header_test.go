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

package dcdoc

import (
	"errors"
	"testing"
	"time"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSize   int
		wantKID    string
		wantType   string
		wantSigned *time.Time
		country    string
	}{
		{
			name:     "v03 without dates",
			input:    "DC03FR0AAB01FFFFFFFFL1L0X",
			wantSize: 22, wantKID: "FR0AAB01", wantType: "L1",
		},
		{
			name:       "v04 with dates",
			input:      "DC04FR05DEV11E501E8BB201FR",
			wantSize:   26, wantKID: "FR05DEV1", wantType: "B2",
			wantSigned: ptr(time.Date(2021, 5, 29, 0, 0, 0, 0, paris)),
			country:    "FR",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, size, err := ParseHeader(tt.input)
			if err != nil {
				t.Fatalf("ParseHeader: %v", err)
			}
			if size != tt.wantSize {
				t.Errorf("size = %d, want %d", size, tt.wantSize)
			}
			if h.KeyID() != tt.wantKID {
				t.Errorf("KeyID = %q, want %q", h.KeyID(), tt.wantKID)
			}
			if h.DocumentType != tt.wantType {
				t.Errorf("DocumentType = %q", h.DocumentType)
			}
			if h.Country != tt.country {
				t.Errorf("Country = %q", h.Country)
			}
			switch {
			case tt.wantSigned == nil && h.Signed != nil:
				t.Errorf("Signed = %v, want nil", h.Signed)
			case tt.wantSigned != nil && (h.Signed == nil || !h.Signed.Equal(*tt.wantSigned)):
				t.Errorf("Signed = %v, want %v", h.Signed, tt.wantSigned)
			}
			if got := h.Format(); got != tt.input[:tt.wantSize] {
				t.Errorf("Format = %q, want %q", got, tt.input[:tt.wantSize])
			}
		})
	}
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too short", "DC04FR05"},
		{"bad version", "DCxxFR05DEV11E501E50B201FR"},
		{"unsupported version", "DC01FR05DEV11E501E50B2"},
		{"v04 truncated", "DC04FR05DEV11E501E50B2"},
		{"bad date", "DC04FR05DEV1ZZZZ1E50B201FR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseHeader(tt.input)
			if !errors.Is(err, certificate.ErrMalformedInput) {
				t.Errorf("err = %v, want malformed input", err)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
