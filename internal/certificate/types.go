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

// Package certificate holds the data model shared by both document formats:
// the untrusted decoded record, the verified certificate and the normalized
// Info record handed to callers.
package certificate

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/LGFdev/sanipasse/internal/trust"
)

type Format string

const (
	FormatDGC  Format = "dgc"
	FormatDDoc Format = "2d-doc"
)

// UnverifiedRecord is a decoded document before any trust decision.
// Nothing in it may be displayed until signature and claims checks pass.
type UnverifiedRecord struct {
	Format    Format
	KeyID     []byte
	Issuer    *string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	// Payload is the format specific body: the hcert document for DGC,
	// the message zone fields keyed by identifier for 2D-DOC.
	Payload map[string]any
	// DocumentType is the 2D-DOC document type (e.g. "L1"), empty for DGC.
	DocumentType string
}

// KeyIDString is the lookup form of KeyID: base64 for DGC, raw text for 2D-DOC.
func (r *UnverifiedRecord) KeyIDString() string {
	if r.Format == FormatDDoc {
		return string(r.KeyID)
	}
	return base64.StdEncoding.EncodeToString(r.KeyID)
}

// VerifiedCertificate is a record whose signature, claims and structure have
// all been checked. There is no invalid state for it.
type VerifiedCertificate struct {
	Record *UnverifiedRecord
	Signer *trust.Entry
	Raw    string
}

// NewVerified must only be called once every check has passed.
func NewVerified(record *UnverifiedRecord, signer *trust.Entry, raw string) *VerifiedCertificate {
	return &VerifiedCertificate{Record: record, Signer: signer, Raw: raw}
}

type Type string

const (
	TypeVaccination Type = "vaccination"
	TypeTest        Type = "test"
	TypeRecovery    Type = "recovery"
)

// Info is the normalized record used by everything outside the verifier.
type Info struct {
	Type        Type   `json:"type"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth Date   `json:"date_of_birth"`
	// Code is the raw scanned string, kept for redisplay and printing.
	Code   string `json:"code"`
	Source Source `json:"source"`

	Vaccination *VaccinationInfo `json:"vaccination,omitempty"`
	Test        *TestInfo        `json:"test,omitempty"`
	Recovery    *RecoveryInfo    `json:"recovery,omitempty"`
}

type VaccinationInfo struct {
	VaccinationDate   Date   `json:"vaccination_date"`
	ProphylacticAgent string `json:"prophylactic_agent"`
	DosesReceived     int    `json:"doses_received"`
	DosesExpected     int    `json:"doses_expected"`
}

type TestInfo struct {
	TestDate   time.Time `json:"test_date"`
	IsNegative bool      `json:"is_negative"`
}

type RecoveryInfo struct {
	FirstPositive Date `json:"first_positive"`
	ValidFrom     Date `json:"valid_from"`
	ValidUntil    Date `json:"valid_until"`
}

// Source records which format a certificate came from. It is a closed union:
// DGCSource and DDocSource are the only implementations.
type Source interface {
	Format() Format
	isSource()
}

// DGCSource carries the verified hcert body of an EU Digital Green Certificate.
type DGCSource struct {
	KeyID  string         `json:"kid"`
	Issuer string         `json:"issuer,omitempty"`
	Signer string         `json:"signer"`
	Body   map[string]any `json:"hcert"`
}

func (DGCSource) Format() Format { return FormatDGC }
func (DGCSource) isSource()      {}

func (s DGCSource) MarshalJSON() ([]byte, error) {
	type plain DGCSource
	return json.Marshal(struct {
		Format Format `json:"format"`
		plain
	}{FormatDGC, plain(s)})
}

// DDocSource carries the verified message zone of a 2D-DOC.
type DDocSource struct {
	KeyID        string            `json:"kid"`
	DocumentType string            `json:"document_type"`
	Signer       string            `json:"signer"`
	Fields       map[string]string `json:"fields"`
}

func (DDocSource) Format() Format { return FormatDDoc }
func (DDocSource) isSource()      {}

func (s DDocSource) MarshalJSON() ([]byte, error) {
	type plain DDocSource
	return json.Marshal(struct {
		Format Format `json:"format"`
		plain
	}{FormatDDoc, plain(s)})
}
