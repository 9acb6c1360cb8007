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

package dgc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

// Test result code (SNOMED CT) for "not detected".
const testResultNegative = "260415000"

// Normalize maps a verified hcert body to the common certificate record.
// Vaccination entries take precedence over tests, tests over recoveries.
func Normalize(v *certificate.VerifiedCertificate) (*certificate.Info, error) {
	body := v.Record.Payload

	info := &certificate.Info{Code: v.Raw}

	nam, _ := body["nam"].(map[string]any)
	info.FirstName = holderName(nam, "gn", "gnt")
	info.LastName = holderName(nam, "fn", "fnt")

	if dob, _ := body["dob"].(string); dob != "" {
		d, err := certificate.ParseDate(dob)
		if err != nil {
			return nil, certificate.Malformed("date of birth", err)
		}
		info.DateOfBirth = d
	}

	var err error
	switch {
	case hasEntries(body, "v"):
		info.Type = certificate.TypeVaccination
		info.Vaccination, err = vaccination(firstEntry(body, "v"))
	case hasEntries(body, "t"):
		info.Type = certificate.TypeTest
		info.Test, err = test(firstEntry(body, "t"))
	case hasEntries(body, "r"):
		info.Type = certificate.TypeRecovery
		info.Recovery, err = recovery(firstEntry(body, "r"))
	default:
		return nil, certificate.Unsupported("no vaccination, test or recovery entry")
	}
	if err != nil {
		return nil, err
	}

	src := certificate.DGCSource{
		KeyID: v.Record.KeyIDString(),
		Body:  body,
	}
	if v.Record.Issuer != nil {
		src.Issuer = *v.Record.Issuer
	}
	if v.Signer != nil {
		src.Signer = signerName(v.Signer.Subject, v.Signer.KeyID)
	}
	info.Source = src
	return info, nil
}

// holderName prefers the name as written and falls back to the ICAO 9303
// transliteration, where '<' separates name parts.
func holderName(nam map[string]any, primary, transliterated string) string {
	if s, _ := nam[primary].(string); strings.TrimSpace(s) != "" {
		return certificate.CleanName(s)
	}
	s, _ := nam[transliterated].(string)
	return certificate.CleanName(strings.ReplaceAll(s, "<", " "))
}

func hasEntries(body map[string]any, key string) bool {
	list, _ := body[key].([]any)
	return len(list) > 0
}

func firstEntry(body map[string]any, key string) map[string]any {
	list := body[key].([]any)
	entry, _ := list[0].(map[string]any)
	return entry
}

func vaccination(e map[string]any) (*certificate.VaccinationInfo, error) {
	dt, err := dateField(e, "dt")
	if err != nil {
		return nil, err
	}
	dn, err := intField(e, "dn")
	if err != nil {
		return nil, err
	}
	sd, err := intField(e, "sd")
	if err != nil {
		return nil, err
	}
	mp, _ := e["mp"].(string)
	return &certificate.VaccinationInfo{
		VaccinationDate:   dt,
		ProphylacticAgent: mp,
		DosesReceived:     dn,
		DosesExpected:     sd,
	}, nil
}

func test(e map[string]any) (*certificate.TestInfo, error) {
	sc, _ := e["sc"].(string)
	when, err := certificate.ParseTime(sc)
	if err != nil {
		return nil, certificate.Malformed("test sample collection time", err)
	}
	tr, _ := e["tr"].(string)
	return &certificate.TestInfo{
		TestDate:   when.UTC(),
		IsNegative: tr == testResultNegative,
	}, nil
}

func recovery(e map[string]any) (*certificate.RecoveryInfo, error) {
	var (
		out certificate.RecoveryInfo
		err error
	)
	if out.FirstPositive, err = dateField(e, "fr"); err != nil {
		return nil, err
	}
	if out.ValidFrom, err = dateField(e, "df"); err != nil {
		return nil, err
	}
	if out.ValidUntil, err = dateField(e, "du"); err != nil {
		return nil, err
	}
	return &out, nil
}

func dateField(e map[string]any, key string) (certificate.Date, error) {
	s, _ := e[key].(string)
	d, err := certificate.ParseDate(s)
	if err != nil {
		return certificate.Date{}, certificate.Malformed("field "+key, err)
	}
	return d, nil
}

func intField(e map[string]any, key string) (int, error) {
	switch n := e[key].(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, certificate.Malformed("field "+key, err)
		}
		return int(i), nil
	default:
		return 0, certificate.Malformed(fmt.Sprintf("field %s: expected integer, got %T", key, n), nil)
	}
}

func signerName(subject, kid string) string {
	if subject != "" {
		return subject
	}
	return kid
}
