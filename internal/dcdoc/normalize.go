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
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

const sampleTimeLayout = "020120061504"

// Sample times are written in French local time.
var paris = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Normalize maps a verified 2D-DOC to the common certificate record.
func Normalize(v *certificate.VerifiedCertificate) (*certificate.Info, error) {
	fields := make(map[string]string, len(v.Record.Payload))
	for id, val := range v.Record.Payload {
		s, _ := val.(string)
		fields[id] = s
	}

	info := &certificate.Info{Code: v.Raw}
	var err error

	switch v.Record.DocumentType {
	case TypeVaccination:
		info.Type = certificate.TypeVaccination
		info.LastName = certificate.CleanName(fields["L0"])
		info.FirstName = firstNames(fields["L1"])
		if info.DateOfBirth, err = date(fields, "L2"); err != nil {
			return nil, err
		}
		info.Vaccination, err = vaccination(fields)
	case TypeTest:
		info.Type = certificate.TypeTest
		info.FirstName = firstNames(fields["F0"])
		info.LastName = certificate.CleanName(fields["F1"])
		if info.DateOfBirth, err = date(fields, "F2"); err != nil {
			return nil, err
		}
		info.Test, err = test(fields)
	default:
		return nil, certificate.Unsupported(fmt.Sprintf("2D-DOC document type %q", v.Record.DocumentType))
	}
	if err != nil {
		return nil, err
	}

	src := certificate.DDocSource{
		KeyID:        v.Record.KeyIDString(),
		DocumentType: v.Record.DocumentType,
		Fields:       fields,
	}
	if v.Signer != nil {
		src.Signer = v.Signer.Subject
		if src.Signer == "" {
			src.Signer = v.Signer.KeyID
		}
	}
	info.Source = src
	return info, nil
}

// firstNames joins the '/' separated given names.
func firstNames(s string) string {
	return certificate.CleanName(strings.ReplaceAll(s, "/", " "))
}

func date(fields map[string]string, id string) (certificate.Date, error) {
	d, err := certificate.ParseDDMMYYYY(fields[id])
	if err != nil {
		return certificate.Date{}, certificate.Malformed("field "+id, err)
	}
	return d, nil
}

func vaccination(fields map[string]string) (*certificate.VaccinationInfo, error) {
	received, err := strconv.Atoi(fields["L7"])
	if err != nil {
		return nil, certificate.Malformed("field L7", err)
	}
	expected, err := strconv.Atoi(fields["L8"])
	if err != nil {
		return nil, certificate.Malformed("field L8", err)
	}
	last, err := date(fields, "L9")
	if err != nil {
		return nil, err
	}
	return &certificate.VaccinationInfo{
		VaccinationDate:   last,
		ProphylacticAgent: fields["L4"],
		DosesReceived:     received,
		DosesExpected:     expected,
	}, nil
}

func test(fields map[string]string) (*certificate.TestInfo, error) {
	when, err := time.ParseInLocation(sampleTimeLayout, fields["F6"], paris)
	if err != nil {
		return nil, certificate.Malformed("field F6", err)
	}
	return &certificate.TestInfo{
		TestDate:   when.UTC(),
		IsNegative: fields["F5"] == "N",
	}, nil
}
