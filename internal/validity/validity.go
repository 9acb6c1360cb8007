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

// Package validity applies pass rules to an already verified certificate.
// A certificate can be authentic and still not count as a valid pass.
package validity

import (
	"fmt"
	"time"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

// Rules are the pass acceptance thresholds.
type Rules struct {
	// VaccinationDelay is the wait after the last dose before a completed
	// vaccination counts.
	VaccinationDelay time.Duration `yaml:"vaccination_delay"`
	// TestValidity is how long after sampling a negative test counts.
	TestValidity time.Duration `yaml:"test_validity"`
}

func DefaultRules() Rules {
	return Rules{
		VaccinationDelay: 7 * 24 * time.Hour,
		TestValidity:     72 * time.Hour,
	}
}

// FindError returns a human readable reason why info is not an acceptable
// pass at now, or "" if it is.
func FindError(info *certificate.Info, now time.Time, rules Rules) string {
	switch info.Type {
	case certificate.TypeVaccination:
		return vaccinationError(info.Vaccination, now, rules)
	case certificate.TypeTest:
		return testError(info.Test, now, rules)
	case certificate.TypeRecovery:
		return recoveryError(info.Recovery, now)
	default:
		return fmt.Sprintf("unknown certificate type %q", info.Type)
	}
}

func vaccinationError(v *certificate.VaccinationInfo, now time.Time, rules Rules) string {
	if v == nil {
		return "missing vaccination details"
	}
	if v.DosesReceived < v.DosesExpected {
		return fmt.Sprintf("incomplete vaccination: %d of %d doses", v.DosesReceived, v.DosesExpected)
	}
	validFrom := v.VaccinationDate.Add(rules.VaccinationDelay)
	if now.Before(validFrom) {
		return fmt.Sprintf("vaccination too recent: valid from %s", validFrom.Format("2006-01-02"))
	}
	return ""
}

func testError(t *certificate.TestInfo, now time.Time, rules Rules) string {
	if t == nil {
		return "missing test details"
	}
	if !t.IsNegative {
		return "test result is not negative"
	}
	if age := now.Sub(t.TestDate); age > rules.TestValidity {
		return fmt.Sprintf("test too old: sampled %d hours ago, limit is %d", int(age.Hours()), int(rules.TestValidity.Hours()))
	}
	if now.Before(t.TestDate) {
		return "test sampled in the future"
	}
	return ""
}

func recoveryError(r *certificate.RecoveryInfo, now time.Time) string {
	if r == nil {
		return "missing recovery details"
	}
	if !r.ValidFrom.IsZero() && now.Before(r.ValidFrom.Time) {
		return fmt.Sprintf("recovery certificate valid from %s", r.ValidFrom)
	}
	// ValidUntil is inclusive: the whole day counts.
	if !r.ValidUntil.IsZero() && !now.Before(r.ValidUntil.AddDate(0, 0, 1)) {
		return fmt.Sprintf("recovery certificate expired on %s", r.ValidUntil)
	}
	return ""
}
