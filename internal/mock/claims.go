// Copyright 2025 Dominik Schlosser
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

// Package mock builds signed test certificates (DGC and 2D-DOC) from
// ephemeral keys, with default holder data.
package mock

// VaccinationBody returns an hcert body for a completed two dose vaccination.
// Each call returns a fresh copy that callers may modify.
func VaccinationBody() map[string]any {
	return map[string]any{
		"ver": "1.3.0",
		"nam": map[string]any{
			"fn":  "Mustermann",
			"fnt": "MUSTERMANN",
			"gn":  "Erika Dörte",
			"gnt": "ERIKA<DOERTE",
		},
		"dob": "1964-08-12",
		"v": []any{map[string]any{
			"tg": "840539006",
			"vp": "1119349007",
			"mp": "EU/1/20/1528",
			"ma": "ORG-100030215",
			"dn": 2,
			"sd": 2,
			"dt": "2021-05-29",
			"co": "FR",
			"is": "Ministère des Solidarités et de la Santé",
			"ci": "URN:UVCI:01:FR:W7V2BE46QSBJ#L",
		}},
	}
}

// TestBody returns an hcert body for a negative PCR test.
func TestBody() map[string]any {
	return map[string]any{
		"ver": "1.3.0",
		"nam": map[string]any{
			"fn":  "Mustermann",
			"fnt": "MUSTERMANN",
			"gn":  "Erika",
			"gnt": "ERIKA",
		},
		"dob": "1964-08-12",
		"t": []any{map[string]any{
			"tg": "840539006",
			"tt": "LP6464-4",
			"nm": "Roche LightCycler qPCR",
			"sc": "2021-08-10T09:17:00Z",
			"tr": "260415000",
			"tc": "Laboratoire Central",
			"co": "FR",
			"is": "Ministère des Solidarités et de la Santé",
			"ci": "URN:UVCI:01:FR:T7V2BE46QSBJ#K",
		}},
	}
}

// RecoveryBody returns an hcert body for a certificate of recovery.
func RecoveryBody() map[string]any {
	return map[string]any{
		"ver": "1.3.0",
		"nam": map[string]any{
			"fnt": "MUSTERMANN",
			"gnt": "ERIKA",
		},
		"dob": "1964",
		"r": []any{map[string]any{
			"tg": "840539006",
			"fr": "2021-06-01",
			"co": "FR",
			"is": "Ministère des Solidarités et de la Santé",
			"df": "2021-06-12",
			"du": "2021-11-28",
			"ci": "URN:UVCI:01:FR:R7V2BE46QSBJ#M",
		}},
	}
}

// VaccinationFields returns the message zone of a 2D-DOC vaccination
// attestation (document type L1).
func VaccinationFields() map[string]string {
	return map[string]string{
		"L0": "MUSTERMANN",
		"L1": "ERIKA/DÖRTE",
		"L2": "12081964",
		"L3": "COVID-19",
		"L4": "J07BX03",
		"L5": "COMIRNATY PFIZER/BIONTECH",
		"L6": "PFIZER/BIONTECH",
		"L7": "2",
		"L8": "2",
		"L9": "29052021",
		"LA": "TE",
	}
}

// TestFields returns the message zone of a 2D-DOC negative test result
// (document type B2).
func TestFields() map[string]string {
	return map[string]string{
		"F0": "ERIKA",
		"F1": "MUSTERMANN",
		"F2": "12081964",
		"F3": "F",
		"F4": "94309-2",
		"F5": "N",
		"F6": "100820210917",
	}
}
