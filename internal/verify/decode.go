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
	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/dcdoc"
	"github.com/LGFdev/sanipasse/internal/dgc"
	"github.com/LGFdev/sanipasse/internal/format"
)

// Decoded is the untrusted content of a certificate, for inspection only.
type Decoded struct {
	Format certificate.Format
	Record *certificate.UnverifiedRecord
	// Algorithm is the COSE algorithm name of a DGC.
	Algorithm string
	// Header is the 2D-DOC header.
	Header *dcdoc.Header
	// Signer is the trust entry matching the key id, if any. Its presence
	// says nothing about the signature.
	Signer *TrustMatch
}

// TrustMatch describes the trust store entry a document points at.
type TrustMatch struct {
	KeyID   string
	Subject string
}

// Decode parses raw without any trust decision. The result must not be
// shown as a valid certificate.
func (v *Verifier) Decode(raw string) (*Decoded, error) {
	switch format.Detect(raw) {
	case format.FormatDGC:
		env, rec, err := dgc.Decode(raw)
		if err != nil {
			return nil, err
		}
		d := &Decoded{Format: certificate.FormatDGC, Record: rec, Algorithm: dgc.AlgorithmName(env.Algorithm)}
		if e, ok := v.dgcTrust.Find(rec.KeyIDString()); ok {
			d.Signer = &TrustMatch{KeyID: e.KeyID, Subject: e.Subject}
		}
		return d, nil
	case format.FormatDDoc:
		doc, err := dcdoc.Parse(raw)
		if err != nil {
			return nil, err
		}
		d := &Decoded{Format: certificate.FormatDDoc, Record: doc.Record(), Header: doc.Header}
		if e, ok := v.ddocTrust.Find(doc.Header.KeyID()); ok {
			d.Signer = &TrustMatch{KeyID: e.KeyID, Subject: e.Subject}
		}
		return d, nil
	default:
		return nil, unrecognized()
	}
}
