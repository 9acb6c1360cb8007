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
	"strings"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/format"
)

// Document is a decoded, not yet verified 2D-DOC.
type Document struct {
	Header *Header
	// Signed is the header and message zone, the exact text the
	// signature covers.
	Signed  string
	Message string
	// Fields is nil for document types without a known layout.
	Fields    map[string]string
	Signature []byte
	Annex     string
}

// Parse decodes a 2D-DOC string without checking its signature.
func Parse(raw string) (*Document, error) {
	raw = strings.TrimSpace(raw)

	sep := strings.IndexByte(raw, format.UnitSeparator)
	if sep < 0 {
		return nil, certificate.Malformed("2D-DOC has no signature separator", nil)
	}
	doc := &Document{Signed: raw[:sep]}

	sig := raw[sep+1:]
	if rs := strings.IndexByte(sig, format.RecordSeparator); rs >= 0 {
		doc.Annex = sig[rs+1:]
		sig = sig[:rs]
	}
	var err error
	if doc.Signature, err = format.DecodeBase32(sig); err != nil {
		return nil, certificate.Malformed("decoding 2D-DOC signature", err)
	}
	if len(doc.Signature) == 0 {
		return nil, certificate.Malformed("empty 2D-DOC signature", nil)
	}

	header, size, err := ParseHeader(doc.Signed)
	if err != nil {
		return nil, err
	}
	doc.Header = header
	doc.Message = doc.Signed[size:]

	if Fields(header.DocumentType) != nil {
		if doc.Fields, err = ParseMessage(header.DocumentType, doc.Message); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Record returns the untrusted view of the document. 2D-DOCs carry no
// expiry; the signature date serves as issued-at.
func (d *Document) Record() *certificate.UnverifiedRecord {
	payload := make(map[string]any, len(d.Fields))
	for id, v := range d.Fields {
		payload[id] = v
	}
	return &certificate.UnverifiedRecord{
		Format:       certificate.FormatDDoc,
		KeyID:        []byte(d.Header.KeyID()),
		IssuedAt:     d.Header.Signed,
		Payload:      payload,
		DocumentType: d.Header.DocumentType,
	}
}
