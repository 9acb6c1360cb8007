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

// Package dcdoc decodes and verifies French 2D-DOC health certificates.
//
// A 2D-DOC is plain text: a fixed width header, a message zone of
// identified fields, a unit separator (0x1F) and a base32 ECDSA signature,
// optionally followed by a record separator (0x1E) and an annex.
package dcdoc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/format"
)

const (
	headerLenV3 = 22
	headerLenV4 = 26

	noDate = "FFFF"
)

// epoch is day zero for header dates. Days are French calendar days.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Header is the fixed width 2D-DOC header.
type Header struct {
	Version int
	// CAID identifies the certificate authority, CertID the signing
	// certificate within it. Together they form the key identifier.
	CAID   string
	CertID string
	// Emitted and Signed are nil when the header carries FFFF.
	Emitted      *time.Time
	Signed       *time.Time
	DocumentType string
	// Perimeter and Country only exist from version 04 on.
	Perimeter string
	Country   string
}

// KeyID is the trust store key of the signing certificate.
func (h *Header) KeyID() string {
	return h.CAID + h.CertID
}

// ParseHeader reads the header at the start of s and returns it with its
// length in bytes.
func ParseHeader(s string) (*Header, int, error) {
	if len(s) < headerLenV3 || !strings.HasPrefix(s, format.DDocMarker) {
		return nil, 0, certificate.Malformed("2D-DOC header too short", nil)
	}
	version, err := strconv.Atoi(s[2:4])
	if err != nil {
		return nil, 0, certificate.Malformed("2D-DOC header version", err)
	}

	size := headerLenV3
	switch version {
	case 2, 3:
	case 4:
		size = headerLenV4
		if len(s) < size {
			return nil, 0, certificate.Malformed("2D-DOC v04 header too short", nil)
		}
	default:
		return nil, 0, certificate.Malformed(fmt.Sprintf("unsupported 2D-DOC version %02d", version), nil)
	}

	h := &Header{
		Version:      version,
		CAID:         s[4:8],
		CertID:       s[8:12],
		DocumentType: s[20:22],
	}
	if h.Emitted, err = parseHeaderDate(s[12:16]); err != nil {
		return nil, 0, certificate.Malformed("emission date", err)
	}
	if h.Signed, err = parseHeaderDate(s[16:20]); err != nil {
		return nil, 0, certificate.Malformed("signature date", err)
	}
	if version >= 4 {
		h.Perimeter = s[22:24]
		h.Country = s[24:26]
	}
	return h, size, nil
}

// Format renders the header in its wire form.
func (h *Header) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%02d%s%s%s%s%s", format.DDocMarker, h.Version, h.CAID, h.CertID,
		formatHeaderDate(h.Emitted), formatHeaderDate(h.Signed), h.DocumentType)
	if h.Version >= 4 {
		b.WriteString(h.Perimeter)
		b.WriteString(h.Country)
	}
	return b.String()
}

// parseHeaderDate decodes a hex day count since 2000-01-01 into the start
// of that day in Paris.
func parseHeaderDate(s string) (*time.Time, error) {
	if strings.EqualFold(s, noDate) {
		return nil, nil
	}
	days, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid day count %q", s)
	}
	t := time.Date(epoch.Year(), epoch.Month(), epoch.Day()+int(days), 0, 0, 0, 0, paris)
	return &t, nil
}

func formatHeaderDate(t *time.Time) string {
	if t == nil {
		return noDate
	}
	y, m, d := t.In(paris).Date()
	days := int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Sub(epoch).Hours() / 24)
	return fmt.Sprintf("%04X", days)
}
