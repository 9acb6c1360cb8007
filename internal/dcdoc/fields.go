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
	"strings"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/format"
)

// Document types with a known message layout.
const (
	TypeVaccination = "L1"
	TypeTest        = "B2"
)

// Field describes one message zone field. Length 0 means variable length,
// terminated by a group separator or the end of the message.
type Field struct {
	ID       string
	Name     string
	Length   int
	Required bool
}

var fieldTables = map[string][]Field{
	TypeVaccination: {
		{ID: "L0", Name: "last_name", Required: true},
		{ID: "L1", Name: "first_names", Required: true},
		{ID: "L2", Name: "birth_date", Length: 8, Required: true},
		{ID: "L3", Name: "disease"},
		{ID: "L4", Name: "prophylactic_agent", Required: true},
		{ID: "L5", Name: "vaccine"},
		{ID: "L6", Name: "manufacturer"},
		{ID: "L7", Name: "doses_received", Length: 1, Required: true},
		{ID: "L8", Name: "doses_expected", Length: 1, Required: true},
		{ID: "L9", Name: "last_dose_date", Length: 8, Required: true},
		{ID: "LA", Name: "cycle_state", Length: 2},
	},
	TypeTest: {
		{ID: "F0", Name: "first_names", Required: true},
		{ID: "F1", Name: "last_name", Required: true},
		{ID: "F2", Name: "birth_date", Length: 8, Required: true},
		{ID: "F3", Name: "gender", Length: 1},
		{ID: "F4", Name: "loinc_code"},
		{ID: "F5", Name: "result", Length: 1, Required: true},
		{ID: "F6", Name: "sample_time", Length: 12, Required: true},
	},
}

// Fields returns the message layout of a document type, or nil if unknown.
func Fields(docType string) []Field {
	return fieldTables[docType]
}

func lookupField(docType, id string) (Field, bool) {
	for _, f := range fieldTables[docType] {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// ParseMessage splits a message zone into its fields.
func ParseMessage(docType, msg string) (map[string]string, error) {
	if _, known := fieldTables[docType]; !known {
		return nil, certificate.Unsupported(fmt.Sprintf("2D-DOC document type %q", docType))
	}

	fields := make(map[string]string)
	for pos := 0; pos < len(msg); {
		if len(msg)-pos < 2 {
			return nil, certificate.Malformed(fmt.Sprintf("truncated field identifier at offset %d", pos), nil)
		}
		id := msg[pos : pos+2]
		pos += 2

		f, ok := lookupField(docType, id)
		if !ok {
			return nil, certificate.Malformed(fmt.Sprintf("unknown field %s for document type %s", id, docType), nil)
		}
		if _, dup := fields[id]; dup {
			return nil, certificate.Malformed("duplicate field "+id, nil)
		}

		var value string
		if f.Length > 0 {
			if len(msg)-pos < f.Length {
				return nil, certificate.Malformed(fmt.Sprintf("field %s shorter than %d characters", id, f.Length), nil)
			}
			value = msg[pos : pos+f.Length]
			pos += f.Length
		} else {
			end := strings.IndexByte(msg[pos:], format.GroupSeparator)
			if end < 0 {
				value = msg[pos:]
				pos = len(msg)
			} else {
				value = msg[pos : pos+end]
				pos += end + 1
			}
		}
		fields[id] = value
	}
	return fields, nil
}

// EncodeMessage is the inverse of ParseMessage. Fields are written in
// table order; the trailing group separator of the last field is omitted.
func EncodeMessage(docType string, fields map[string]string) (string, error) {
	table, known := fieldTables[docType]
	if !known {
		return "", fmt.Errorf("unknown document type %q", docType)
	}
	for id := range fields {
		if _, ok := lookupField(docType, id); !ok {
			return "", fmt.Errorf("unknown field %s for document type %s", id, docType)
		}
	}

	var b strings.Builder
	pendingSeparator := false
	for _, f := range table {
		value, ok := fields[f.ID]
		if !ok {
			continue
		}
		if pendingSeparator {
			b.WriteByte(format.GroupSeparator)
			pendingSeparator = false
		}
		if f.Length > 0 && len(value) != f.Length {
			return "", fmt.Errorf("field %s must be %d characters, got %q", f.ID, f.Length, value)
		}
		b.WriteString(f.ID)
		b.WriteString(value)
		pendingSeparator = f.Length == 0
	}
	return b.String(), nil
}
