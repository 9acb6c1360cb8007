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
	"time"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

// Validate checks that every required field of the document type is present
// and well formed. All problems are reported together. Unknown document
// types have no layout to check.
func Validate(docType string, fields map[string]string) error {
	table := Fields(docType)
	if table == nil {
		return nil
	}

	var messages []string
	for _, f := range table {
		v, ok := fields[f.ID]
		if !ok || strings.TrimSpace(v) == "" {
			if f.Required {
				messages = append(messages, fmt.Sprintf("missing field %s (%s)", f.ID, f.Name))
			}
			continue
		}
		if msg := checkValue(f, v); msg != "" {
			messages = append(messages, fmt.Sprintf("field %s (%s): %s", f.ID, f.Name, msg))
		}
	}
	if len(messages) > 0 {
		return certificate.SchemaInvalid(messages)
	}
	return nil
}

func checkValue(f Field, v string) string {
	switch f.ID {
	case "L2", "L9", "F2":
		if _, err := certificate.ParseDDMMYYYY(v); err != nil {
			return "not a DDMMYYYY date"
		}
	case "L7", "L8":
		if v[0] < '0' || v[0] > '9' {
			return "not a digit"
		}
	case "LA":
		if v != "TE" && v != "EC" {
			return "cycle state must be TE or EC"
		}
	case "F3":
		switch v {
		case "M", "F", "U":
		default:
			return "gender must be M, F or U"
		}
	case "F5":
		switch v {
		case "P", "N", "I", "X":
		default:
			return "result must be P, N, I or X"
		}
	case "F6":
		if _, err := time.Parse(sampleTimeLayout, v); err != nil {
			return "not a DDMMYYYYHHMM timestamp"
		}
	}
	return ""
}
