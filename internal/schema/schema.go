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

// Package schema validates hcert bodies against the bundled DGC JSON schema.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

// Version of the bundled schema.
const Version = "1.3.0"

//go:embed data/dgc.schema.json
var bundledSchema []byte

func init() {
	// Issuers format dates inconsistently; any parseable date passes.
	gojsonschema.FormatCheckers.Add("date", lenientDate{})
	gojsonschema.FormatCheckers.Add("date-time", lenientDate{})
}

type lenientDate struct{}

func (lenientDate) IsFormat(input any) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	_, err := certificate.ParseTime(s)
	return err == nil
}

// Validator checks documents against one compiled schema. Unknown keywords
// such as "valueset-uri" are accepted and the referenced value sets are not
// fetched. Safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// Load compiles a JSON schema document.
func Load(data []byte) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// LoadFile compiles a JSON schema file from disk.
func LoadFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return Load(data)
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns the validator for the bundled DGC schema.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = Load(bundledSchema)
	})
	return defaultValidator, defaultErr
}

// Validate checks doc, a JSON compatible Go value. On failure it returns a
// schema validation error carrying every violation, not just the first.
func (v *Validator) Validate(doc any) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return certificate.SchemaInvalid([]string{err.Error()})
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		messages = append(messages, e.String())
	}
	return certificate.SchemaInvalid(messages)
}
