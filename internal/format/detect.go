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

package format

import "strings"

type Format string

const (
	FormatDGC     Format = "dgc"
	FormatDDoc    Format = "2d-doc"
	FormatUnknown Format = "unknown"
)

const (
	// DGCPrefix marks a base45 encoded EU Digital Green Certificate.
	DGCPrefix = "HC1:"

	// DDocMarker starts every 2D-DOC header.
	DDocMarker = "DC"

	// UnitSeparator splits the 2D-DOC message zone from its signature.
	UnitSeparator = '\x1f'
	// GroupSeparator terminates variable length 2D-DOC fields.
	GroupSeparator = '\x1d'
	// RecordSeparator starts the optional 2D-DOC annex.
	RecordSeparator = '\x1e'
)

// minDDocLength is the shortest 2D-DOC header (versions 02 and 03).
const minDDocLength = 22

// Detect identifies the document format from its distinguishing marker only;
// nothing is decoded.
//
// Detection order:
//  1. DGC: "HC1:" prefix (case-insensitive)
//  2. 2D-DOC: "DC" + two digit version, with a signature separator
func Detect(input string) Format {
	input = strings.TrimSpace(input)

	if len(input) >= len(DGCPrefix) && strings.EqualFold(input[:len(DGCPrefix)], DGCPrefix) {
		return FormatDGC
	}

	if isDDoc(input) {
		return FormatDDoc
	}

	return FormatUnknown
}

func isDDoc(input string) bool {
	if len(input) < minDDocLength || !strings.HasPrefix(input, DDocMarker) {
		return false
	}
	if !isDigit(input[2]) || !isDigit(input[3]) {
		return false
	}
	return strings.IndexByte(input, UnitSeparator) > 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
