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

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadInput reads a scanned document from a file path, "-" for stdin, or a
// raw string. Inputs are never fetched over the network.
func ReadInput(input string) (string, error) {
	return readInput(input, os.Stdin)
}

func readInput(input string, stdin *os.File) (string, error) {
	input = strings.TrimSpace(input)

	if input == "-" || input == "" {
		stat, err := stdin.Stat()
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("no input provided (use a file path, raw string, or pipe to stdin)")
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return trimInput(string(b)), nil
	}

	// Scanned payloads contain ':' and control characters and are never paths.
	if Detect(input) == FormatUnknown {
		if _, err := os.Stat(input); err == nil {
			b, err := os.ReadFile(input)
			if err != nil {
				return "", fmt.Errorf("reading file %s: %w", input, err)
			}
			return trimInput(string(b)), nil
		}
	}

	return input, nil
}

// trimInput strips surrounding whitespace but keeps the 2D-DOC separators,
// which are control characters rather than spaces.
func trimInput(s string) string {
	return strings.Trim(s, " \t\r\n")
}
