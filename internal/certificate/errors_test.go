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

package certificate

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("verifying: %w", Malformed("bad base45", io.ErrUnexpectedEOF))

	if !errors.Is(err, ErrMalformedInput) {
		t.Error("expected errors.Is to match ErrMalformedInput")
	}
	if errors.Is(err, ErrInvalidSignature) {
		t.Error("errors.Is matched a different kind")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause not reachable through Unwrap")
	}
	if KindOf(err) != KindMalformedInput {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if KindOf(io.EOF) != 0 {
		t.Error("KindOf of a foreign error should be 0")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{UnknownSigner("abc="), "unknown_signer: no trusted key for kid abc="},
		{SchemaInvalid([]string{"a is required", "b too long"}), "schema_validation: a is required; b too long"},
		{Malformed("decoding", io.EOF), "malformed_input: decoding: EOF"},
		{&Error{Kind: KindExpired}, "expired"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_WithRecord(t *testing.T) {
	rec := &UnverifiedRecord{Format: FormatDGC, KeyID: []byte{1}}
	err := error(Unsupported("empty").WithRecord(rec))

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Record != rec {
		t.Error("record not attached")
	}
}

func TestKind_Expected(t *testing.T) {
	suspicious := map[Kind]bool{
		KindUnrecognizedFormat: true,
		KindMalformedInput:     true,
		KindInvalidSignature:   true,
	}
	for k := KindUnrecognizedFormat; k <= KindUnsupportedCertificate; k++ {
		if k.Expected() == suspicious[k] {
			t.Errorf("%s.Expected() = %v", k, k.Expected())
		}
		if k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
}
