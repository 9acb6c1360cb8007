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

package format

import (
	"bytes"
	"testing"
)

func TestBase45_RFCVectors(t *testing.T) {
	tests := []struct {
		decoded string
		encoded string
	}{
		{"AB", "BB8"},
		{"Hello!!", "%69 VD92EX0"},
		{"base-45", "UJCLQE7W581"},
		{"ietf!", "QED8WEX0"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.decoded, func(t *testing.T) {
			if got := EncodeBase45([]byte(tt.decoded)); got != tt.encoded {
				t.Errorf("EncodeBase45(%q) = %q, want %q", tt.decoded, got, tt.encoded)
			}
			got, err := DecodeBase45(tt.encoded)
			if err != nil {
				t.Fatalf("DecodeBase45(%q) error: %v", tt.encoded, err)
			}
			if string(got) != tt.decoded {
				t.Errorf("DecodeBase45(%q) = %q, want %q", tt.encoded, got, tt.decoded)
			}
		})
	}
}

func TestDecodeBase45_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"dangling character", "BB8A"},
		{"lowercase", "bb8"},
		{"triplet overflow", "GGW"},
		{"pair overflow", "GG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBase45(tt.input); err == nil {
				t.Errorf("DecodeBase45(%q) expected error", tt.input)
			}
		})
	}
}

func TestBase32_PaddingOptional(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0xfe, 0xff}
	enc := EncodeBase32(data)

	for _, in := range []string{enc, enc + "==="} {
		got, err := DecodeBase32(in)
		if err != nil {
			t.Fatalf("DecodeBase32(%q) error: %v", in, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("DecodeBase32(%q) = %x, want %x", in, got, data)
		}
	}
}

func TestDecodeBase64URL(t *testing.T) {
	for _, in := range []string{"aGVsbG8", "aGVsbG8="} {
		got, err := DecodeBase64URL(in)
		if err != nil {
			t.Fatalf("DecodeBase64URL(%q) error: %v", in, err)
		}
		if string(got) != "hello" {
			t.Errorf("DecodeBase64URL(%q) = %q", in, got)
		}
	}
	if got := EncodeBase64URL([]byte("hello")); got != "aGVsbG8" {
		t.Errorf("EncodeBase64URL(hello) = %q", got)
	}
}

func TestTransportRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0xd2, 0x84, 0x4d, 0xa2, 0x01, 0x26}, 40)

	compressed, err := Deflate(payload)
	if err != nil {
		t.Fatal(err)
	}
	text := EncodeBase45(compressed)

	decoded, err := DecodeBase45(text)
	if err != nil {
		t.Fatalf("DecodeBase45() error: %v", err)
	}
	inflated, ok := Inflate(decoded)
	if !ok {
		t.Fatal("Inflate() did not recognize zlib stream")
	}
	if !bytes.Equal(inflated, payload) {
		t.Error("round trip did not reproduce the original bytes")
	}
}

func TestInflate_UncompressedFallback(t *testing.T) {
	raw := []byte{0xd2, 0x84, 0x43, 0xa1, 0x01, 0x26}
	out, ok := Inflate(raw)
	if ok {
		t.Error("expected ok=false for uncompressed input")
	}
	if !bytes.Equal(out, raw) {
		t.Error("uncompressed input must be returned unchanged")
	}
}
