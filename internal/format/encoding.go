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
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeBase64URL decodes a base64url-encoded string (with or without padding).
func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.URLEncoding.DecodeString(s)
	}
	return b, err
}

// EncodeBase64URL encodes bytes as base64url without padding.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase32 decodes RFC 4648 base32 as used for 2D-DOC signatures.
// Padding is optional.
func DecodeBase32(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	return base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
}

// EncodeBase32 encodes bytes as unpadded base32.
func EncodeBase32(b []byte) string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)
}

// base45Alphabet is the RFC 9285 alphabet, chosen to fit QR alphanumeric mode.
const base45Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

var base45Index [256]int8

func init() {
	for i := range base45Index {
		base45Index[i] = -1
	}
	for i := 0; i < len(base45Alphabet); i++ {
		base45Index[base45Alphabet[i]] = int8(i)
	}
}

// EncodeBase45 encodes bytes with RFC 9285 base45.
func EncodeBase45(b []byte) string {
	var sb strings.Builder
	sb.Grow((len(b)/2)*3 + 2)
	for i := 0; i+1 < len(b); i += 2 {
		n := int(b[i])<<8 | int(b[i+1])
		sb.WriteByte(base45Alphabet[n%45])
		sb.WriteByte(base45Alphabet[(n/45)%45])
		sb.WriteByte(base45Alphabet[n/2025])
	}
	if len(b)%2 == 1 {
		n := int(b[len(b)-1])
		sb.WriteByte(base45Alphabet[n%45])
		sb.WriteByte(base45Alphabet[n/45])
	}
	return sb.String()
}

// DecodeBase45 decodes an RFC 9285 base45 string.
func DecodeBase45(s string) ([]byte, error) {
	if len(s)%3 == 1 {
		return nil, fmt.Errorf("base45: invalid length %d", len(s))
	}

	out := make([]byte, 0, len(s)/3*2+1)
	for i := 0; i < len(s); i += 3 {
		chunk := s[i:min(i+3, len(s))]
		n := 0
		mul := 1
		for j := 0; j < len(chunk); j++ {
			v := base45Index[chunk[j]]
			if v < 0 {
				return nil, fmt.Errorf("base45: invalid character %q at offset %d", chunk[j], i+j)
			}
			n += int(v) * mul
			mul *= 45
		}
		if len(chunk) == 3 {
			if n > 0xffff {
				return nil, fmt.Errorf("base45: value out of range at offset %d", i)
			}
			out = append(out, byte(n>>8), byte(n))
		} else {
			if n > 0xff {
				return nil, fmt.Errorf("base45: value out of range at offset %d", i)
			}
			out = append(out, byte(n))
		}
	}
	return out, nil
}
