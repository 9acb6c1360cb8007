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

package trust

import (
	"crypto"
	"time"
)

// Entry is one trusted signer, keyed by the key identifier documents carry.
type Entry struct {
	KeyID              string
	SerialNumber       string
	Subject            string
	Issuer             string
	NotBefore          time.Time
	NotAfter           time.Time
	SignatureAlgorithm string
	// Fingerprint is the SHA-256 of the certificate DER, hex encoded.
	Fingerprint  string
	PublicKey    PublicKeyInfo
	PublicKeyPEM string
}

// PublicKeyInfo describes the signer's public key.
type PublicKeyInfo struct {
	Algorithm string
	// Fingerprint is the SHA-256 of the SubjectPublicKeyInfo DER, hex encoded.
	Fingerprint string
	Key         crypto.PublicKey
}

// ValidAt reports whether t falls inside the entry's validity window.
// Zero bounds are unbounded (bare public keys carry no window).
func (e *Entry) ValidAt(t time.Time) bool {
	if !e.NotBefore.IsZero() && t.Before(e.NotBefore) {
		return false
	}
	if !e.NotAfter.IsZero() && t.After(e.NotAfter) {
		return false
	}
	return true
}
