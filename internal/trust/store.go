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

// Package trust is the bundled, read-only index of trusted document signers.
package trust

import (
	"crypto/sha256"
	"crypto/x509"
	"embed"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/LGFdev/sanipasse/internal/keys"
)

//go:embed data/*.json
var bundled embed.FS

// Store maps key identifiers to trusted entries. It is never modified after
// construction and is safe for concurrent reads.
type Store struct {
	entries map[string]*Entry
}

// New builds a store from already parsed entries.
func New(entries ...*Entry) (*Store, error) {
	s := &Store{entries: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		if e.KeyID == "" {
			return nil, fmt.Errorf("entry without key id")
		}
		if !e.NotBefore.IsZero() && !e.NotAfter.IsZero() && e.NotAfter.Before(e.NotBefore) {
			return nil, fmt.Errorf("entry %s: not_after %s before not_before %s", e.KeyID, e.NotAfter, e.NotBefore)
		}
		if _, dup := s.entries[e.KeyID]; dup {
			return nil, fmt.Errorf("duplicate key id %s", e.KeyID)
		}
		s.entries[e.KeyID] = e
	}
	return s, nil
}

// Load parses a JSON object mapping key identifiers to PEM encoded
// certificates or public keys (JWK strings are accepted too).
func Load(data []byte) (*Store, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing trust store: %w", err)
	}

	entries := make([]*Entry, 0, len(raw))
	for kid, pemData := range raw {
		e, err := ParseEntry(kid, []byte(pemData))
		if err != nil {
			return nil, fmt.Errorf("trust store entry %s: %w", kid, err)
		}
		entries = append(entries, e)
	}
	return New(entries...)
}

// LoadFile reads a trust store JSON file from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trust store: %w", err)
	}
	return Load(data)
}

// ParseEntry builds an entry from a PEM certificate, a PEM public key or a
// JWK public key.
func ParseEntry(kid string, data []byte) (*Entry, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		key, err := keys.ParsePublicKey(data)
		if err != nil {
			return nil, err
		}
		return entryFromKey(kid, key)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing certificate: %w", err)
	}
	e, err := entryFromKey(kid, cert.PublicKey)
	if err != nil {
		return nil, err
	}
	fp := sha256.Sum256(cert.Raw)
	e.SerialNumber = cert.SerialNumber.String()
	e.Subject = cert.Subject.String()
	e.Issuer = cert.Issuer.String()
	e.NotBefore = cert.NotBefore
	e.NotAfter = cert.NotAfter
	e.SignatureAlgorithm = cert.SignatureAlgorithm.String()
	e.Fingerprint = hex.EncodeToString(fp[:])
	return e, nil
}

func entryFromKey(kid string, key any) (*Entry, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("encoding public key: %w", err)
	}
	fp := sha256.Sum256(der)
	return &Entry{
		KeyID: kid,
		PublicKey: PublicKeyInfo{
			Algorithm:   keys.Algorithm(key),
			Fingerprint: hex.EncodeToString(fp[:]),
			Key:         key,
		},
		PublicKeyPEM: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
	}, nil
}

// Find returns the entry for kid.
func (s *Store) Find(kid string) (*Entry, bool) {
	e, ok := s.entries[kid]
	return e, ok
}

func (s *Store) Len() int { return len(s.entries) }

// Entries returns all entries ordered by key id.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyID < out[j].KeyID })
	return out
}

var (
	dgcOnce, ddocOnce   sync.Once
	dgcStore, ddocStore *Store
	dgcErr, ddocErr     error
)

// DGC returns the bundled Digital Green Certificate signer store.
func DGC() (*Store, error) {
	dgcOnce.Do(func() {
		dgcStore, dgcErr = loadBundled("data/dgc.json")
	})
	return dgcStore, dgcErr
}

// DDoc returns the bundled 2D-DOC certificate authority store.
func DDoc() (*Store, error) {
	ddocOnce.Do(func() {
		ddocStore, ddocErr = loadBundled("data/2ddoc.json")
	})
	return ddocStore, ddocErr
}

func loadBundled(name string) (*Store, error) {
	data, err := bundled.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Load(data)
}
