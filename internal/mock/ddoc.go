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

package mock

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/veraison/go-cose"

	"github.com/LGFdev/sanipasse/internal/dcdoc"
	"github.com/LGFdev/sanipasse/internal/format"
)

// DDocConfig holds options for generating a mock 2D-DOC.
type DDocConfig struct {
	Key *ecdsa.PrivateKey
	// Version defaults to 4.
	Version      int
	CAID         string
	CertID       string
	DocumentType string
	// Zero times are written as FFFF.
	Emitted time.Time
	Signed  time.Time
	Fields  map[string]string
	// Message replaces the encoded Fields when set.
	Message string
	Annex   string
}

// Generate2DDoc signs cfg and returns the 2D-DOC text.
func Generate2DDoc(cfg DDocConfig) (string, error) {
	h := &dcdoc.Header{
		Version:      cfg.Version,
		CAID:         cfg.CAID,
		CertID:       cfg.CertID,
		DocumentType: cfg.DocumentType,
		Perimeter:    "01",
		Country:      "FR",
	}
	if h.Version == 0 {
		h.Version = 4
	}
	if len(h.CAID) != 4 || len(h.CertID) != 4 || len(h.DocumentType) != 2 {
		return "", fmt.Errorf("CA id and certificate id need 4 characters, document type 2")
	}
	if !cfg.Emitted.IsZero() {
		h.Emitted = &cfg.Emitted
	}
	if !cfg.Signed.IsZero() {
		h.Signed = &cfg.Signed
	}

	message := cfg.Message
	if message == "" {
		var err error
		if message, err = dcdoc.EncodeMessage(cfg.DocumentType, cfg.Fields); err != nil {
			return "", err
		}
	}
	signed := h.Format() + message

	signer, err := cose.NewSigner(cose.AlgorithmES256, cfg.Key)
	if err != nil {
		return "", fmt.Errorf("creating signer: %w", err)
	}
	sig, err := signer.Sign(rand.Reader, []byte(signed))
	if err != nil {
		return "", fmt.Errorf("signing: %w", err)
	}

	out := signed + string(format.UnitSeparator) + format.EncodeBase32(sig)
	if cfg.Annex != "" {
		out += string(format.RecordSeparator) + cfg.Annex
	}
	return out, nil
}
