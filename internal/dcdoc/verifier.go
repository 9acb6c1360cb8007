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
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"time"

	"github.com/veraison/go-cose"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/trust"
)

// VerifySignature resolves the document's certificate in store, checks its
// validity window at now and verifies the raw r||s ECDSA signature over the
// header and message zone.
func VerifySignature(doc *Document, store *trust.Store, now time.Time) (*trust.Entry, error) {
	kid := doc.Header.KeyID()
	entry, ok := store.Find(kid)
	if !ok {
		return nil, certificate.UnknownSigner(kid)
	}
	if !entry.ValidAt(now) {
		return nil, certificate.InvalidAuthority(kid, entry.NotBefore, entry.NotAfter, now)
	}

	pub, ok := entry.PublicKey.Key.(*ecdsa.PublicKey)
	if !ok {
		return nil, certificate.InvalidSignature(fmt.Sprintf("2D-DOC signer %s is not an ECDSA key", kid), nil)
	}
	alg, err := algorithmForCurve(pub.Curve)
	if err != nil {
		return nil, certificate.InvalidSignature("2D-DOC signer "+kid, err)
	}
	verifier, err := cose.NewVerifier(alg, pub)
	if err != nil {
		return nil, certificate.InvalidSignature("creating verifier", err)
	}
	if err := verifier.Verify([]byte(doc.Signed), doc.Signature); err != nil {
		return nil, certificate.InvalidSignature("signature verification failed", err)
	}
	return entry, nil
}

// algorithmForCurve pairs each curve with the SHA-2 digest of matching size.
func algorithmForCurve(c elliptic.Curve) (cose.Algorithm, error) {
	switch c {
	case elliptic.P256():
		return cose.AlgorithmES256, nil
	case elliptic.P384():
		return cose.AlgorithmES384, nil
	case elliptic.P521():
		return cose.AlgorithmES512, nil
	default:
		return 0, fmt.Errorf("unsupported curve %s", c.Params().Name)
	}
}
