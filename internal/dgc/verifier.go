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

package dgc

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/veraison/go-cose"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/trust"
)

// VerifySignature resolves the envelope's kid in store, checks the signer's
// validity window at now and verifies the COSE_Sign1 signature over the
// Sig_structure. It returns the matching trust entry.
func VerifySignature(env *Envelope, store *trust.Store, now time.Time) (*trust.Entry, error) {
	kid := base64.StdEncoding.EncodeToString(env.KeyID)
	entry, ok := store.Find(kid)
	if !ok {
		return nil, certificate.UnknownSigner(kid)
	}
	if !entry.ValidAt(now) {
		return nil, certificate.InvalidAuthority(kid, entry.NotBefore, entry.NotAfter, now)
	}

	alg, ok := coseAlgorithm(env.Algorithm)
	if !ok {
		return nil, certificate.InvalidSignature(fmt.Sprintf("unsupported COSE algorithm %d", env.Algorithm), nil)
	}
	verifier, err := cose.NewVerifier(alg, entry.PublicKey.Key)
	if err != nil {
		return nil, certificate.InvalidSignature(fmt.Sprintf("%s key cannot verify %s", entry.PublicKey.Algorithm, alg), err)
	}

	var msg cose.Sign1Message
	if env.Tagged {
		err = msg.UnmarshalCBOR(env.Raw)
	} else {
		err = (*cose.UntaggedSign1Message)(&msg).UnmarshalCBOR(env.Raw)
	}
	if err != nil {
		return nil, certificate.InvalidSignature("parsing COSE_Sign1", err)
	}

	if err := msg.Verify(nil, verifier); err != nil {
		return nil, certificate.InvalidSignature("signature verification failed", err)
	}
	return entry, nil
}

// AlgorithmName returns the COSE name of an algorithm id, e.g. "ES256".
func AlgorithmName(id int64) string {
	if alg, ok := coseAlgorithm(id); ok {
		return alg.String()
	}
	return fmt.Sprintf("unknown(%d)", id)
}

func coseAlgorithm(id int64) (cose.Algorithm, bool) {
	switch cose.Algorithm(id) {
	case cose.AlgorithmES256, cose.AlgorithmES384, cose.AlgorithmES512,
		cose.AlgorithmPS256, cose.AlgorithmPS384, cose.AlgorithmPS512:
		return cose.Algorithm(id), true
	default:
		return 0, false
	}
}
