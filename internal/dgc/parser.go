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

// Package dgc decodes and verifies EU Digital Green Certificates:
// "HC1:" + base45(zlib(COSE_Sign1(CWT))).
package dgc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/format"
)

// COSE header and CWT claim labels.
const (
	headerAlgorithm = 1
	headerKeyID     = 4

	claimIssuer     = 1
	claimExpires    = 4
	claimIssuedAt   = 6
	claimHealthCert = -260

	hcertVersion1 = 1

	tagCOSESign1 = 18
)

// Envelope is a decoded COSE_Sign1 structure.
type Envelope struct {
	// Raw is the envelope as transported (after base45 and zlib).
	Raw    []byte
	Tagged bool
	// Protected is the serialized protected header exactly as signed.
	Protected       []byte
	ProtectedHeader Map
	Unprotected     Map
	Payload         []byte
	Signature       []byte
	// Algorithm is the COSE algorithm id from the protected header, 0 if absent.
	Algorithm int64
	KeyID     []byte
}

// DecodeTransport strips the HC1: prefix, reverses base45 and inflates the
// result when it is zlib compressed.
func DecodeTransport(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(format.DGCPrefix) || !strings.EqualFold(raw[:len(format.DGCPrefix)], format.DGCPrefix) {
		return nil, certificate.Malformed("missing "+format.DGCPrefix+" prefix", nil)
	}
	data, err := format.DecodeBase45(raw[len(format.DGCPrefix):])
	if err != nil {
		return nil, certificate.Malformed("decoding base45", err)
	}
	out, _ := format.Inflate(data)
	return out, nil
}

// DecodeEnvelope parses a COSE_Sign1 structure, with or without tag 18.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	env := &Envelope{Raw: data}

	content := data
	if len(data) > 0 && data[0]>>5 == 6 {
		var tag cbor.RawTag
		if err := cborDecMode.Unmarshal(data, &tag); err != nil {
			return nil, certificate.Malformed("decoding COSE tag", err)
		}
		if tag.Number != tagCOSESign1 {
			return nil, certificate.Malformed(fmt.Sprintf("unexpected CBOR tag %d", tag.Number), nil)
		}
		env.Tagged = true
		content = tag.Content
	}

	var parts []cbor.RawMessage
	if err := cborDecMode.Unmarshal(content, &parts); err != nil {
		return nil, certificate.Malformed("COSE_Sign1 is not an array", err)
	}
	if len(parts) != 4 {
		return nil, certificate.Malformed(fmt.Sprintf("COSE_Sign1 has %d elements, want 4", len(parts)), nil)
	}

	if err := cborDecMode.Unmarshal(parts[0], &env.Protected); err != nil {
		return nil, certificate.Malformed("protected header is not a byte string", err)
	}
	env.ProtectedHeader = Map{}
	if len(env.Protected) > 0 {
		v, err := Parse(env.Protected)
		if err != nil {
			return nil, err
		}
		if env.ProtectedHeader, err = AsMap(v); err != nil {
			return nil, certificate.Malformed("protected header", err)
		}
	}

	v, err := Parse(parts[1])
	if err != nil {
		return nil, err
	}
	if env.Unprotected, err = AsMap(v); err != nil {
		return nil, certificate.Malformed("unprotected header", err)
	}

	if err := cborDecMode.Unmarshal(parts[2], &env.Payload); err != nil || env.Payload == nil {
		return nil, certificate.Malformed("payload is not a byte string", err)
	}
	if err := cborDecMode.Unmarshal(parts[3], &env.Signature); err != nil {
		return nil, certificate.Malformed("signature is not a byte string", err)
	}

	if alg, ok := env.ProtectedHeader.Get(headerAlgorithm); ok {
		if env.Algorithm, err = AsInt(alg); err != nil {
			return nil, certificate.Malformed("algorithm header", err)
		}
	}

	// The kid belongs in the protected header, but some issuers put it in
	// the unprotected one.
	kid, ok := env.ProtectedHeader.Get(headerKeyID)
	if !ok {
		kid, ok = env.Unprotected.Get(headerKeyID)
	}
	if !ok {
		return nil, certificate.Malformed("unknown signer: no key identifier in COSE headers", nil)
	}
	if env.KeyID, err = AsBytes(kid); err != nil {
		return nil, certificate.Malformed("key identifier", err)
	}
	return env, nil
}

// ParseClaims decodes the CWT payload into an unverified record.
func ParseClaims(env *Envelope) (*certificate.UnverifiedRecord, error) {
	v, err := Parse(env.Payload)
	if err != nil {
		return nil, err
	}
	claims, err := AsMap(v)
	if err != nil {
		return nil, certificate.Malformed("CWT claims", err)
	}

	rec := &certificate.UnverifiedRecord{
		Format: certificate.FormatDGC,
		KeyID:  env.KeyID,
	}

	if iss, ok := claims.Get(claimIssuer); ok {
		s, err := AsText(iss)
		if err != nil {
			return nil, certificate.Malformed("issuer claim", err)
		}
		rec.Issuer = &s
	}
	if rec.ExpiresAt, err = timeClaim(claims, claimExpires, "expiration"); err != nil {
		return nil, err
	}
	if rec.IssuedAt, err = timeClaim(claims, claimIssuedAt, "issued-at"); err != nil {
		return nil, err
	}

	body, err := healthCert(claims)
	if err != nil {
		return nil, err
	}
	rec.Payload = body.Document()
	return rec, nil
}

// Decode runs the transport and envelope decoders on a raw HC1: string.
func Decode(raw string) (*Envelope, *certificate.UnverifiedRecord, error) {
	data, err := DecodeTransport(raw)
	if err != nil {
		return nil, nil, err
	}
	env, err := DecodeEnvelope(data)
	if err != nil {
		return nil, nil, err
	}
	rec, err := ParseClaims(env)
	if err != nil {
		return env, nil, err
	}
	return env, rec, nil
}

func timeClaim(claims Map, label int64, name string) (*time.Time, error) {
	v, ok := claims.Get(label)
	if !ok {
		return nil, nil
	}
	var secs int64
	switch n := v.(type) {
	case Int:
		secs = int64(n)
	case Float:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, certificate.Malformed(fmt.Sprintf("%s claim is not a whole number of seconds: %v", name, f), nil)
		}
		secs = int64(f)
	default:
		return nil, certificate.Malformed(name+" claim", mismatch("integer", v))
	}
	t := time.Unix(secs, 0).UTC()
	return &t, nil
}

func healthCert(claims Map) (Map, error) {
	v, ok := claims.Get(claimHealthCert)
	if !ok {
		return nil, certificate.Malformed("no health certificate claim (-260)", nil)
	}
	hcert, err := AsMap(v)
	if err != nil {
		return nil, certificate.Malformed("health certificate claim", err)
	}
	inner, ok := hcert.Get(hcertVersion1)
	if !ok {
		return nil, certificate.Malformed("health certificate claim has no version 1 body", nil)
	}
	body, err := AsMap(inner)
	if err != nil {
		return nil, certificate.Malformed("health certificate body", err)
	}
	return body, nil
}
