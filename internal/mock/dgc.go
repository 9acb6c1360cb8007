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
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/LGFdev/sanipasse/internal/format"
)

// DGCConfig holds options for generating a mock Digital Green Certificate.
type DGCConfig struct {
	Key   crypto.Signer
	KeyID []byte
	// Algorithm defaults to ES256 for EC keys and PS256 for RSA keys.
	Algorithm cose.Algorithm
	// KeyIDUnprotected moves the kid to the unprotected header.
	KeyIDUnprotected bool
	Issuer           string
	// Zero times are left out of the claims.
	IssuedAt  time.Time
	ExpiresAt time.Time
	Body      map[string]any
	// Claims replaces the generated CWT claims entirely when set.
	Claims       map[int64]any
	Untagged     bool
	Uncompressed bool
}

// GenerateDGC signs cfg and returns the "HC1:" string.
func GenerateDGC(cfg DGCConfig) (string, error) {
	envelope, err := SignDGC(cfg)
	if err != nil {
		return "", err
	}
	return EncodeDGC(envelope, !cfg.Uncompressed)
}

// SignDGC returns the serialized COSE_Sign1 envelope for cfg.
func SignDGC(cfg DGCConfig) ([]byte, error) {
	alg := cfg.Algorithm
	if alg == 0 {
		switch cfg.Key.(type) {
		case *ecdsa.PrivateKey:
			alg = cose.AlgorithmES256
		case *rsa.PrivateKey:
			alg = cose.AlgorithmPS256
		default:
			return nil, fmt.Errorf("unsupported key type %T", cfg.Key)
		}
	}

	claims := cfg.Claims
	if claims == nil {
		claims = map[int64]any{
			-260: map[int64]any{1: cfg.Body},
		}
		if cfg.Issuer != "" {
			claims[1] = cfg.Issuer
		}
		if !cfg.ExpiresAt.IsZero() {
			claims[4] = cfg.ExpiresAt.Unix()
		}
		if !cfg.IssuedAt.IsZero() {
			claims[6] = cfg.IssuedAt.Unix()
		}
	}
	payload, err := cbor.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("encoding CWT claims: %w", err)
	}

	signer, err := cose.NewSigner(alg, cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("creating COSE signer: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(alg)
	if cfg.KeyIDUnprotected {
		msg.Headers.Unprotected[cose.HeaderLabelKeyID] = cfg.KeyID
	} else {
		msg.Headers.Protected[cose.HeaderLabelKeyID] = cfg.KeyID
	}
	msg.Payload = payload

	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("COSE signing: %w", err)
	}

	var out []byte
	if cfg.Untagged {
		out, err = (*cose.UntaggedSign1Message)(msg).MarshalCBOR()
	} else {
		out, err = msg.MarshalCBOR()
	}
	if err != nil {
		return nil, fmt.Errorf("encoding COSE_Sign1: %w", err)
	}
	return out, nil
}

// EncodeDGC applies the DGC transport encoding to a COSE envelope.
func EncodeDGC(envelope []byte, compress bool) (string, error) {
	data := envelope
	if compress {
		var err error
		if data, err = format.Deflate(envelope); err != nil {
			return "", fmt.Errorf("compressing: %w", err)
		}
	}
	return format.DGCPrefix + format.EncodeBase45(data), nil
}
