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

// Package keys parses signer public keys from trust store material.
package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/LGFdev/sanipasse/internal/format"
)

// ParsePublicKey parses a public key from PEM (key or certificate) or JWK bytes.
func ParsePublicKey(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block != nil {
		return parsePEMBlock(block)
	}
	return ParseJWK(data)
}

func parsePEMBlock(block *pem.Block) (crypto.PublicKey, error) {
	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		return cert.PublicKey, nil
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("unsupported PEM block type %s: %w", block.Type, err)
		}
		return key, nil
	}
}

// ParseJWK parses a JWK JSON object into a public key.
func ParseJWK(data []byte) (crypto.PublicKey, error) {
	var jwk map[string]string
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("not a valid PEM or JWK: %w", err)
	}

	switch jwk["kty"] {
	case "EC":
		return parseECJWK(jwk)
	case "RSA":
		return parseRSAJWK(jwk)
	default:
		return nil, fmt.Errorf("unsupported JWK key type: %q", jwk["kty"])
	}
}

func parseECJWK(jwk map[string]string) (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch jwk["crv"] {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported curve: %q", jwk["crv"])
	}

	x, err := jwkInt(jwk, "x")
	if err != nil {
		return nil, err
	}
	y, err := jwkInt(jwk, "y")
	if err != nil {
		return nil, err
	}
	if !curve.IsOnCurve(x, y) {
		return nil, fmt.Errorf("point is not on curve %s", jwk["crv"])
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func parseRSAJWK(jwk map[string]string) (*rsa.PublicKey, error) {
	n, err := jwkInt(jwk, "n")
	if err != nil {
		return nil, err
	}
	e, err := jwkInt(jwk, "e")
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func jwkInt(jwk map[string]string, name string) (*big.Int, error) {
	v, ok := jwk[name]
	if !ok || v == "" {
		return nil, fmt.Errorf("JWK missing %q", name)
	}
	b, err := format.DecodeBase64URL(v)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return new(big.Int).SetBytes(b), nil
}

// Algorithm describes a public key for display, e.g. "ECDSA P-256" or "RSA 2048".
func Algorithm(key crypto.PublicKey) string {
	switch k := key.(type) {
	case *ecdsa.PublicKey:
		return "ECDSA " + k.Curve.Params().Name
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA %d", k.N.BitLen())
	case ed25519.PublicKey:
		return "Ed25519"
	default:
		return fmt.Sprintf("%T", key)
	}
}
