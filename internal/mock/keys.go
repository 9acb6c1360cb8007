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

package mock

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	"github.com/LGFdev/sanipasse/internal/format"
	"github.com/LGFdev/sanipasse/internal/trust"
)

// GenerateKey creates an ephemeral P-256 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// PublicKeyJWK returns the JSON JWK representation of an EC public key.
func PublicKeyJWK(key *ecdsa.PublicKey) string {
	keySize := (key.Curve.Params().BitSize + 7) / 8
	xBytes := key.X.FillBytes(make([]byte, keySize))
	yBytes := key.Y.FillBytes(make([]byte, keySize))

	jwk := map[string]string{
		"kty": "EC",
		"crv": key.Curve.Params().Name,
		"x":   format.EncodeBase64URL(xBytes),
		"y":   format.EncodeBase64URL(yBytes),
	}

	b, _ := json.MarshalIndent(jwk, "", "  ")
	return string(b)
}

// Certificate self-signs a certificate for key, valid between notBefore and
// notAfter, and returns it PEM encoded.
func Certificate(key crypto.Signer, commonName string, notBefore, notAfter time.Time) (string, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return "", fmt.Errorf("generating serial: %w", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: commonName, Country: []string{"FR"}},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	if err != nil {
		return "", fmt.Errorf("creating certificate: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})), nil
}

// TrustEntry wraps key in a self-signed certificate and parses it into a
// trust store entry under kid.
func TrustEntry(kid string, key crypto.Signer, notBefore, notAfter time.Time) (*trust.Entry, error) {
	certPEM, err := Certificate(key, "Test signer "+kid, notBefore, notAfter)
	if err != nil {
		return nil, err
	}
	return trust.ParseEntry(kid, []byte(certPEM))
}

// Store builds a trust store holding a single entry.
func Store(kid string, key crypto.Signer, notBefore, notAfter time.Time) (*trust.Store, error) {
	e, err := TrustEntry(kid, key, notBefore, notAfter)
	if err != nil {
		return nil, err
	}
	return trust.New(e)
}
