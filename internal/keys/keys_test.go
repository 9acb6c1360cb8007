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

package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/LGFdev/sanipasse/internal/format"
)

func TestParsePublicKey_PEM(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	ecDER, _ := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	rsaDER, _ := x509.MarshalPKIXPublicKey(&rsaKey.PublicKey)

	tests := []struct {
		name    string
		block   *pem.Block
		wantAlg string
	}{
		{"ec public key", &pem.Block{Type: "PUBLIC KEY", Bytes: ecDER}, "ECDSA P-256"},
		{"rsa public key", &pem.Block{Type: "PUBLIC KEY", Bytes: rsaDER}, "RSA 2048"},
		{"pkcs1 rsa", &pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&rsaKey.PublicKey)}, "RSA 2048"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := ParsePublicKey(pem.EncodeToMemory(tt.block))
			if err != nil {
				t.Fatalf("ParsePublicKey() error: %v", err)
			}
			if got := Algorithm(pub); got != tt.wantAlg {
				t.Errorf("Algorithm() = %q, want %q", got, tt.wantAlg)
			}
		})
	}
}

func TestParsePublicKey_Certificate(t *testing.T) {
	key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "DSC"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	pub, err := ParsePublicKey(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	if err != nil {
		t.Fatalf("ParsePublicKey() error: %v", err)
	}
	if !key.PublicKey.Equal(pub) {
		t.Error("certificate key does not match")
	}
}

func TestParseJWK_EC(t *testing.T) {
	key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)

	jwk := map[string]any{
		"kty": "EC",
		"crv": "P-256",
		"x":   format.EncodeBase64URL(key.PublicKey.X.Bytes()),
		"y":   format.EncodeBase64URL(key.PublicKey.Y.Bytes()),
	}
	data, _ := json.Marshal(jwk)

	pub, err := ParseJWK(data)
	if err != nil {
		t.Fatalf("ParseJWK() error: %v", err)
	}
	if !key.PublicKey.Equal(pub) {
		t.Error("parsed key does not match original")
	}
}

func TestParseJWK_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unsupported type", `{"kty":"OKP","crv":"Ed25519"}`},
		{"unsupported curve", `{"kty":"EC","crv":"P-192","x":"AA","y":"AA"}`},
		{"missing y", `{"kty":"EC","crv":"P-256","x":"AA"}`},
		{"off curve", `{"kty":"EC","crv":"P-256","x":"AQ","y":"AQ"}`},
		{"not json", `not a key`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePublicKey([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
