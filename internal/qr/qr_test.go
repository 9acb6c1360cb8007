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

package qr

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCode = "HC1:NCFOXN%TS3DH3ZSUZK+.V0ETD%65NL-AH-R6IOO6+IUKRG*I.I0"

func TestEncode_RoundTrip(t *testing.T) {
	img, err := Encode(testCode, 300)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("bounds = %v, want 300x300", b)
	}

	got, err := decodeQR(img)
	if err != nil {
		t.Fatalf("decodeQR() error: %v", err)
	}
	if got != testCode {
		t.Errorf("got %q, want %q", got, testCode)
	}
}

func TestScanFile_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testCode, 0); err != nil {
		t.Fatalf("WritePNG() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pass.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if got != testCode {
		t.Errorf("got %q, want %q", got, testCode)
	}
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		scan    func() (string, error)
		wantErr string
	}{
		{"missing file", func() (string, error) { return ScanFile("testdata/nonexistent.png") }, "opening image file"},
		{"not an image", func() (string, error) { return ScanFile("scan.go") }, "decoding image"},
		{"blank image", func() (string, error) { return decodeQR(image.NewRGBA(image.Rect(0, 0, 100, 100))) }, "no QR code found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scan()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
