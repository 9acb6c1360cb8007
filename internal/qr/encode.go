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
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// DefaultSize is the edge length in pixels of rendered codes.
const DefaultSize = 400

// Encode renders content as a square QR code of size pixels, quiet zone
// included.
func Encode(content string, size int) (image.Image, error) {
	if size <= 0 {
		size = DefaultSize
	}
	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return matrix, nil
}

// WritePNG renders content and writes it to w as PNG.
func WritePNG(w io.Writer, content string, size int) error {
	img, err := Encode(content, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
