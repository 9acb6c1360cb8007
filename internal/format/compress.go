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

package format

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// maxInflated bounds decompressed payloads; real certificates are a few KiB.
const maxInflated = 1 << 20

// Inflate decompresses zlib data. Compression is optional for DGC, so when
// data is not a valid zlib stream it is returned unchanged with ok=false.
func Inflate(data []byte) (out []byte, ok bool) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data, false
	}
	defer r.Close()

	b, err := io.ReadAll(io.LimitReader(r, maxInflated+1))
	if err != nil || len(b) > maxInflated {
		return data, false
	}
	return b, true
}

// Deflate zlib-compresses data at the best compression level.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
