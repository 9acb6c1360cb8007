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
	"math"
	"math/big"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		IntDec: cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Value is a decoded CBOR data item. The set of implementations is closed:
// Null, Bool, Int, Float, Bytes, Text, Array and Map.
type Value interface {
	// Interface converts the item to a JSON compatible Go value.
	Interface() any
	kind() string
}

type (
	Null  struct{}
	Bool  bool
	Int   int64
	Float float64
	Bytes []byte
	Text  string
	Array []Value
	// Map keys are int64 for integer labels and string for text keys.
	Map map[any]Value
)

func (Null) kind() string  { return "null" }
func (Bool) kind() string  { return "bool" }
func (Int) kind() string   { return "integer" }
func (Float) kind() string { return "float" }
func (Bytes) kind() string { return "byte string" }
func (Text) kind() string  { return "text string" }
func (Array) kind() string { return "array" }
func (Map) kind() string   { return "map" }

func (Null) Interface() any    { return nil }
func (b Bool) Interface() any  { return bool(b) }
func (i Int) Interface() any   { return int64(i) }
func (f Float) Interface() any { return float64(f) }
func (b Bytes) Interface() any { return base64.StdEncoding.EncodeToString(b) }
func (t Text) Interface() any  { return string(t) }

func (a Array) Interface() any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = v.Interface()
	}
	return out
}

func (m Map) Interface() any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v.Interface()
	}
	return out
}

// Get returns the value stored under an integer label.
func (m Map) Get(label int64) (Value, bool) {
	v, ok := m[label]
	return v, ok
}

// GetText returns the value stored under a text key.
func (m Map) GetText(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Document converts a map with text keys to the generic form used for
// schema validation and display.
func (m Map) Document() map[string]any {
	return m.Interface().(map[string]any)
}

func mismatch(want string, v Value) *certificate.Error {
	got := "nothing"
	if v != nil {
		got = v.kind()
	}
	return certificate.Malformed(fmt.Sprintf("expected %s, got %s", want, got), nil)
}

func AsMap(v Value) (Map, error) {
	if m, ok := v.(Map); ok {
		return m, nil
	}
	return nil, mismatch("map", v)
}

func AsArray(v Value) (Array, error) {
	if a, ok := v.(Array); ok {
		return a, nil
	}
	return nil, mismatch("array", v)
}

func AsInt(v Value) (int64, error) {
	if i, ok := v.(Int); ok {
		return int64(i), nil
	}
	return 0, mismatch("integer", v)
}

func AsBytes(v Value) ([]byte, error) {
	if b, ok := v.(Bytes); ok {
		return b, nil
	}
	return nil, mismatch("byte string", v)
}

func AsText(v Value) (string, error) {
	if t, ok := v.(Text); ok {
		return string(t), nil
	}
	return "", mismatch("text string", v)
}

// Parse decodes one CBOR data item into a Value tree.
func Parse(data []byte) (Value, error) {
	var raw any
	if err := cborDecMode.Unmarshal(data, &raw); err != nil {
		return nil, certificate.Malformed("decoding CBOR", err)
	}
	return fromGo(raw)
}

func fromGo(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case int64:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, certificate.Malformed("integer out of range", nil)
		}
		return Int(int64(v)), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case []byte:
		return Bytes(v), nil
	case string:
		return Text(v), nil
	case time.Time:
		// Tagged date-times collapse to their epoch value.
		return Int(v.Unix()), nil
	case big.Int:
		if !v.IsInt64() {
			return nil, certificate.Malformed("integer out of range", nil)
		}
		return Int(v.Int64()), nil
	case cbor.Tag:
		return fromGo(v.Content)
	case []any:
		out := make(Array, len(v))
		for i, item := range v {
			conv, err := fromGo(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[any]any:
		out := make(Map, len(v))
		for k, item := range v {
			switch k.(type) {
			case int64, string:
			case uint64:
				k = int64(k.(uint64))
			default:
				return nil, certificate.Malformed(fmt.Sprintf("unsupported map key type %T", k), nil)
			}
			conv, err := fromGo(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	default:
		return nil, certificate.Malformed(fmt.Sprintf("unsupported CBOR item %T", raw), nil)
	}
}
