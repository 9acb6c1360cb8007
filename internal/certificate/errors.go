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

package certificate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies why a document was rejected.
type Kind int

const (
	KindUnrecognizedFormat Kind = iota + 1
	KindMalformedInput
	KindSchemaValidation
	KindUnknownSigner
	KindInvalidCertificateAuthority
	KindInvalidSignature
	KindIssuedInFuture
	KindExpired
	KindUnsupportedCertificate
)

var kindNames = map[Kind]string{
	KindUnrecognizedFormat:          "unrecognized_format",
	KindMalformedInput:              "malformed_input",
	KindSchemaValidation:            "schema_validation",
	KindUnknownSigner:               "unknown_signer",
	KindInvalidCertificateAuthority: "invalid_certificate_authority",
	KindInvalidSignature:            "invalid_signature",
	KindIssuedInFuture:              "issued_in_future",
	KindExpired:                     "expired",
	KindUnsupportedCertificate:      "unsupported_certificate",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Expected reports whether k is an ordinary outcome of scanning real
// documents, as opposed to a sign of a broken scanner or a forgery attempt.
func (k Kind) Expected() bool {
	switch k {
	case KindUnrecognizedFormat, KindMalformedInput, KindInvalidSignature:
		return false
	default:
		return true
	}
}

// Error is the single error type returned by every verification stage.
type Error struct {
	Kind Kind
	Msg  string
	// Record is the decoded but untrusted document, when decoding got that far.
	Record *UnverifiedRecord
	// Messages holds every schema violation for KindSchemaValidation.
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// WithRecord attaches the untrusted record for diagnostics and returns e.
func (e *Error) WithRecord(r *UnverifiedRecord) *Error {
	e.Record = r
	return e
}

var (
	ErrUnrecognizedFormat          = &Error{Kind: KindUnrecognizedFormat}
	ErrMalformedInput              = &Error{Kind: KindMalformedInput}
	ErrSchemaValidation            = &Error{Kind: KindSchemaValidation}
	ErrUnknownSigner               = &Error{Kind: KindUnknownSigner}
	ErrInvalidCertificateAuthority = &Error{Kind: KindInvalidCertificateAuthority}
	ErrInvalidSignature            = &Error{Kind: KindInvalidSignature}
	ErrIssuedInFuture              = &Error{Kind: KindIssuedInFuture}
	ErrExpired                     = &Error{Kind: KindExpired}
	ErrUnsupportedCertificate      = &Error{Kind: KindUnsupportedCertificate}
)

// Errorf-style constructors used by the decoding and verification stages.

func Malformed(msg string, err error) *Error {
	return &Error{Kind: KindMalformedInput, Msg: msg, Err: err}
}

func UnknownSigner(keyID string) *Error {
	return &Error{Kind: KindUnknownSigner, Msg: "no trusted key for kid " + keyID}
}

// InvalidAuthority reports a signer used outside its validity window.
func InvalidAuthority(keyID string, notBefore, notAfter, at time.Time) *Error {
	return &Error{
		Kind: KindInvalidCertificateAuthority,
		Msg: fmt.Sprintf("signer %s is valid from %s to %s, not at %s", keyID,
			notBefore.UTC().Format(time.RFC3339), notAfter.UTC().Format(time.RFC3339), at.UTC().Format(time.RFC3339)),
	}
}

func InvalidSignature(msg string, err error) *Error {
	return &Error{Kind: KindInvalidSignature, Msg: msg, Err: err}
}

func SchemaInvalid(messages []string) *Error {
	return &Error{Kind: KindSchemaValidation, Messages: messages}
}

func Unsupported(msg string) *Error {
	return &Error{Kind: KindUnsupportedCertificate, Msg: msg}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
