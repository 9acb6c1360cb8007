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

// Package output renders certificates, rejections and trust stores for the
// terminal, or as JSON.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/trust"
	"github.com/LGFdev/sanipasse/internal/verify"
)

// Options controls how results are printed.
type Options struct {
	JSON    bool
	Verbose bool
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	valueColor   = color.New(color.FgWhite)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)

	// timeNow is the function used to get the current time. Override in tests.
	timeNow = time.Now
)

// relativeTime returns "in X units" for future times and "X units ago" for
// past ones.
func relativeTime(t time.Time) string {
	d := t.Sub(timeNow())
	if d < 0 {
		return formatDuration(-d) + " ago"
	}
	return "in " + formatDuration(d)
}

func formatDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d >= 60*day:
		return fmt.Sprintf("%d months", int(d/(30*day)))
	case d >= 2*day:
		return fmt.Sprintf("%d days", int(d/day))
	case d >= day:
		return "1 day"
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Hour:
		return "1 hour"
	case d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return "1 minute"
	}
}

// BuildCertificateJSON returns the JSON form of a verified certificate.
func BuildCertificateJSON(info *certificate.Info, problem string) map[string]any {
	out := map[string]any{
		"valid":       problem == "",
		"certificate": info,
	}
	if problem != "" {
		out["problem"] = problem
	}
	return out
}

// PrintCertificate prints a verified certificate and its validity verdict.
func PrintCertificate(info *certificate.Info, problem string, opts Options) {
	if opts.JSON {
		PrintJSON(BuildCertificateJSON(info, problem))
		return
	}

	headerColor.Printf("%s %s certificate\n", formatName(info.Source.Format()), info.Type)
	headerColor.Println(strings.Repeat("─", 50))

	printSection("Holder")
	printKV("First name", info.FirstName, 1)
	printKV("Last name", info.LastName, 1)
	printKV("Born", info.DateOfBirth.String(), 1)

	switch {
	case info.Vaccination != nil:
		v := info.Vaccination
		printSection("Vaccination")
		printKV("Doses", fmt.Sprintf("%d/%d", v.DosesReceived, v.DosesExpected), 1)
		printKV("Last dose", v.VaccinationDate.String()+dimColor.Sprintf(" (%s)", relativeTime(v.VaccinationDate.Time)), 1)
		printKV("Product", v.ProphylacticAgent, 1)
	case info.Test != nil:
		printSection("Test")
		result := "positive"
		if info.Test.IsNegative {
			result = "negative"
		}
		printKV("Result", result, 1)
		printKV("Sampled", info.Test.TestDate.Format(time.RFC3339)+dimColor.Sprintf(" (%s)", relativeTime(info.Test.TestDate)), 1)
	case info.Recovery != nil:
		r := info.Recovery
		printSection("Recovery")
		printKV("First positive", r.FirstPositive.String(), 1)
		printKV("Valid from", r.ValidFrom.String(), 1)
		printKV("Valid until", r.ValidUntil.String(), 1)
	}

	printSection("Signature")
	successColor.Println("  ✓ Signature valid")
	printSource(info.Source, opts.Verbose)

	fmt.Println()
	if problem != "" {
		warnColor.Printf("⚠ Not a valid pass: %s\n", problem)
	} else {
		successColor.Println("✓ Valid pass")
	}
}

func printSource(src certificate.Source, verbose bool) {
	switch s := src.(type) {
	case certificate.DGCSource:
		printKV("Key ID", s.KeyID, 1)
		if s.Issuer != "" {
			printKV("Issuer", s.Issuer, 1)
		}
		printKV("Signer", s.Signer, 1)
		if verbose {
			printSection("Health certificate")
			printMap(s.Body, 1)
		}
	case certificate.DDocSource:
		printKV("Key ID", s.KeyID, 1)
		printKV("Document type", s.DocumentType, 1)
		printKV("Signer", s.Signer, 1)
		if verbose {
			printSection("Message zone")
			for _, k := range sortedKeys(s.Fields) {
				printKV(k, s.Fields[k], 1)
			}
		}
	}
}

// BuildRejectionJSON returns the JSON form of a failed verification.
func BuildRejectionJSON(err error) map[string]any {
	kind := certificate.KindOf(err)
	out := map[string]any{
		"valid": false,
		"kind":  kind.String(),
		"error": err.Error(),
	}
	var cerr *certificate.Error
	if errors.As(err, &cerr) {
		if len(cerr.Messages) > 0 {
			out["messages"] = cerr.Messages
		}
		if cerr.Record != nil {
			out["unverified"] = buildRecordJSON(cerr.Record)
		}
	}
	return out
}

// PrintRejection prints why a certificate was refused. Decoded content is
// only shown with Verbose and is labelled as untrusted.
func PrintRejection(err error, opts Options) {
	if opts.JSON {
		PrintJSON(BuildRejectionJSON(err))
		return
	}

	kind := certificate.KindOf(err)
	errorColor.Printf("✗ Rejected (%s)\n", kind)
	printKV("Reason", err.Error(), 1)

	var cerr *certificate.Error
	if !errors.As(err, &cerr) {
		return
	}
	for _, m := range cerr.Messages {
		errorColor.Printf("    • %s\n", m)
	}
	if opts.Verbose && cerr.Record != nil {
		printSection("Unverified content")
		printRecord(cerr.Record)
	}
}

// BuildDecodedJSON returns the JSON form of an unverified decode.
func BuildDecodedJSON(d *verify.Decoded) map[string]any {
	out := buildRecordJSON(d.Record)
	out["verified"] = false
	if d.Algorithm != "" {
		out["algorithm"] = d.Algorithm
	}
	if d.Header != nil {
		out["header"] = map[string]any{
			"version":      d.Header.Version,
			"caId":         d.Header.CAID,
			"certId":       d.Header.CertID,
			"emitted":      d.Header.Emitted,
			"signed":       d.Header.Signed,
			"documentType": d.Header.DocumentType,
			"perimeter":    d.Header.Perimeter,
			"country":      d.Header.Country,
		}
	}
	if d.Signer != nil {
		out["trustedSigner"] = map[string]any{"kid": d.Signer.KeyID, "subject": d.Signer.Subject}
	}
	return out
}

// PrintDecoded prints a certificate without any trust decision.
func PrintDecoded(d *verify.Decoded, opts Options) {
	if opts.JSON {
		PrintJSON(BuildDecodedJSON(d))
		return
	}

	headerColor.Printf("%s (unverified)\n", formatName(d.Format))
	headerColor.Println(strings.Repeat("─", 50))
	warnColor.Println("⚠ Signature not checked. Do not rely on this content.")

	if d.Header != nil {
		printSection("Header")
		printKV("Version", fmt.Sprintf("%02d", d.Header.Version), 1)
		printKV("Key ID", d.Header.KeyID(), 1)
		printKV("Document type", d.Header.DocumentType, 1)
		if d.Header.Country != "" {
			printKV("Country", d.Header.Country, 1)
		}
	}
	if d.Algorithm != "" {
		printSection("Protected header")
		printKV("Algorithm", d.Algorithm, 1)
	}

	printSection("Signer")
	if d.Signer != nil {
		successColor.Printf("  ✓ Key ID %s is in the trust store\n", d.Signer.KeyID)
		if d.Signer.Subject != "" {
			printKV("Subject", d.Signer.Subject, 1)
		}
	} else {
		warnColor.Printf("  ⚠ Key ID %s is not in the trust store\n", d.Record.KeyIDString())
	}

	printSection("Content")
	printRecord(d.Record)
	fmt.Println()
}

func buildRecordJSON(r *certificate.UnverifiedRecord) map[string]any {
	out := map[string]any{
		"format":  r.Format,
		"kid":     r.KeyIDString(),
		"payload": r.Payload,
	}
	if r.Issuer != nil {
		out["issuer"] = *r.Issuer
	}
	if r.IssuedAt != nil {
		out["issuedAt"] = r.IssuedAt
	}
	if r.ExpiresAt != nil {
		out["expiresAt"] = r.ExpiresAt
	}
	if r.DocumentType != "" {
		out["documentType"] = r.DocumentType
	}
	return out
}

func printRecord(r *certificate.UnverifiedRecord) {
	printKV("Key ID", r.KeyIDString(), 1)
	if r.Issuer != nil {
		printKV("Issuer", *r.Issuer, 1)
	}
	if r.IssuedAt != nil {
		printKV("Issued", r.IssuedAt.Format(time.RFC3339), 1)
	}
	if r.ExpiresAt != nil {
		rel := dimColor.Sprintf(" (%s)", relativeTime(*r.ExpiresAt))
		if r.ExpiresAt.Before(timeNow()) {
			warnColor.Printf("  ⚠ Expired: %s%s\n", r.ExpiresAt.Format(time.RFC3339), rel)
		} else {
			printKV("Expires", r.ExpiresAt.Format(time.RFC3339)+rel, 1)
		}
	}
	printMap(r.Payload, 1)
}

// BuildTrustJSON returns the JSON form of trust store entries.
func BuildTrustJSON(name string, entries []*trust.Entry) map[string]any {
	list := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		entry := map[string]any{
			"kid":         e.KeyID,
			"algorithm":   e.PublicKey.Algorithm,
			"fingerprint": e.PublicKey.Fingerprint,
		}
		if e.Subject != "" {
			entry["subject"] = e.Subject
			entry["issuer"] = e.Issuer
			entry["notBefore"] = e.NotBefore
			entry["notAfter"] = e.NotAfter
		}
		list = append(list, entry)
	}
	return map[string]any{"store": name, "entries": list}
}

// PrintTrustStore lists the signers of one store.
func PrintTrustStore(name string, entries []*trust.Entry, opts Options) {
	if opts.JSON {
		PrintJSON(BuildTrustJSON(name, entries))
		return
	}

	headerColor.Printf("%s trust store (%d)\n", name, len(entries))
	headerColor.Println(strings.Repeat("─", 50))
	now := timeNow()
	for _, e := range entries {
		fmt.Printf("\n  ┌ %s\n", e.KeyID)
		fmt.Printf("  │ Key:     %s\n", e.PublicKey.Algorithm)
		if e.Subject != "" {
			fmt.Printf("  │ Subject: %s\n", e.Subject)
			fmt.Printf("  │ Valid:   %s → %s\n", e.NotBefore.Format("2006-01-02"), e.NotAfter.Format("2006-01-02"))
		}
		if !e.ValidAt(now) {
			warnColor.Println("  │ ⚠ outside its validity window")
		}
		if opts.Verbose {
			dimColor.Printf("  │ SHA-256: %s\n", e.PublicKey.Fingerprint)
		}
	}
	fmt.Println()
}

func formatName(f certificate.Format) string {
	switch f {
	case certificate.FormatDGC:
		return "EU Digital COVID Certificate"
	case certificate.FormatDDoc:
		return "2D-DOC"
	default:
		return string(f)
	}
}

func printSection(title string) {
	fmt.Println()
	headerColor.Printf("┌ %s\n", title)
}

func printKV(key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	labelColor.Printf("%s%s: ", prefix, key)
	valueColor.Println(value)
}

func printMap(m map[string]any, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, k := range sortedKeys(m) {
		labelColor.Printf("%s%s: ", prefix, k)
		fmt.Println(formatValue(m[k]))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case nil:
		return "null"
	case []byte:
		return fmt.Sprintf("(%d bytes)", len(val))
	case map[string]any, []any:
		b, _ := json.MarshalIndent(val, "    ", "  ")
		return string(b)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("Error:"), msg)
}

// PrintJSON writes v to stdout as indented JSON.
func PrintJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		PrintError(fmt.Sprintf("encoding JSON: %v", err))
	}
}
