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

// Package ticket renders a verified pass as a small printable ticket, the
// kind handed out at an event entrance in exchange for the phone.
package ticket

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/qr"
)

// Width is the character width of rendered tickets.
const Width = 40

type Ticket struct {
	Header string
	Footer string
	Info   *certificate.Info
	// Problem is the validity problem found for Info, if any.
	Problem string
}

// Render returns the plain-text ticket.
func Render(t Ticket) string {
	var b strings.Builder
	rule := strings.Repeat("=", Width)

	b.WriteString(rule + "\n")
	if t.Header != "" {
		for _, line := range strings.Split(t.Header, "\n") {
			b.WriteString(center(line) + "\n")
		}
		b.WriteString(rule + "\n")
	}

	info := t.Info
	row(&b, "Name", strings.TrimSpace(info.FirstName+" "+info.LastName))
	row(&b, "Born", info.DateOfBirth.String())
	row(&b, "Pass", describe(info))
	row(&b, "Format", string(info.Source.Format()))
	if t.Problem != "" {
		row(&b, "Status", "NOT VALID: "+t.Problem)
	} else {
		row(&b, "Status", "valid")
	}

	if t.Footer != "" {
		b.WriteString(strings.Repeat("-", Width) + "\n")
		for _, line := range strings.Split(t.Footer, "\n") {
			b.WriteString(center(line) + "\n")
		}
	}
	b.WriteString(rule + "\n")
	return b.String()
}

// RenderPNG writes a QR code of the pass itself, so the printed ticket can be
// scanned again at the door.
func RenderPNG(w io.Writer, t Ticket, size int) error {
	if t.Info.Code == "" {
		return fmt.Errorf("ticket has no pass code")
	}
	return qr.WritePNG(w, t.Info.Code, size)
}

func describe(info *certificate.Info) string {
	switch {
	case info.Vaccination != nil:
		v := info.Vaccination
		return fmt.Sprintf("vaccination %d/%d on %s", v.DosesReceived, v.DosesExpected, v.VaccinationDate)
	case info.Test != nil:
		result := "positive"
		if info.Test.IsNegative {
			result = "negative"
		}
		return fmt.Sprintf("%s test %s", result, info.Test.TestDate.UTC().Format("2006-01-02 15:04"))
	case info.Recovery != nil:
		return fmt.Sprintf("recovery until %s", info.Recovery.ValidUntil)
	default:
		return string(info.Type)
	}
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-8s%s\n", label+":", value)
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Width {
		return s
	}
	return strings.Repeat(" ", (Width-n)/2) + s
}
