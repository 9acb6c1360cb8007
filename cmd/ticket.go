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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LGFdev/sanipasse/internal/output"
	"github.com/LGFdev/sanipasse/internal/qr"
	"github.com/LGFdev/sanipasse/internal/ticket"
	"github.com/LGFdev/sanipasse/internal/validity"
)

var (
	ticketAt     string
	ticketImage  bool
	ticketHeader string
	ticketFooter string
	ticketPNG    string
	ticketSize   int
)

var ticketCmd = &cobra.Command{
	Use:   "ticket [input]",
	Short: "Verify a pass and print an entrance ticket",
	Long:  "Verifies a health pass and prints a plain-text ticket with the holder's name, birth date and pass status. With --png a QR code of the pass is written as well, so the printed ticket can be scanned again.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTicket,
}

func init() {
	ticketCmd.Flags().StringVar(&ticketAt, "at", "", "Evaluate at this RFC 3339 time instead of now")
	ticketCmd.Flags().BoolVar(&ticketImage, "image", false, "Input is a QR code image (PNG or JPEG)")
	ticketCmd.Flags().StringVar(&ticketHeader, "header", "", "Text printed above the ticket")
	ticketCmd.Flags().StringVar(&ticketFooter, "footer", "", "Text printed below the ticket")
	ticketCmd.Flags().StringVar(&ticketPNG, "png", "", "Also write the pass QR code to this PNG file")
	ticketCmd.Flags().IntVar(&ticketSize, "size", qr.DefaultSize, "Edge length of the PNG in pixels")
	rootCmd.AddCommand(ticketCmd)
}

func runTicket(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	raw, err := readCode(input, ticketImage)
	if err != nil {
		return err
	}
	at, err := parseAt(ticketAt)
	if err != nil {
		return err
	}
	v, err := newVerifier(at)
	if err != nil {
		return err
	}

	info, err := v.Verify(raw)
	if err != nil {
		output.PrintRejection(err, outputOptions())
		return err
	}

	t := ticket.Ticket{
		Header:  ticketHeader,
		Footer:  ticketFooter,
		Info:    info,
		Problem: validity.FindError(info, at, validity.DefaultRules()),
	}
	fmt.Print(ticket.Render(t))

	if ticketPNG != "" {
		f, err := os.Create(ticketPNG)
		if err != nil {
			return fmt.Errorf("creating %s: %w", ticketPNG, err)
		}
		defer f.Close()
		if err := ticket.RenderPNG(f, t, ticketSize); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", ticketPNG, err)
		}
	}
	if t.Problem != "" {
		return fmt.Errorf("pass not valid: %s", t.Problem)
	}
	return nil
}
