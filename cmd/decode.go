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
	"time"

	"github.com/spf13/cobra"

	"github.com/LGFdev/sanipasse/internal/output"
)

var decodeImage bool

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Decode a health pass without verifying it",
	Long:  "Decodes an EU Digital COVID Certificate or 2D-DOC and shows its content and whether its signer is known. The signature is NOT checked: use 'verify' to decide whether a pass can be trusted. Input can be a file path, a raw pass string, or piped via stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeImage, "image", false, "Input is a QR code image (PNG or JPEG)")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	raw, err := readCode(input, decodeImage)
	if err != nil {
		return err
	}

	v, err := newVerifier(time.Now())
	if err != nil {
		return err
	}
	d, err := v.Decode(raw)
	if err != nil {
		output.PrintRejection(err, outputOptions())
		return err
	}
	output.PrintDecoded(d, outputOptions())
	return nil
}
