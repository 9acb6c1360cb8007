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
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LGFdev/sanipasse/internal/certificate"
	"github.com/LGFdev/sanipasse/internal/output"
	"github.com/LGFdev/sanipasse/internal/validity"
)

var (
	verifyAt         string
	verifyImage      bool
	vaccinationDelay time.Duration
	testValidity     time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify [input...]",
	Short: "Verify one or more health passes",
	Long: `Verify health passes and report whether each one is currently valid.

Each input can be a raw pass string, a file containing one, or "-" for stdin.
With --image the inputs are photos or scans of the QR code instead.

A pass is first checked for authenticity (format, signature, issue and expiry
dates, structure). Authentic passes are then checked against the pass rules:
completed vaccination schedule, negative and recent test, recovery window.
The command exits non-zero if any input is rejected or not valid.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyAt, "at", "", "Evaluate at this RFC 3339 time instead of now")
	verifyCmd.Flags().BoolVar(&verifyImage, "image", false, "Inputs are QR code images (PNG or JPEG)")
	defaults := validity.DefaultRules()
	verifyCmd.Flags().DurationVar(&vaccinationDelay, "vaccination-delay", defaults.VaccinationDelay, "Wait after the last dose before a vaccination counts")
	verifyCmd.Flags().DurationVar(&testValidity, "test-validity", defaults.TestValidity, "How long a negative test counts after sampling")
	rootCmd.AddCommand(verifyCmd)
}

type verifyResult struct {
	input   string
	info    *certificate.Info
	problem string
	err     error
}

func runVerify(cmd *cobra.Command, args []string) error {
	at, err := parseAt(verifyAt)
	if err != nil {
		return err
	}
	v, err := newVerifier(at)
	if err != nil {
		return err
	}
	rules := validity.Rules{VaccinationDelay: vaccinationDelay, TestValidity: testValidity}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	results := make([]verifyResult, len(inputs))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, input := range inputs {
		g.Go(func() error {
			r := &results[i]
			r.input = input
			raw, err := readCode(input, verifyImage)
			if err != nil {
				r.err = err
				return nil
			}
			r.info, r.err = v.Verify(raw)
			if r.err == nil {
				r.problem = validity.FindError(r.info, at, rules)
			}
			return nil
		})
	}
	_ = g.Wait()

	opts := outputOptions()
	failed := 0
	for _, r := range results {
		if len(results) > 1 && !opts.JSON {
			fmt.Printf("\n── %s\n", label(r.input))
		}
		switch {
		case r.err != nil:
			failed++
			output.PrintRejection(r.err, opts)
		default:
			if r.problem != "" {
				failed++
			}
			output.PrintCertificate(r.info, r.problem, opts)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d passes not valid", failed, len(results))
	}
	return nil
}

// label shortens an input for section headings; raw passes are long.
func label(input string) string {
	const limit = 40
	if len(input) <= limit {
		return input
	}
	return input[:limit] + "..."
}
