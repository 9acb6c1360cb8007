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

	"github.com/spf13/cobra"

	"github.com/LGFdev/sanipasse/internal/output"
	"github.com/LGFdev/sanipasse/internal/trust"
)

var trustCmd = &cobra.Command{
	Use:       "trust [dgc|2ddoc]",
	Short:     "List trusted signers",
	Long:      "Lists the signers a pass can be verified against: DGC document signers by kid and 2D-DOC certificates by authority and certificate id. Shows the bundled stores unless --trust-store or --ddoc-trust-store point elsewhere.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dgc", "2ddoc"},
	RunE:      runTrust,
}

func init() {
	rootCmd.AddCommand(trustCmd)
}

func runTrust(cmd *cobra.Command, args []string) error {
	which := ""
	if len(args) > 0 {
		which = args[0]
	}
	if which != "" && which != "dgc" && which != "2ddoc" {
		return fmt.Errorf("unknown store %q (want dgc or 2ddoc)", which)
	}

	opts := outputOptions()
	if which != "2ddoc" {
		s, err := loadStore(dgcTrustFile, trust.DGC)
		if err != nil {
			return fmt.Errorf("loading DGC trust store: %w", err)
		}
		output.PrintTrustStore("DGC", s.Entries(), opts)
	}
	if which != "dgc" {
		s, err := loadStore(ddocTrustFile, trust.DDoc)
		if err != nil {
			return fmt.Errorf("loading 2D-DOC trust store: %w", err)
		}
		output.PrintTrustStore("2D-DOC", s.Entries(), opts)
	}
	return nil
}

func loadStore(path string, bundled func() (*trust.Store, error)) (*trust.Store, error) {
	if path != "" {
		return trust.LoadFile(path)
	}
	return bundled()
}
