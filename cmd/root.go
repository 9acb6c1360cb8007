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

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	noColor    bool
	verbose    bool

	dgcTrustFile  string
	ddocTrustFile string
	schemaFile    string
)

var rootCmd = &cobra.Command{
	Use:   "sanipasse",
	Short: "Verify EU Digital COVID Certificates and French 2D-DOC passes offline",
	Long:  "An offline verifier for health passes. Decodes EU Digital COVID Certificates (HC1:) and French 2D-DOC codes, checks their signatures against bundled trust stores, and reports who the pass belongs to and whether it is currently valid.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&dgcTrustFile, "trust-store", "", "DGC signer store JSON replacing the bundled one")
	rootCmd.PersistentFlags().StringVar(&ddocTrustFile, "ddoc-trust-store", "", "2D-DOC certificate store JSON replacing the bundled one")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "DGC JSON schema replacing the bundled one")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
