// Command medrep is the operator tool for the ledger: store-to-store
// migration, consistency verification, rebuilds, and CSV import/export.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "medrep",
		Short: "Medical rep ledger operations",
		Long:  `Operator tool for the running-balance ledger: migrate between stores, verify consistency, rebuild balances, and move CSV data in and out.`,
	}

	rootCmd.AddCommand(
		newMigrateCmd(),
		newVerifyCmd(),
		newRebuildCmd(),
		newImportCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
