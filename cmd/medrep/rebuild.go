package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRebuildCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Replay every entry and replace all balance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := openStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer closeStore()

			ucs := buildUseCases(store, "cli")

			rebuilt, err := ucs.ledger.RebuildAll(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("rebuilt %d balance records\n", rebuilt)

			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Store DSN")
	cmd.MarkFlagRequired("dsn")

	return cmd
}
