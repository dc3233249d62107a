package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/csvio"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

func newImportCmd() *cobra.Command {
	var (
		dsn    string
		file   string
		entity string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import CSV rows into a store",
		Long: `Reads a CSV file whose header row names the fields and creates the
records in the store. Bad rows are reported and skipped; they never abort
the batch. Entry rows resolve customer and product by name and post through
the ledger, so balances stay consistent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := openStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer closeStore()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			reader := csvio.NewReader(f)

			mapping, err := reader.ReadHeader()
			if err != nil {
				return err
			}

			ucs := buildUseCases(store, "import")

			progress := make(chan usecase.Progress, 64)
			drained := make(chan struct{})
			go func() {
				defer close(drained)
				for p := range progress {
					if p.Done%500 == 0 {
						log.Info().Str("entity", p.Stage).Int("done", p.Done).Msg("importing")
					}
				}
			}()

			var result *usecase.ImportResult
			switch entity {
			case "customers":
				result, err = ucs.importer.ImportCustomers(ctx, reader, mapping, progress)
			case "products":
				result, err = ucs.importer.ImportProducts(ctx, reader, mapping, progress)
			case "entries":
				result, err = ucs.importer.ImportEntries(ctx, reader, mapping, progress)
			default:
				err = fmt.Errorf("unknown entity %q, want customers, products or entries", entity)
			}
			close(progress)
			<-drained

			if result != nil {
				for _, rowErr := range result.Errors {
					log.Warn().Int("line", rowErr.Line).Str("reason", rowErr.Reason).Msg("row skipped")
				}

				fmt.Printf("imported %d rows, %d failed\n", result.SuccessCount, result.ErrorCount)
			}

			return err
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Store DSN")
	cmd.Flags().StringVar(&file, "file", "", "CSV file to read")
	cmd.Flags().StringVar(&entity, "entity", "", "Entity type: customers, products or entries")
	cmd.MarkFlagRequired("dsn")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("entity")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		dsn    string
		file   string
		entity string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a store's records to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := openStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer closeStore()

			f, err := os.Create(file)
			if err != nil {
				return err
			}

			ucs := buildUseCases(store, "export")
			sink := csvio.NewWriter(f)

			n, err := exportEntity(ctx, ucs, entity, sink)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			fmt.Printf("exported %d records to %s\n", n, file)

			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Store DSN")
	cmd.Flags().StringVar(&file, "file", "", "CSV file to write")
	cmd.Flags().StringVar(&entity, "entity", "", "Entity type: customers, products or entries")
	cmd.MarkFlagRequired("dsn")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("entity")

	return cmd
}

func exportEntity(ctx context.Context, ucs *useCases, entity string, sink usecase.RowSink) (int, error) {
	switch entity {
	case "customers":
		return ucs.exporter.ExportCustomers(ctx, sink)
	case "products":
		return ucs.exporter.ExportProducts(ctx, sink)
	case "entries":
		return ucs.exporter.ExportEntries(ctx, domain.EntryFilter{}, sink)
	default:
		return 0, fmt.Errorf("unknown entity %q, want customers, products or entries", entity)
	}
}
