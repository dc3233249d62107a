package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/csvio"
	postgresRepo "github.com/hassanafridi/med-rep-sub001/internal/adapter/repository/postgres"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

func newMigrateCmd() *cobra.Command {
	var (
		sourceDSN    string
		targetDSN    string
		createBackup bool
		backupPath   string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all records from one store to another",
		Long: `Copies customers, products, entries and transactions from the source
store to the target, remapping cross-references through source ids. Records
already present in the target are skipped, so reruns are safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			source, closeSource, err := openStore(ctx, sourceDSN)
			if err != nil {
				return err
			}
			defer closeSource()

			target, closeTarget, err := openStore(ctx, targetDSN)
			if err != nil {
				return err
			}
			defer closeTarget()

			if createBackup {
				if err := backupStore(ctx, source, backupPath); err != nil {
					return fmt.Errorf("backup failed, migration not started: %w", err)
				}

				log.Info().Str("path", backupPath).Msg("source backup written")
			}

			progress := make(chan usecase.Progress, 64)
			drained := make(chan struct{})
			go func() {
				defer close(drained)
				for p := range progress {
					log.Info().Str("table", p.Stage).Int("done", p.Done).Msg("migrating")
				}
			}()

			migrateUC := usecase.NewMigrateUseCase(postgresRepo.NewULIDGenerator())

			report, err := migrateUC.Migrate(ctx, source, target, progress)
			close(progress)
			<-drained
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			tables := []struct {
				name   string
				report usecase.TableReport
			}{
				{"customers", report.Customers},
				{"products", report.Products},
				{"entries", report.Entries},
				{"transactions", report.Transactions},
			}
			for _, table := range tables {
				log.Info().
					Str("table", table.name).
					Int("copied", table.report.Copied).
					Int("skipped", table.report.Skipped).
					Int("errors", table.report.Errors).
					Msg("table migrated")
			}

			verify, err := migrateUC.Verify(ctx, source, target)
			if err != nil {
				return fmt.Errorf("post-migration verification failed: %w", err)
			}

			if !verify.Matches() {
				for _, mismatch := range verify.Mismatches {
					log.Error().Str("mismatch", mismatch).Msg("table count mismatch")
				}

				return fmt.Errorf("stores diverge after migration")
			}

			fmt.Println("migration complete, all table counts match")

			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDSN, "source", "", "Source store DSN")
	cmd.Flags().StringVar(&targetDSN, "target", "", "Target store DSN")
	cmd.Flags().BoolVar(&createBackup, "create-backup", false, "Export the source to CSV before copying")
	cmd.Flags().StringVar(&backupPath, "backup-path", "backup", "Directory for backup CSV files")
	// Older tooling passed file paths for the embedded store.
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "source-path":
			name = "source"
		case "target-path":
			name = "target"
		}
		return pflag.NormalizedName(name)
	})
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	return cmd
}

// backupStore exports the source's customers, products and entries as CSV
// files under dir.
func backupStore(ctx context.Context, store usecase.Store, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	ucs := buildUseCases(store, "backup")

	exports := []struct {
		name string
		run  func(sink usecase.RowSink) (int, error)
	}{
		{"customers.csv", func(sink usecase.RowSink) (int, error) {
			return ucs.exporter.ExportCustomers(ctx, sink)
		}},
		{"products.csv", func(sink usecase.RowSink) (int, error) {
			return ucs.exporter.ExportProducts(ctx, sink)
		}},
		{"entries.csv", func(sink usecase.RowSink) (int, error) {
			return ucs.exporter.ExportEntries(ctx, domain.EntryFilter{}, sink)
		}},
	}

	for _, exp := range exports {
		f, err := os.Create(filepath.Join(dir, exp.name))
		if err != nil {
			return err
		}

		n, err := exp.run(csvio.NewWriter(f))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", exp.name, err)
		}

		log.Info().Str("file", exp.name).Int("records", n).Msg("backed up")
	}

	return nil
}
