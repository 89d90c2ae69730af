package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/fixture"
	"github.com/cristianfloyd/sicoss-go/internal/adapters/postgres"
	"github.com/cristianfloyd/sicoss-go/internal/adapters/textencoder"
	"github.com/cristianfloyd/sicoss-go/internal/config"
	"github.com/cristianfloyd/sicoss-go/internal/pipeline"
	"github.com/cristianfloyd/sicoss-go/internal/ports"
)

func runCmd() *cobra.Command {
	var (
		configPath  string
		fixturesDir string
		year, month int
		legajos     []int
		outDir      string
		outBasename string
		dbDSN       string
		insertMode  string
		partitions  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one fiscal period through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			extractor := fixture.New(fixturesDir)
			p := pipeline.New(cfg, extractor, slog.Default())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var result pipeline.Result
			if partitions > 1 {
				result, err = p.RunPartitioned(ctx, year, month, legajos, partitions)
			} else {
				result, err = p.Run(ctx, year, month, legajos)
			}
			if err != nil {
				return err
			}

			slog.Info("run complete",
				"run_id", result.RunID,
				"surviving", result.Totals.Surviving,
				"rejected", result.Totals.Rejected,
				"warnings", len(result.Warnings),
			)

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return err
				}
				outPath := filepath.Join(outDir, outBasename+".txt")
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				enc := textencoder.New()
				if err := enc.Encode(f, result.Records); err != nil {
					return err
				}
				slog.Info("wrote text export", "path", outPath, "records", len(result.Records))
			}

			if dbDSN != "" {
				mode := ports.Append
				if insertMode == "replace" {
					mode = ports.Replace
				}
				writer, err := postgres.Open(dbDSN)
				if err != nil {
					return err
				}
				defer writer.Close()
				if err := writer.EnsureSchema(ctx); err != nil {
					return err
				}
				periodo := fmt.Sprintf("%04d%02d", year, month)
				n, err := writer.Write(ctx, periodo, result.Records, mode)
				if err != nil {
					return err
				}
				slog.Info("wrote database rows", "periodo_fiscal", periodo, "rows", n)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "sicoss.yaml", "path to the run configuration")
	cmd.Flags().StringVar(&fixturesDir, "fixtures-dir", "./fixtures", "directory of JSON fixture tables")
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year")
	cmd.Flags().IntVar(&month, "month", 0, "fiscal month")
	cmd.Flags().IntSliceVar(&legajos, "legajo", nil, "restrict the run to these nro_legaj values")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for the fixed-width text export; empty skips it")
	cmd.Flags().StringVar(&outBasename, "out-basename", "sicoss", "basename of the text export file")
	cmd.Flags().StringVar(&dbDSN, "db-dsn", "", "Postgres connection string; empty skips the database write")
	cmd.Flags().StringVar(&insertMode, "insert-mode", "append", "append or replace")
	cmd.Flags().IntVar(&partitions, "partitions", 1, "number of employee-set partitions to run concurrently")

	return cmd
}
