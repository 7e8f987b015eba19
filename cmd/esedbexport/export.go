package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	exporter "github.com/go-data-exporter/esedb-exporter"
	"github.com/go-data-exporter/esedb-exporter/codec"
	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/internal/config"
	"github.com/go-data-exporter/esedb-exporter/internal/logging"
)

var exportFlags struct {
	tables []string
	format string
	output string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the configured tables",
	Long: `Export every configured table into its own file in the output directory.
Tables are exported concurrently; a table that fails is logged and the others
still complete.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSliceVarP(&exportFlags.tables, "table", "t", nil, "export only these tables")
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "", "output format: tsv, csv, json, html or xml (overrides config)")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output directory (overrides config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	if exportFlags.format != "" {
		cfg.Output.Format = exportFlags.format
	}
	if exportFlags.output != "" {
		cfg.Output.Dir = exportFlags.output
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	tables, err := selectTables(cfg.Tables, exportFlags.tables)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export: list them in %s or pass --table", cfgFile)
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", cfg.Output.Dir, err)
	}

	src, err := openSource(cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(cfg.Output.Workers)
	for _, table := range tables {
		g.Go(func() error {
			if err := exportTable(cmd.Context(), src, table, cfg.Output, logger); err != nil {
				failed.Add(1)
				logger.Error("table export failed", "table", table.Name, "error", err)
			}
			return nil
		})
	}
	g.Wait()
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d tables failed to export", n, len(tables))
	}
	return nil
}

func exportTable(ctx context.Context, src source, table config.TableConfig, out config.OutputConfig, logger *slog.Logger) error {
	schema, err := table.ResolveSchema()
	if err != nil {
		return err
	}
	c, err := codec.ByFormat(out.Format, func(string) *exchange.Schema { return schema })
	if err != nil {
		return err
	}
	rows, closeRows, err := src.Rows(ctx, table.Name)
	if err != nil {
		return fmt.Errorf("failed to read table: %w", err)
	}
	defer closeRows()

	path := filepath.Join(out.Dir, outputName(table.Name, out.Format))
	logger.Debug("exporting table", "table", table.Name, "schema", schema.Name(), "file", path)
	start := time.Now()
	if err := exporter.New(rows, c).WriteFile(path); err != nil {
		return err
	}
	logger.Info("table exported", "table", table.Name, "file", path, "duration", time.Since(start))
	return nil
}

// selectTables keeps the configured tables named on the command line. A
// name that is not configured is exported with its default schema.
func selectTables(configured []config.TableConfig, names []string) ([]config.TableConfig, error) {
	if len(names) == 0 {
		return configured, nil
	}
	var tables []config.TableConfig
	for _, name := range names {
		table := config.TableConfig{Name: name}
		for _, t := range configured {
			if t.Name == name {
				table = t
				break
			}
		}
		if _, err := table.ResolveSchema(); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func outputName(table, format string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, table)
	return name + "." + format
}
