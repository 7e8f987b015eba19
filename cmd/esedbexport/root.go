package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "esedbexport",
	Short: "Export Exchange ESE tables with typed column values",
	Long: `esedbexport reads Exchange mail-store tables from a SQLite or Hive copy of
the database and writes one file per table. Binary and currency columns whose
names follow the Exchange property-tag convention are decoded into integers,
timestamps, GUIDs, security identifiers and strings.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "esedbexport.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
