package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

var classifySchema string

var classifyCmd = &cobra.Command{
	Use:   "classify NAME TYPE",
	Short: "Print the semantic kind of a column",
	Long: `Print the semantic kind inferred for a column name and physical column type,
for example "classify --schema mailbox N676a binary".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := exchange.SchemaByName(classifySchema)
		if err != nil {
			return err
		}
		typ, ok := scanner.ParseColumnType(args[1])
		if !ok {
			return fmt.Errorf("unknown column type: %s", args[1])
		}
		kind, err := schema.Classify(args[0], typ)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), kind)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifySchema, "schema", "folders", "rule table: folders, mailbox or generic")
	rootCmd.AddCommand(classifyCmd)
}
