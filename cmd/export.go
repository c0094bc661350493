package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/impexp"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active ledger as CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	a, _, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	w := os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer f.Close()
		w = f
	}

	expenses := a.Expenses()
	if err := impexp.ExportCSV(w, expenses); err != nil {
		return err
	}
	if flagExportOut != "" {
		fmt.Fprintf(os.Stderr, "  Wrote %d expense(s) to %s\n", len(expenses), flagExportOut)
	}
	return nil
}
