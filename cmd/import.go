package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/impexp"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import expenses from a CSV export",
	Long:  "Import expenses from a CSV export into the active ledger. Rows whose id is already present are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	expenses, err := impexp.ImportCSV(f, time.Now())
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Println("  Nothing to import.")
		return nil
	}

	a, _, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	added, err := a.ImportExpenses(expenses)
	if err != nil {
		return err
	}
	fmt.Printf("  Imported %d expense(s), skipped %d duplicate(s).\n", added, len(expenses)-added)
	return nil
}
