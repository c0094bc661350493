package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an expense",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := resolveExpense(a, args[0])
	if err != nil {
		return err
	}
	if err := a.RequestDelete(e.ID); err != nil {
		return err
	}

	fmt.Printf("  Removed %s  %s\n", cli.FormatMoney(e.Amount, cfg.General.Currency), e.Title)
	return nil
}
