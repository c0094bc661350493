package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/app"
	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/validate"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing expense",
	Long:  "Edit an existing expense. Flags left unset keep the current value; the id may be a unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	addExpenseFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	existing, err := resolveExpense(a, args[0])
	if err != nil {
		return err
	}

	fields := validate.Fields{
		Title:       existing.Title,
		Amount:      existing.Amount.String(),
		Date:        existing.Date.String(),
		Category:    string(existing.Category),
		Description: existing.Description,
	}
	if cmd.Flags().Changed("title") {
		fields.Title = flagTitle
	}
	if cmd.Flags().Changed("amount") {
		fields.Amount = flagAmount
	}
	if cmd.Flags().Changed("date") {
		fields.Date = flagDate
	}
	if cmd.Flags().Changed("category") {
		fields.Category = flagCategory
	}
	if cmd.Flags().Changed("description") {
		fields.Description = flagDescription
	}

	res, err := a.SubmitExpense(existing.ID, fields)
	if err != nil {
		return err
	}
	if !res.OK {
		printFieldErrors(res.Errors)
		os.Exit(1)
	}

	fmt.Printf("  Updated %s  %s\n",
		cli.FormatMoney(res.Expense.Amount, cfg.General.Currency), res.Expense.Title)
	return nil
}

// resolveExpense finds the expense whose id matches ref exactly or as a
// unique prefix.
func resolveExpense(a *app.App, ref string) (model.Expense, error) {
	var match *model.Expense
	for _, e := range a.Expenses() {
		if e.ID == ref {
			return e, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			if match != nil {
				return model.Expense{}, fmt.Errorf("id %q is ambiguous", ref)
			}
			e := e
			match = &e
		}
	}
	if match == nil {
		return model.Expense{}, fmt.Errorf("no expense with id %q", ref)
	}
	return *match, nil
}
