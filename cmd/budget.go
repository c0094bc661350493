package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tally/internal/cli"
)

var budgetCmd = &cobra.Command{
	Use:   "budget [amount]",
	Short: "Show or set the monthly budget",
	Long:  "With no argument, shows the budget and current utilization. An amount sets it; 0 clears it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, args []string) error {
	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cur := cfg.General.Currency

	if len(args) == 1 {
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("amount %q: %w", args[0], err)
		}
		if err := a.SetBudget(amount); err != nil {
			return err
		}
		if amount.IsZero() {
			fmt.Println("  Budget cleared.")
			return nil
		}
		fmt.Printf("  Monthly budget set to %s\n", cli.FormatMoney(amount, cur))
		return nil
	}

	budget := a.Budget()
	if !budget.IsPositive() {
		fmt.Println("  No budget set. Use `tally budget <amount>`.")
		return nil
	}

	pct, band := a.Utilization()
	s := a.Summary()
	fmt.Printf("  Budget:   %s\n", cli.FormatMoney(budget, cur))
	fmt.Printf("  Spent:    %s this month\n", cli.FormatMoney(s.CurrentMonthTotal, cur))
	fmt.Printf("  Usage:    %s\n", cli.RenderBudgetBar(pct, 24, band))
	return nil
}
