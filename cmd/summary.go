package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary for the active ledger",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cur := cfg.General.Currency
	s := a.Summary()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TALLY  %s", whoLine(a))))
	fmt.Println()

	if s.Count == 0 {
		fmt.Println("  No expenses yet. Add one with `tally add`.")
		return nil
	}

	rows := [][]string{
		{"Expenses", cli.FormatNumber(int64(s.Count))},
		{"Total Spent", cli.FormatMoney(s.GrandTotal, cur)},
		{"This Month", cli.FormatMoney(s.CurrentMonthTotal, cur)},
		{"Average", cli.FormatMoney(s.Average, cur)},
	}
	if s.MaxRecord != nil {
		rows = append(rows, []string{
			"Largest",
			fmt.Sprintf("%s (%s)", cli.FormatMoney(s.MaxRecord.Amount, cur), cli.Truncate(s.MaxRecord.Title, 24)),
		})
	}

	budget := a.Budget()
	if budget.IsPositive() {
		pct, band := a.Utilization()
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Monthly Budget", cli.FormatMoney(budget, cur)})
		rows = append(rows, []string{"Utilization", cli.RenderBudgetBar(pct, 20, band)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}
