package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/aggregate"
	"tally/internal/cli"
)

var flagMonthsWindow string

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Monthly spending over a look-back window",
	RunE:  runMonths,
}

func init() {
	monthsCmd.Flags().StringVarP(&flagMonthsWindow, "window", "w", "", "Window: 3m, 6m, year, or all (default all)")
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(_ *cobra.Command, _ []string) error {
	window, err := aggregate.ParseWindow(flagMonthsWindow)
	if err != nil {
		return err
	}

	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	buckets := a.MonthlyBuckets(window)
	if len(buckets) == 0 {
		fmt.Println("  No expenses in this window.")
		return nil
	}

	totals := make([]float64, len(buckets))
	rows := make([][]string, 0, len(buckets))
	for i, b := range buckets {
		totals[i], _ = b.Total.Float64()
		rows = append(rows, []string{
			b.Label,
			cli.FormatNumber(int64(b.Count)),
			cli.FormatMoney(b.Total, cfg.General.Currency),
		})
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", window.Label(), cli.RenderSparkline(totals))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Expenses", "Total"},
		Rows:    rows,
	}))
	return nil
}
