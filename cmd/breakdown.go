package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/aggregate"
	"tally/internal/cli"
)

var flagBreakdownWindow string

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Spending by category over a look-back window",
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().StringVarP(&flagBreakdownWindow, "window", "w", "", "Window: 3m, 6m, year, or all (default all)")
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	window, err := aggregate.ParseWindow(flagBreakdownWindow)
	if err != nil {
		return err
	}

	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	buckets := a.CategoryBuckets(window)
	if len(buckets) == 0 {
		fmt.Println("  No expenses in this window.")
		return nil
	}

	maxTotal, _ := buckets[0].Total.Float64()
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		total, _ := b.Total.Float64()
		rows = append(rows, []string{
			b.Category.Label(),
			cli.RenderHorizontalBar(total, maxTotal, 16),
			cli.FormatMoney(b.Total, cfg.General.Currency),
			cli.FormatPercent(b.Share),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   window.Label(),
		Headers: []string{"Category", "", "Total", "Share"},
		Rows:    rows,
	}))
	return nil
}
