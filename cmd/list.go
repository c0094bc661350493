package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/aggregate"
	"tally/internal/cli"
)

var (
	flagListCategory string
	flagListSearch   string
	flagListSort     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, filtered and sorted",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only this category")
	listCmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "Substring match on title and description")
	listCmd.Flags().StringVar(&flagListSort, "sort", "", "Sort key: date-desc, date-asc, amount-desc, amount-asc, title-asc, title-desc")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	sortKey, err := aggregate.ParseSortKey(flagListSort)
	if err != nil {
		return err
	}

	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	view := a.ActiveView(aggregate.Query{
		Category: flagListCategory,
		Search:   flagListSearch,
		Sort:     sortKey,
	})
	if len(view) == 0 {
		fmt.Println("  No matching expenses.")
		return nil
	}

	rows := make([][]string, 0, len(view))
	for _, e := range view {
		rows = append(rows, []string{
			shortID(e.ID),
			cli.FormatDate(e.Date),
			cli.Truncate(e.Title, 32),
			e.Category.Label(),
			cli.FormatMoney(e.Amount, cfg.General.Currency),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%d expenses — %s", len(view), whoLine(a)),
		Headers: []string{"ID", "Date", "Title", "Category", "Amount"},
		Rows:    rows,
	}))
	return nil
}

// shortID keeps listings compact; edit and remove accept the prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
