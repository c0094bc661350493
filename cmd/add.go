package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/validate"
)

var (
	flagTitle       string
	flagAmount      string
	flagDate        string
	flagCategory    string
	flagDescription string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	Long:  "Record a new expense. Missing title or amount are prompted for.",
	RunE:  runAdd,
}

func init() {
	addExpenseFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}

func addExpenseFlags(c *cobra.Command) {
	c.Flags().StringVarP(&flagTitle, "title", "t", "", "What the money went to")
	c.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount spent, e.g. 12.50")
	c.Flags().StringVar(&flagDate, "date", "", "Date (YYYY-MM-DD, default today)")
	c.Flags().StringVarP(&flagCategory, "category", "c", "", "Category (default other)")
	c.Flags().StringVar(&flagDescription, "description", "", "Optional note")
}

func runAdd(_ *cobra.Command, _ []string) error {
	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)
	if flagTitle == "" {
		flagTitle = prompt(reader, "Title")
	}
	if flagAmount == "" {
		flagAmount = prompt(reader, "Amount")
	}
	if flagDate == "" {
		flagDate = time.Now().Format("2006-01-02")
	}
	if flagCategory == "" {
		flagCategory = string(model.CategoryOther)
	}

	res, err := a.SubmitExpense("", validate.Fields{
		Title:       flagTitle,
		Amount:      flagAmount,
		Date:        flagDate,
		Category:    flagCategory,
		Description: flagDescription,
	})
	if err != nil {
		return err
	}
	if !res.OK {
		printFieldErrors(res.Errors)
		os.Exit(1)
	}

	fmt.Printf("  Added %s  %s  %s\n",
		cli.FormatMoney(res.Expense.Amount, cfg.General.Currency),
		res.Expense.Title,
		cli.FormatDate(res.Expense.Date),
	)
	return nil
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Printf("  %s: ", label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func printFieldErrors(errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	fmt.Fprintln(os.Stderr, "  Invalid expense:")
	for _, f := range fields {
		fmt.Fprintf(os.Stderr, "    %-12s %s\n", f, errs[f])
	}
}
