package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/store"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered accounts on this machine",
	RunE:  runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(_ *cobra.Command, _ []string) error {
	a, _, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	idents, err := a.RegisteredIdentities()
	if err != nil {
		return err
	}
	if len(idents) == 0 {
		fmt.Println("  No registered accounts.")
		return nil
	}

	active := ""
	if ident, ok := a.Identity(); ok {
		active = ident.ID
	}

	rows := make([][]string, 0, len(idents))
	for _, ident := range idents {
		marker := ""
		if ident.ID == active {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			shortID(ident.ID),
			ident.Profile.Name,
			ident.Profile.Email,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%d of %d account slots used", len(idents), store.DefaultCap),
		Headers: []string{"", "ID", "Name", "Email"},
		Rows:    rows,
	}))
	return nil
}
