package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active identity",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(_ *cobra.Command, _ []string) error {
	a, _, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ident, ok := a.Identity()
	if !ok {
		fmt.Println("  guest (not signed in)")
		return nil
	}
	fmt.Printf("  %s <%s>\n", ident.Profile.Name, ident.Profile.Email)
	fmt.Printf("  id: %s\n", ident.ID)
	return nil
}
