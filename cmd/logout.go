package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the active account",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(_ *cobra.Command, _ []string) error {
	a, _, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.Identity(); !ok {
		fmt.Println("  Not signed in.")
		return nil
	}
	if err := a.SignOut(); err != nil {
		return err
	}
	fmt.Println("  Signed out. Your data stays on this machine; sign in again to see it.")
	return nil
}
