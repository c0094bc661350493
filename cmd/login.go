package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tally/internal/session"
)

var (
	flagLoginName  string
	flagLoginEmail string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in, registering on first use",
	Long:  "Sign in with email and password. Unknown emails register a new account; expenses recorded as guest are imported into it.",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagLoginName, "name", "", "Display name")
	loginCmd.Flags().StringVar(&flagLoginEmail, "email", "", "Email address")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(_ *cobra.Command, _ []string) error {
	a, _, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)
	if flagLoginName == "" {
		flagLoginName = prompt(reader, "Name")
	}
	if flagLoginEmail == "" {
		flagLoginEmail = prompt(reader, "Email")
	}

	fmt.Print("  Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	res, err := a.SignIn(session.SignInInput{Name: flagLoginName, Email: flagLoginEmail}, string(pw))
	if errors.Is(err, session.ErrAuthentication) {
		fmt.Fprintln(os.Stderr, "  Incorrect password.")
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	if res.Registered {
		fmt.Printf("  Registered %s\n", whoLine(a))
	} else {
		fmt.Printf("  Signed in as %s\n", whoLine(a))
	}
	if res.Imported > 0 {
		fmt.Printf("  Imported %d guest expense(s) into your ledger.\n", res.Imported)
	}
	return nil
}
