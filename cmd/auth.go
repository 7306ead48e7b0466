package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HYyydu/calendar-agent/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account",
		Long: `Run the Google OAuth authorization flow and store the resulting token
in the local cache directory. The token is reused by the serve and check
commands until it is revoked.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables.

Use --account to authorize multiple accounts (e.g. "work", "personal").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("GOOGLE_CLIENT_ID") == "" || os.Getenv("GOOGLE_CLIENT_SECRET") == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
			}

			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %q is already authorized. Continuing will replace the stored token.\n", account)
			}

			fmt.Println("Open the following URL in your browser and authorize access:")
			fmt.Println()
			fmt.Printf("  %s\n", google.GetAuthURL())
			fmt.Println()
			fmt.Print("Paste the authorization code here: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveTokenForAccount(context.Background(), account, code); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Token saved for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name for the stored token")

	return cmd
}
