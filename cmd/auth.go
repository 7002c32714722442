package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskmate/deskmate/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth [authorization-code]",
		Short: "Authenticate with Google",
		Long: `Authenticate deskmate with Google.

Without an argument, prints the OAuth authorization URL. Open it in a
browser, approve the requested scopes, and run the command again with
the authorization code Google displays:

  deskmate auth <authorization-code>

The resulting token is cached per account and refreshed automatically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
				google.SetOAuthCredentials(id, os.Getenv("GOOGLE_CLIENT_SECRET"))
			}

			if len(args) == 0 {
				fmt.Println("Open the following URL in a browser, then re-run with the authorization code:")
				fmt.Println()
				fmt.Println(google.GetAuthURL())
				return nil
			}

			if err := google.SaveToken(cmd.Context(), account, args[0]); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Printf("Token stored for account %q. deskmate is now connected to Google.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to store the token under")
	return cmd
}
