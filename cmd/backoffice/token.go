package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/backoffice/internal/domain"
)

func (c *cli) tokenCmd() *cobra.Command {
	var id domain.Identity
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development session token signed with auth.jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if id.IsZero() {
				return domain.NewValidationError("user", "is required")
			}
			if id.Username == "" {
				id.Username = id.UserID
			}
			tok, err := c.app.Tokens.IssueToken(id, c.app.Config.Auth.DevTokenTTL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, tok)
			return err
		},
	}
	cmd.Flags().StringVar(&id.UserID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&id.Username, "username", "", "customer username; defaults to --user")
	cmd.Flags().StringVar(&id.DisplayName, "name", "", "display name")
	return cmd
}
