package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage club member accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Create a member account",
		Long: `Creates an account that can sign in to bookclub. Admin rights come from
the admin_emails setting, not from the account itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagMemory {
				return needsDatabase("user add")
			}
			if password == "" {
				password = os.Getenv(passwordEnvVar)
			}
			if password == "" {
				return errors.New("--password (or " + passwordEnvVar + ") is required")
			}

			st, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			gate := newGate(st.users)
			ident, err := gate.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			role := "member"
			if gate.IsAdmin(&ident) {
				role = "admin"
			}
			ok("Created %s %s (id %s)", role, ident.Email, ident.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (default: $"+passwordEnvVar+")")
	return cmd
}
