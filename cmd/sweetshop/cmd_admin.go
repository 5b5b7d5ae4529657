package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sweetshop/app/services"
)

// sweetshop admin:grant --email someone@example.com
//
// The API deliberately never exposes the admin flag, so promotion happens
// out of band through this command (or the seeder for the first admin).
var adminGrantCmd = &cobra.Command{
	Use:   "admin:grant",
	Short: "Grant admin privileges to an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := cmd.Flags().GetString("email")
		if err != nil {
			return err
		}
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		if err := bootDB(); err != nil {
			return err
		}

		user, err := services.NewAuthService().GrantAdmin(email)
		if err != nil {
			return err
		}

		fmt.Printf("Granted admin to %s (id=%d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	adminGrantCmd.Flags().String("email", "", "email of the account to promote")
}
