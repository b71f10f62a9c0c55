package main

import (
	"errors"
	"os"

	"github.com/Dosada05/poker-club/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage club accounts",
	}
	cmd.AddCommand(userAddCommand())
	return cmd
}

func userAddCommand() *cobra.Command {
	var (
		password string
		admin    bool
	)
	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create an account in the users file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			globalFlags.quiet = true
			logger := commonRun(os.Stderr)
			a, err := newApp(cmd.Context(), configFrom(cmd), logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if password == "" {
				password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return err
				}
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			account, err := a.accounts.Create(cmd.Context(), cliActor, services.CreateUserInput{
				Username: args[0],
				Password: password,
				IsAdmin:  admin,
			})
			if err != nil {
				return err
			}
			role := "member"
			if account.IsAdmin {
				role = "admin"
			}
			pterm.Success.Printfln("Account %s created (%s)", account.Username, role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password; prompted when empty")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant administrator rights")
	return cmd
}
