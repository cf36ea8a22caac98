package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/model"
)

var (
	loginUsername string
	loginPassword string
	loginInvite   string

	registerInput account.RegisterInput
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a username and password or an invite code",
	Long: `Log in to the MailNest server. The session is kept in the system keyring.

Examples:
  mailnest login --username ana
  mailnest login --invite ABCD1234`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		in := account.LoginInput{Type: model.LoginTypeCredentials, Username: loginUsername}
		if loginInvite != "" {
			in = account.LoginInput{Type: model.LoginTypeInvite, InviteCode: loginInvite}
		} else if loginUsername != "" {
			in.Password, err = askSecret("Password", loginPassword)
			if err != nil {
				return err
			}
		}

		redirect, err := rt.accounts.Login(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in (%s).\n", redirect)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		if !confirmPrompt()(account.LogoutPrompt) {
			return nil
		}
		err = rt.accounts.Logout(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return err
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		in := registerInput
		in.InviteCode = strings.ToUpper(strings.TrimSpace(in.InviteCode))
		if in.Password, err = askSecret("Password", in.Password); err != nil {
			return err
		}
		if in.ConfirmPassword == "" {
			if in.ConfirmPassword, err = askSecret("Confirm password", ""); err != nil {
				return err
			}
		}

		redirect, err := rt.accounts.Register(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account created (%s).\n", redirect)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginInvite, "invite", "i", "", "log in with an invite code instead")

	registerCmd.Flags().StringVar(&registerInput.Name, "name", "", "full name")
	registerCmd.Flags().StringVar(&registerInput.Email, "email", "", "e-mail address")
	registerCmd.Flags().StringVar(&registerInput.Password, "password", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerInput.ConfirmPassword, "confirm-password", "", "password again (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerInput.InviteCode, "invite", "", "invite code")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd)
}
