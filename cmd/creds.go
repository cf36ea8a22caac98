package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nhle/mailnest/internal/model"
)

var (
	credsEmail    string
	credsPassword string
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the Gmail credentials saved on the server",
}

var credsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved Gmail address",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		saved, err := rt.accounts.LoadGmail(cmd.Context())
		if err != nil {
			return err
		}

		view := struct {
			Email       string `json:"email" yaml:"email"`
			HasPassword bool   `json:"has_password" yaml:"has_password"`
		}{saved.Email, saved.HasPassword || saved.Password != ""}
		if done, err := p.structured(view); done {
			return err
		}

		if view.Email == "" {
			p.line("No credentials saved.")
			return nil
		}
		p.line("E-mail:   %s", view.Email)
		p.line("Password: %s", map[bool]string{true: "saved", false: "not saved"}[view.HasPassword])
		return nil
	},
}

var credsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save Gmail credentials on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		creds := model.Credentials{Email: credsEmail, Password: credsPassword}
		if creds.Email != "" {
			if creds.Password, err = askSecret("App password", creds.Password); err != nil {
				return err
			}
		}

		saved, err := rt.accounts.SaveGmail(cmd.Context(), creds, confirmPrompt())
		if err != nil {
			return err
		}
		if saved {
			p, _ := newPrinter(cmd)
			p.line("✅ Credentials saved.")
		}
		return nil
	},
}

var credsRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the saved Gmail credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		removed, err := rt.accounts.RemoveGmail(cmd.Context(), confirmPrompt())
		if err != nil {
			return err
		}
		if removed {
			p, _ := newPrinter(cmd)
			p.line("Credentials removed.")
		}
		return nil
	},
}

func init() {
	credsSaveCmd.Flags().StringVar(&credsEmail, "email", "", "Gmail address")
	credsSaveCmd.Flags().StringVar(&credsPassword, "password", "", "Gmail app password (prompted when omitted)")

	credsCmd.AddCommand(credsShowCmd, credsSaveCmd, credsRemoveCmd)
	rootCmd.AddCommand(credsCmd)
}
