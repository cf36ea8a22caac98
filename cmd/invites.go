package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/mailnest/internal/admin"
)

var invitesCmd = &cobra.Command{
	Use:   "invites",
	Short: "Manage invite codes (admin only)",
}

var invitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invite codes with usage statistics",
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

		list, err := rt.admin.List(cmd.Context())
		if err != nil {
			return err
		}
		if done, err := p.structured(list); done {
			return err
		}

		p.line("Total: %d   Available: %d   Used: %d", list.Total, list.Available, list.Used)
		if len(list.Invites) == 0 {
			p.line("No invite codes yet.")
			return nil
		}

		rows := make([][]string, 0, len(list.Invites))
		for _, inv := range list.Invites {
			rows = append(rows, admin.Row(inv))
		}
		return p.table(admin.Columns, rows)
	},
}

var invitesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a new invite code",
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

		code, err := rt.admin.Generate(cmd.Context())
		if err != nil {
			return err
		}
		if done, err := p.structured(map[string]string{"code": code}); done {
			return err
		}
		p.line("%s", code)
		return nil
	},
}

var invitesRevokeCmd = &cobra.Command{
	Use:   "revoke CODE",
	Short: "Revoke an unused invite code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		list, err := rt.admin.List(cmd.Context())
		if err != nil {
			return err
		}
		inv, ok := admin.Find(list, args[0])
		if !ok {
			return fmt.Errorf("invite code %s not found", args[0])
		}

		msg, err := rt.admin.Revoke(cmd.Context(), inv, confirmPrompt())
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
		return nil
	},
}

func init() {
	invitesCmd.AddCommand(invitesListCmd, invitesGenerateCmd, invitesRevokeCmd)
	rootCmd.AddCommand(invitesCmd)
}
