package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/theme"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the server's log of past operations",
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

		if err := rt.monitor.LoadHistory(cmd.Context()); err != nil {
			return err
		}
		history := rt.monitor.Snapshot().History

		lines := make([]string, 0, len(history))
		for _, e := range history {
			lines = append(lines, e.Text)
		}
		if done, err := p.structured(map[string]any{"logs": lines}); done {
			return err
		}

		if len(history) == 0 {
			p.line("%s", theme.EmptyStyle.Render(monitor.HistoryPlaceholder))
			return nil
		}
		for _, e := range history {
			p.line("%s", theme.SeverityStyle(e.Severity).Render(e.Text))
		}
		return nil
	},
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the server's log of past operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		cleared, err := rt.monitor.ClearHistory(cmd.Context(), confirmPrompt())
		if err != nil {
			return err
		}
		if cleared {
			fmt.Fprintln(cmd.OutOrStdout(), "Logs cleared.")
		}
		return nil
	},
}

func init() {
	logsCmd.AddCommand(logsClearCmd)
	rootCmd.AddCommand(logsCmd)
}
