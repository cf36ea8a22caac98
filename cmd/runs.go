package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/store"
	"github.com/nhle/mailnest/internal/theme"
)

var (
	runsKind      string
	runsStatus    string
	runsLimit     int
	runsOlderThan time.Duration
)

var errNoJournal = errors.New("the run journal is disabled (store.path is empty or unavailable)")

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List operations started from this machine",
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
		if rt.store == nil {
			return errNoJournal
		}

		filter := store.RunFilter{Limit: runsLimit}
		if runsKind != "" {
			kind, err := model.ParseOperationKind(runsKind)
			if err != nil {
				return err
			}
			filter.Kind = &kind
		}
		if runsStatus != "" {
			filter.Status = &runsStatus
		}

		runs, err := rt.store.ListRuns(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if done, err := p.structured(runs); done {
			return err
		}

		if len(runs) == 0 {
			p.line("No runs recorded.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, runRow(r))
		}
		return p.table([]string{"Started", "Operation", "Account", "Status", "Total", "Duplicates", "Error"}, rows)
	},
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete recorded runs older than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.store == nil {
			return errNoJournal
		}

		n, err := rt.store.DeleteRunsBefore(cmd.Context(), time.Now().Add(-runsOlderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs.\n", n)
		return nil
	},
}

func runRow(r model.Run) []string {
	status := theme.StatusIcon(r.State()) + " " + r.Status
	return []string{
		r.StartedAt.Local().Format("2006-01-02 15:04"),
		r.Kind.Label(),
		r.Account,
		status,
		fmt.Sprint(r.Total),
		fmt.Sprint(r.Duplicates),
		r.Error,
	}
}

func init() {
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "only this operation (organize, duplicates)")
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "only this status (running, done, failed)")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs")
	runsPruneCmd.Flags().DurationVar(&runsOlderThan, "older-than", 30*24*time.Hour, "age of the runs to delete")

	runsCmd.AddCommand(runsPruneCmd)
	rootCmd.AddCommand(runsCmd)
}
