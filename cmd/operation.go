package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/push"
	appsync "github.com/nhle/mailnest/internal/sync"
	"github.com/nhle/mailnest/internal/theme"
)

var (
	opEmail       string
	opPassword    string
	opKeepInbox   bool
	opConnectWait time.Duration
)

// errOperationFailed is returned when the backend reports a failure.
var errOperationFailed = errors.New("operation failed")

var organizeCmd = &cobra.Command{
	Use:     "organize",
	Aliases: []string{"organise"},
	Short:   "Organise the inbox and follow the progress",
	Long: `Ask the server to sort the inbox into categories and print its log until
the operation ends.

The mailbox credentials come from --email and --password, falling back to
the credentials saved on the server.

Examples:
  mailnest organize --email me@gmail.com
  mailnest organize --keep-inbox`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, model.OperationOrganize)
	},
}

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Remove duplicate e-mails and follow the progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, model.OperationDuplicates)
	},
}

func init() {
	for _, c := range []*cobra.Command{organizeCmd, duplicatesCmd} {
		c.Flags().StringVar(&opEmail, "email", "", "Gmail address")
		c.Flags().StringVar(&opPassword, "password", "", "Gmail app password (prompted when omitted)")
		c.Flags().DurationVar(&opConnectWait, "connect-timeout", 15*time.Second,
			"how long to wait for the push channel before starting")
		rootCmd.AddCommand(c)
	}
	organizeCmd.Flags().BoolVar(&opKeepInbox, "keep-inbox", false,
		"leave organised messages in the inbox")
}

func runOperation(cmd *cobra.Command, kind model.OperationKind) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	creds, err := operationCredentials(ctx, rt)
	if err != nil {
		return err
	}

	relay := appsync.New(rt.log.Logger)
	client, err := push.NewClient(cfg.Server.BaseURL,
		push.WithCookie(rt.client.CookieHeader),
		push.WithStateFunc(relay.OnState),
		push.WithLogger(rt.log.Logger),
	)
	if err != nil {
		return fmt.Errorf("creating push client: %w", err)
	}
	if err := relay.Subscribe(client); err != nil {
		return err
	}
	relay.Start()
	defer relay.Stop()

	out := cmd.OutOrStdout()
	if err := waitConnected(ctx, relay, opConnectWait); err != nil {
		return err
	}

	var opts []monitor.StartOption
	if opKeepInbox {
		opts = append(opts, monitor.KeepInbox())
	}
	if err := rt.monitor.StartOperation(ctx, kind, creds, opts...); err != nil {
		return errors.New(monitor.Message(err))
	}

	return follow(ctx, out, rt.monitor, relay)
}

// operationCredentials takes the mailbox credentials from the flags,
// then from the server, then prompts for the password.
func operationCredentials(ctx context.Context, rt *runtime) (model.Credentials, error) {
	creds := model.Credentials{Email: opEmail, Password: opPassword}
	if creds.Email == "" || creds.Password == "" {
		saved, err := rt.accounts.LoadGmail(ctx)
		if err != nil {
			rt.log.Debug().Err(err).Msg("no saved credentials")
		}
		if creds.Email == "" {
			creds.Email = saved.Email
		}
		if creds.Password == "" && creds.Email == saved.Email {
			creds.Password = saved.Password
		}
	}
	if creds.Email != "" && creds.Password == "" {
		pw, err := askSecret("App password", "")
		if err != nil {
			return model.Credentials{}, err
		}
		creds.Password = pw
	}
	return creds, nil
}

// waitConnected blocks until the push channel is up so no event of the
// operation is missed.
func waitConnected(ctx context.Context, relay *appsync.Relay, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		msg, ok := relay.Next(ctx)
		if !ok {
			return fmt.Errorf("push channel did not connect within %s", timeout)
		}
		if st, ok := msg.(appsync.ConnStateMsg); ok && st.State == push.StateConnected {
			return nil
		}
	}
}

// follow prints the live log until a terminal event arrives.
func follow(ctx context.Context, out io.Writer, mon *monitor.Monitor, relay *appsync.Relay) error {
	printed := 0
	lastPct := -1

	flush := func() model.ClientState {
		st := mon.Snapshot()
		for _, e := range st.Live[min(printed, len(st.Live)):] {
			fmt.Fprintln(out, theme.SeverityStyle(e.Severity).Render(e.Text))
		}
		printed = len(st.Live)
		return st
	}
	flush()

	for {
		msg, ok := relay.Next(ctx)
		if !ok {
			return ctx.Err()
		}

		var notice monitor.Notice
		switch msg := msg.(type) {
		case appsync.EventMsg:
			notice = mon.HandleEvent(msg.Event)
			st := flush()

			if pct := st.Progress.Percent(); pct != lastPct && st.Status == model.StatusRunning {
				if _, isProgress := msg.Event.(model.ProgressEvent); isProgress {
					fmt.Fprintf(out, "%3d%% %s\n", pct, st.Progress.Label)
					lastPct = pct
				}
			}

		case appsync.ConnStateMsg:
			if msg.State != push.StateDisconnected {
				continue
			}
			notice = mon.Interrupt()
			flush()

		default:
			continue
		}

		if !notice.Empty() {
			fmt.Fprintf(out, "\n%s\n%s\n", notice.Title, notice.Body)
			if notice.Kind == monitor.NoticeError {
				return errOperationFailed
			}
			return nil
		}
	}
}
