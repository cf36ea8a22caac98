package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nhle/mailnest/internal/app"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/push"
	appsync "github.com/nhle/mailnest/internal/sync"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts
	// so the OSC 11 reply does not race with the input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     *model.AppConfig
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "mailnest",
	Short: "A terminal client for the MailNest inbox organiser",
	Long: `MailNest sorts a Gmail inbox into categories and removes duplicates on the
server. This client starts those operations and follows them live.

Run without a subcommand to open the terminal UI.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cfgErr
	},
	RunE: runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/mailnest/config.yaml)")
	rootCmd.PersistentFlags().StringP("server", "s", "",
		"MailNest server URL (e.g. http://localhost:5000)")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.base_url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigFile(model.DefaultConfigPath())
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MAILNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, cfgErr = model.LoadConfigFrom(v)
}

func runApp(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

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
		return fmt.Errorf("subscribing to push events: %w", err)
	}
	defer relay.Stop()

	appModel := app.New(app.Deps{
		Monitor:  rt.monitor,
		Relay:    relay,
		Accounts: rt.accounts,
		Admin:    rt.admin,
		Log:      rt.log.Logger,
		Server:   cfg.Server.BaseURL,
		LoggedIn: rt.loggedIn,
		Store:    rt.journal(),

		Config:     *cfg,
		ConfigPath: viper.ConfigFileUsed(),
	})
	p := tea.NewProgram(
		appModel,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
