package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/mailnest/internal/model"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	outputFormat string
	assumeYes    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable,
		"output format for listings (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"answer yes to every confirmation")
}

// printer renders command results in the selected format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	switch outputFormat {
	case formatTable, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", outputFormat)
	}
	return &printer{w: cmd.OutOrStdout(), format: outputFormat}, nil
}

// structured writes v as JSON or YAML. It reports false for the table
// format, in which case the caller renders its own table.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// table writes rows under headers.
func (p *printer) table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// confirmPrompt returns the confirmation used by headless commands:
// --yes answers for the user, otherwise a huh prompt asks.
func confirmPrompt() model.ConfirmFunc {
	if assumeYes {
		return func(string) bool { return true }
	}
	return func(prompt string) bool {
		var ok bool
		err := huh.NewConfirm().
			Title(strings.TrimSpace(prompt)).
			Affirmative("Yes").
			Negative("No").
			Value(&ok).
			Run()
		return err == nil && ok
	}
}

// askSecret prompts for a hidden value when flag is empty.
func askSecret(title, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(title), err)
	}
	return value, nil
}
