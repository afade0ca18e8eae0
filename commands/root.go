// Package commands wires the anmi command line: the chat TUI plus headless ask and export.
package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"anmi/config"
	"anmi/ui"
)

const Version = "v0.1.0"

type rootOptions struct {
	apiURL  string
	envFile string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "anmi",
		Short:   "Asistente Nutricional Materno Infantil",
		Long:    `anmi is a terminal client for the ANMI nutrition assistant: ask about iron-rich foods, safe preparation and feeding guidelines for babies.`,
		Version: Version,
		Args:    cobra.NoArgs,
		// Execute prints the error once
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Base URL of the ANMI API (overrides config and ANMI_API_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Load environment variables from this file if it exists")

	rootCmd.AddCommand(NewChatCommand(opts))
	rootCmd.AddCommand(NewAskCommand(opts))
	rootCmd.AddCommand(NewExportCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the config files and the flag overrides, in that order of precedence
// from lowest to highest.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if o.apiURL != "" {
		cfg.APIBaseURL = o.apiURL
	}

	config.InitDebugLog(cfg.DataDir())
	if config.DebugLog != nil {
		config.DebugLog.Printf("[CLI] anmi %s, API %s", Version, cfg.APIBaseURL)
	}
	return cfg, nil
}

// showErrorModal reports a startup failure full screen, the way the chat would have.
func showErrorModal(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
