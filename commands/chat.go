package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"anmi/api"
	"anmi/model"
	"anmi/ui"
)

// NewChatCommand creates the chat command
func NewChatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(opts)
		},
	}
}

func runChat(opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		showErrorModal("⚠️  Error de configuración", err.Error())
		return err
	}

	client, err := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		showErrorModal("⚠️  Dirección de la API inválida", err.Error())
		return err
	}

	dataModel := model.NewModel(cfg, client, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel, lipgloss.HasDarkBackground()),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running anmi: %w", err)
	}

	// quitting mid-reply leaves nothing running
	dataModel.CancelStream()
	return nil
}
