package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"anmi/pdf"
)

type exportOptions struct {
	outDir string
	title  string
}

// NewExportCommand creates the export command
func NewExportCommand(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export FILE.md",
		Short: "Typeset a saved reply into a PDF nutrition sheet",
		Long: `Typeset a markdown file into a one-file PDF nutrition sheet.
The sheet is written to the exports directory under the data directory unless
-o is given, and is named after today's date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			dir := opts.outDir
			if dir == "" {
				dir = cfg.ExportsDir()
			}

			path, err := pdf.WriteFile(dir, string(content), pdf.Options{
				Title:     opts.title,
				FontScale: cfg.Preferences.FontScale(),
				Now:       time.Now(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output", "o", "", "Directory to write the PDF into")
	cmd.Flags().StringVar(&opts.title, "title", "", "Header title (default \""+pdf.DefaultTitle+"\")")
	return cmd
}
