package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"wdp.dev/cli/internal/core/domain"
)

// NewPagesCommand creates the pages command
func NewPagesCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List the pages exposed by the debug proxy",
		Long: `List inspectable pages by reading http://<host>:<port>/json.

The PAGE column is the value to pass to --page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, container)
			if err != nil {
				return err
			}
			endpoint, err := cfg.Endpoint()
			if err != nil {
				return err
			}

			pages, err := container.PageLister.ListPages(commandContext(cmd), endpoint)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pages)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPages(pages))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	return cmd
}

func renderPages(pages []domain.Page) string {
	if len(pages) == 0 {
		return "No inspectable pages."
	}

	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		num := "?"
		if n := p.Number(); n >= 0 {
			num = strconv.Itoa(n)
		}
		status := "free"
		if p.Attached() {
			status = "attached"
		}
		rows = append(rows, []string{num, truncateString(p.Title, 30), truncateString(p.URL, 50), status})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("PAGE", "TITLE", "URL", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	return t.String()
}
