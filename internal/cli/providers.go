package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// providerRow is one line of `pathloom providers`. Applicable is only set
// when a hub was given.
type providerRow struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Attribution string `json:"attribution,omitempty"`
	Applicable  *bool  `json:"applicable,omitempty"`
}

// providersCommand creates the "providers" command.
func (c *CLI) providersCommand() *cobra.Command {
	var (
		hub    hubFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the configured suggestion providers",
		Long: `List the configured suggestion providers in menu order.

With a hub (--source and --id), each provider is also checked for whether it
can answer for that hub.`,
		Example: `  pathloom providers
  pathloom providers --source EntrezGene --id 8854 --kind GeneProduct`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			var h *entity.Entity
			if hub.given() {
				e, err := hub.entity(a.cfg.IDMap.Organism)
				if err != nil {
					return err
				}
				h = &e
			}

			rows := providerRows(a.registry, h)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			printProviderTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	hub.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func providerRows(reg *suggest.Registry, hub *entity.Entity) []providerRow {
	var descs []suggest.Descriptor
	if hub != nil {
		descs = reg.Descriptors(*hub)
	} else {
		descs = reg.Descriptors(entity.Entity{})
	}

	rows := make([]providerRow, len(descs))
	for i, d := range descs {
		rows[i] = providerRow{Name: d.Name, Group: d.Group, Attribution: d.Attribution}
		if hub != nil {
			ok := d.Applicable
			rows[i].Applicable = &ok
		}
	}
	return rows
}

func printProviderTable(w io.Writer, rows []providerRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, StyleWarning.Render("No providers configured"))
		fmt.Fprintln(w, StyleDim.Render("Set upstream URLs or database paths in the config file."))
		return
	}

	withHub := rows[0].Applicable != nil
	headers := []string{"Group", "Provider", "Attribution"}
	if withHub {
		headers = append(headers, "Applies")
	}

	data := make([][]string, len(rows))
	for i, r := range rows {
		attribution := r.Attribution
		if attribution == "" {
			attribution = "—"
		}
		data[i] = []string{r.Group, r.Name, attribution}
		if withHub {
			mark := iconError
			if *r.Applicable {
				mark = iconSuccess
			}
			data[i] = append(data[i], mark)
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			cell := lipgloss.NewStyle().Padding(0, 1)
			if withHub && row >= 0 && row < len(rows) && !*rows[row].Applicable {
				return cell.Foreground(colorDim)
			}
			if col == 1 {
				return cell.Foreground(colorCyan)
			}
			return cell
		})

	fmt.Fprintln(w, t.Render())
}
