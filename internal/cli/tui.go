package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the "tui" command.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		hub     hubFlags
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Pick providers for a hub interactively",
		Long: `Show every configured provider for a hub and dispatch them from a menu.

Several providers can run at once; results appear as they arrive.`,
		Example: `  pathloom tui --source EntrezGene --id 8854 --kind GeneProduct --label ALDH1A2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := c.openApp(ctx, refresh)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			h, err := hub.entity(a.cfg.IDMap.Organism)
			if err != nil {
				return err
			}

			// Log lines would tear the alternate screen; keep only the file.
			if a.cfg.Log.File != "" {
				c.Logger.SetOutput(rotatingFile(a.cfg.Log))
			} else {
				c.Logger.SetLevel(LogError)
			}

			var p *tea.Program
			d := a.dispatcher(suggest.SinkFunc(func(del suggest.Delivery) {
				p.Send(deliveryMsg(del))
			}))
			defer d.Close()

			p = tea.NewProgram(newDispatchModel(ctx, d, h), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	hub.bind(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached upstream responses")
	return cmd
}

// =============================================================================
// DispatchModel - Interactive provider menu
// =============================================================================

// dispatcher is the part of *suggest.Dispatcher the menu drives.
type dispatcher interface {
	Dispatch(ctx context.Context, name string, hub entity.Entity) (*suggest.Handle, error)
	Cancel(h *suggest.Handle) bool
	Registry() *suggest.Registry
}

// deliveryMsg carries an outcome from the dispatcher into the program.
type deliveryMsg suggest.Delivery

// DispatchModel is the bubbletea model for the provider menu. Each row
// tracks the latest dispatch of that provider; deliveries for older
// handles are ignored.
type DispatchModel struct {
	ctx       context.Context
	d         dispatcher
	Hub       entity.Entity
	Providers []suggest.Descriptor
	Cursor    int
	Height    int
	Offset    int

	handles  map[string]*suggest.Handle
	outcomes map[string]suggest.Outcome
	notice   string
}

func newDispatchModel(ctx context.Context, d dispatcher, hub entity.Entity) DispatchModel {
	return DispatchModel{
		ctx:       ctx,
		d:         d,
		Hub:       hub,
		Providers: d.Registry().Descriptors(hub),
		Height:    12,
		handles:   make(map[string]*suggest.Handle),
		outcomes:  make(map[string]suggest.Outcome),
	}
}

func (m DispatchModel) Init() tea.Cmd {
	return nil
}

func (m DispatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Providers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Providers) > 0 {
				m.dispatch(m.Providers[m.Cursor].Name)
			}
		case "a":
			for _, p := range m.Providers {
				if p.Applicable && m.state(p.Name) != suggest.StateRunning {
					m.dispatch(p.Name)
				}
			}
		case "esc", "x":
			if len(m.Providers) > 0 {
				m.cancel(m.Providers[m.Cursor].Name)
			}
		}

	case deliveryMsg:
		h, ok := m.handles[msg.Provider]
		if ok && h.ID() == msg.HandleID {
			m.outcomes[msg.Provider] = msg.Outcome
		}

	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// dispatch starts name. A second dispatch while one is running comes
// back BUSY and is shown as a notice.
func (m *DispatchModel) dispatch(name string) {
	h, err := m.d.Dispatch(m.ctx, name, m.Hub)
	if err != nil {
		m.notice = errors.UserMessage(err)
		return
	}
	m.handles[name] = h
	delete(m.outcomes, name)
}

func (m *DispatchModel) cancel(name string) {
	h, ok := m.handles[name]
	if !ok || !m.d.Cancel(h) {
		m.notice = name + " is not running"
	}
}

// state is the state of the row's latest dispatch as far as the model has
// been told.
func (m DispatchModel) state(name string) suggest.State {
	if o, ok := m.outcomes[name]; ok {
		return o.State
	}
	if _, ok := m.handles[name]; ok {
		return suggest.StateRunning
	}
	return suggest.StateIdle
}

func (m DispatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Hub.DisplayLabel()))
	b.WriteString(" " + listDimStyle.Render(m.Hub.Key()+" · "+string(m.Hub.Kind)+" · "+m.Hub.OrganismOrDefault()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ dispatch  a all  esc cancel  q quit"))
	b.WriteString("\n\n")

	if len(m.Providers) == 0 {
		b.WriteString(StyleWarning.Render("No providers configured"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.menu())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(StyleWarning.Render(iconWarning + " " + m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.detail(m.Providers[m.Cursor].Name))
	return b.String()
}

func (m DispatchModel) menu() string {
	end := min(m.Offset+m.Height, len(m.Providers))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Providers[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		st := m.state(p.Name)
		rows = append(rows, []string{cursor, stateIcon(st), p.Name, p.Group, st.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Provider", "Group", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Providers) {
				return lipgloss.NewStyle()
			}
			p := m.Providers[idx]
			if col == 1 || col == 4 {
				return stateStyle(m.state(p.Name))
			}
			switch {
			case !p.Applicable:
				return listDimStyle
			case idx == m.Cursor:
				return listSelectedStyle
			default:
				return listNormalStyle
			}
		})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Providers)))
}

// detail describes the latest outcome of one provider.
func (m DispatchModel) detail(name string) string {
	o, ok := m.outcomes[name]
	if !ok {
		if _, running := m.handles[name]; running {
			return StyleHighlight.Render(iconRunning + " waiting for " + name)
		}
		return ""
	}

	var b strings.Builder
	switch o.State {
	case suggest.StateFailed:
		b.WriteString(styleIconError.Render(iconError) + " " + string(o.Code()) + ": " + o.Err.Message)
	case suggest.StateCancelled:
		b.WriteString(StyleWarning.Render(iconWarning + " cancelled"))
	case suggest.StateCompleted:
		frag := o.Fragment
		if frag.Hub.Attribution != "" {
			b.WriteString(listDimStyle.Render("Source: " + frag.Hub.Attribution))
			b.WriteString("\n")
		}
		if len(frag.Spokes) == 0 {
			b.WriteString(StyleWarning.Render("No suggestions"))
			break
		}
		for i, s := range frag.Spokes {
			if i == m.Height {
				b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(frag.Spokes)-i)))
				break
			}
			id := s.Entity.Key()
			if !s.Entity.HasID() {
				id = "label only"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				listDimStyle.Render(iconArrow), listNormalStyle.Render(s.Entity.DisplayLabel()), listDimStyle.Render(id)))
		}
	}
	return b.String()
}
