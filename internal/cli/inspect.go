package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
	"github.com/cartoviz/micromap/pkg/micromap"
	"github.com/cartoviz/micromap/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newInspectCmd creates the inspect command.
func newInspectCmd() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Interactively adjust a display and rebuild it",
		Long: `Inspect opens a live display in the terminal. Rows can be selected to
preview highlighting, and the spacing policy and group count can be changed
on the fly; every change rebuilds the layout in place, keeping the previous
layout when a rebuild fails.`,
		Example: `  micromap inspect --spec examples/edu/display.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := pipeline.LoadOptions(specPath)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			base := filepath.Dir(specPath)
			dsPath := opts.Dataset
			if !filepath.IsAbs(dsPath) {
				dsPath = filepath.Join(base, dsPath)
			}
			ds, err := pipeline.LoadDataset(dsPath)
			if err != nil {
				return err
			}

			var provider geo.PartProvider
			if opts.Geometry != "" {
				geoPath := opts.Geometry
				if !filepath.IsAbs(geoPath) {
					geoPath = filepath.Join(base, geoPath)
				}
				provider, err = pipeline.LoadGeometry(geoPath)
			} else {
				provider, err = pipeline.SyntheticGeometry(ds, opts.IDVar)
			}
			if err != nil {
				return err
			}

			display, err := micromap.New(ds, provider, nil, opts.DisplayConfig(), nil)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			model := NewInspectorModel(display)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(InspectorModel); ok && len(m.display.Groups()) > 0 {
				printInfo("final configuration: %d groups, %s spacing",
					len(m.display.Groups()), m.display.Config().Spacing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "TOML display spec file")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// inspectorRow is one navigable line in the inspector list.
type inspectorRow struct {
	region *micromap.Region
	group  int // group number, for header detection
}

// InspectorModel is the bubbletea model for the live display inspector.
type InspectorModel struct {
	display *micromap.Display

	rows   []inspectorRow
	Cursor int
	Height int
	Offset int

	status string
}

// NewInspectorModel creates an inspector over a built display.
func NewInspectorModel(d *micromap.Display) InspectorModel {
	m := InspectorModel{
		display: d,
		Height:  20,
	}
	m.reload()
	return m
}

// reload rebuilds the flattened row list from the display's current groups.
func (m *InspectorModel) reload() {
	m.rows = m.rows[:0]
	for _, g := range m.display.Groups() {
		for _, r := range g.Regions {
			m.rows = append(m.rows, inspectorRow{region: r, group: g.Number})
		}
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// reconfigure applies a patch and refreshes the list, keeping the old layout
// and reporting the failure when the rebuild errors.
func (m *InspectorModel) reconfigure(patch micromap.Patch) {
	if err := m.display.Reconfigure(patch); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.status = ""
	m.reload()
}

func (m InspectorModel) Init() tea.Cmd {
	return nil
}

func (m InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.rows) > 0 {
				id := m.rows[m.Cursor].region.ID
				if m.display.IsSelected(id) {
					m.display.Deselect(id)
				} else {
					m.display.Select(id)
				}
			}
		case "c":
			m.display.ClearSelection()
		case "s":
			next := micromap.SpacingMax
			if m.display.Config().Spacing == micromap.SpacingMax {
				next = micromap.SpacingEqual
			}
			m.reconfigure(micromap.Patch{Spacing: &next})
		case "+", "=":
			n := len(m.display.Groups()) + 1
			m.reconfigure(micromap.Patch{NGroups: &n})
		case "-":
			// NGroups of zero would mean "use the heuristic", which can
			// grow the count again; stop at one group instead.
			if n := len(m.display.Groups()) - 1; n >= 1 {
				m.reconfigure(micromap.Patch{NGroups: &n})
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectorModel) View() string {
	var b strings.Builder

	cfg := m.display.Config()
	b.WriteString(StyleTitle.Render("Display Inspector"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s by %s  spacing=%s  groups=%d",
		cfg.IDVar, cfg.GroupingVar.Name, cfg.Spacing, len(m.display.Groups()))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  s spacing  +/- groups  c clear  q quit"))
	b.WriteString("\n\n")

	colors := m.display.Colors()

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lastGroup := -1
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		r := row.region

		if row.group != lastGroup {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  group %d", row.group)))
			b.WriteString("\n")
			lastGroup = row.group
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[r.ID])).Render("●")
		value := listDimStyle.Render(fmt.Sprintf("%10.4g", r.Values[cfg.GroupingVar.Name]))

		style := listNormalStyle
		mark := " "
		if m.display.IsSelected(r.ID) {
			mark = "●"
			style = listSelectedStyle
		}
		if i == m.Cursor {
			style = style.Bold(true)
		}

		b.WriteString(fmt.Sprintf("%s%s %s %2d  %s %s\n",
			cursor, swatch, mark, r.Row, style.Render(r.Name), value))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleWarning.Render("  " + m.status))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	}
	b.WriteString("\n")

	return b.String()
}
