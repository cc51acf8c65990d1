package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/layout/swimlane"
	"github.com/hessam/chronos/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the interactive timeline browser.
func (c *CLI) viewCommand() *cobra.Command {
	var focusID string

	cmd := &cobra.Command{
		Use:   "view [snapshot.json]",
		Short: "Browse a story's timelines interactively",
		Long: `Browse a story's timelines interactively.

Opens a terminal browser over the swimlane layout: one row per lane, with
the lane's events, variant resolutions, and temporal conflict flags shown
for the selected lane.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(args[0], focusID)
		},
	}

	cmd.Flags().StringVarP(&focusID, "focus", "f", "", "timeline ID to resolve variants against")

	return cmd
}

func (c *CLI) runView(input, focusID string) error {
	snap, err := store.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	l := swimlane.Compute(layout.Inputs{
		Snapshot:        snap,
		FocusTimelineID: focusID,
		ViewMode:        layout.ViewTimeline,
	})

	model := NewLaneBrowserModel(l)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// =============================================================================
// LaneBrowserModel - Interactive timeline browsing
// =============================================================================

// LaneBrowserModel is the bubbletea model for browsing swimlane layouts.
type LaneBrowserModel struct {
	Layout swimlane.Layout
	Cursor int
	Height int
	Offset int
}

// NewLaneBrowserModel creates a browser over a computed swimlane layout.
func NewLaneBrowserModel(l swimlane.Layout) LaneBrowserModel {
	return LaneBrowserModel{
		Layout: l,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m LaneBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LaneBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Layout.Lanes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LaneBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Timelines"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Layout.Lanes) {
		end = len(m.Layout.Lanes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		lane := m.Layout.Lanes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		conflicts := 0
		for _, ev := range m.Layout.Events {
			if ev.LaneID == lane.ID && ev.HasConflict {
				conflicts++
			}
		}
		conflictStr := "—"
		if conflicts > 0 {
			conflictStr = StyleWarning.Render(fmt.Sprintf("%d", conflicts))
		}

		rows = append(rows, []string{
			cursor,
			lane.Label,
			fmt.Sprintf("%d", lane.EventCount),
			conflictStr,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Lane", "Events", "Conflicts").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(fmt.Sprint(t))
	b.WriteString("\n\n")
	b.WriteString(m.laneDetail())

	return b.String()
}

// laneDetail renders the selected lane's events.
func (m LaneBrowserModel) laneDetail() string {
	if m.Cursor >= len(m.Layout.Lanes) {
		return ""
	}
	lane := m.Layout.Lanes[m.Cursor]

	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(lane.Label))
	b.WriteString("\n")

	for _, ev := range m.Layout.Events {
		if ev.LaneID != lane.ID {
			continue
		}
		line := "  " + ev.Entity.DisplayName()
		if ev.HasConflict {
			line += "  " + StyleWarning.Render("! "+ev.ConflictReason)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if lane.EventCount == 0 {
		b.WriteString(listDimStyle.Render("  (no events)"))
		b.WriteString("\n")
	}

	return b.String()
}
