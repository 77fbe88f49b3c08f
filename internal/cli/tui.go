package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/clawnch/clawctl/pkg/integrations/molten"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// MatchListModel - Interactive match selection
// =============================================================================

// matchAction is what the user chose to do with the selected match.
type matchAction int

const (
	matchActionNone matchAction = iota
	matchActionAccept
	matchActionReject
)

// MatchListModel is the bubbletea model for picking a Molten match.
type MatchListModel struct {
	Matches  []molten.Match
	Cursor   int
	Selected *molten.Match
	Action   matchAction
	Height   int
	Offset   int
}

// NewMatchListModel creates a new match list model.
func NewMatchListModel(matches []molten.Match) MatchListModel {
	return MatchListModel{
		Matches: matches,
		Height:  15,
	}
}

func (m MatchListModel) Init() tea.Cmd {
	return nil
}

func (m MatchListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Matches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "a":
			return m.choose(matchActionAccept)
		case "r", "x":
			return m.choose(matchActionReject)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MatchListModel) choose(action matchAction) (tea.Model, tea.Cmd) {
	if len(m.Matches) == 0 {
		return m, nil
	}
	match := m.Matches[m.Cursor]
	m.Selected = &match
	m.Action = action
	return m, tea.Quit
}

func (m MatchListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Match"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎/a accept  r reject  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Matches) {
		end = len(m.Matches)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mt := m.Matches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			orDash(mt.Agent.Name),
			formatScore(mt.Score),
			orDash(string(mt.Intent.Category)),
			truncate(mt.Intent.Title, 40),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Agent", "Score", "Category", "Intent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Matches) > 0 {
		if desc := m.Matches[m.Cursor].Agent.Description; desc != "" {
			b.WriteString("  " + listDimStyle.Render(desc) + "\n")
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Matches))))

	return b.String()
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
