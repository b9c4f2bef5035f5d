package tui

import (
	"fmt"
	"strings"

	"questforge/internal/domain/adventure"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F2C14E")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	headStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	readyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7BD88F"))
	rewardStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2C14E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
)

func (m *Model) View() string {
	sections := []string{
		titleStyle.Render("⚔ QUESTFORGE"),
		panelStyle.Render(m.renderAdventure()),
		panelStyle.Render(m.renderQuests()),
	}
	if m.adding {
		sections = append(sections, m.input.View())
	}
	if line := m.renderStatus(); line != "" {
		sections = append(sections, line)
	}
	if m.adding {
		sections = append(sections, m.help.View(inputKeys{m.keys}))
	} else {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderAdventure() string {
	a := m.adventure
	var b strings.Builder
	b.WriteString(headStyle.Render(strings.ToUpper(a.AdventureLabel)))
	fmt.Fprintf(&b, "   ◆ %d diamonds", m.diamonds)
	if a.SyncPending {
		b.WriteString(dimStyle.Render("   (not saved yet)"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Energy  %s %d/%d\n", bar(a.State.Energy, a.State.EnergyCapacity), a.State.Energy, a.State.EnergyCapacity)
	switch a.Phase {
	case adventure.PhaseRunning:
		fmt.Fprintf(&b, "Journey %s %s left", bar(a.ProgressPercent, 100), a.Countdown)
	case adventure.PhaseRewardPending:
		b.WriteString(rewardStyle.Render(fmt.Sprintf("Adventure complete! %d diamonds await. Press c to collect.", a.State.PendingReward)))
	default:
		if a.ReadyForAdventure {
			b.WriteString(readyStyle.Render("Ready for adventure! Press s to set out."))
		} else {
			b.WriteString(dimStyle.Render("Complete quests to fill your energy."))
		}
	}
	return b.String()
}

func (m *Model) renderQuests() string {
	var b strings.Builder
	b.WriteString(headStyle.Render("QUESTS"))
	if len(m.quests) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("No quests. Press a to add one."))
		return b.String()
	}
	for i, q := range m.quests {
		b.WriteString("\n")
		line := fmt.Sprintf("%s  +%d", q.Title, q.Energy)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
			continue
		}
		b.WriteString("  " + line)
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render(describeError(m.err))
	}
	return m.status
}

func bar(value, total int) string {
	if total <= 0 {
		total = 1
	}
	filled := value * barWidth / total
	filled = max(0, min(barWidth, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled) + "]"
}
