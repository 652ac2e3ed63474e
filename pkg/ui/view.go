package ui

import (
	"fmt"
	"strings"

	"github.com/xlttj/fridamgr/pkg/frida"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current model state
func (m *Model) View() string {
	if m.modalErr != "" {
		return m.renderErrorModal()
	}

	switch m.uiState {
	case StateMain:
		return m.viewMain()
	case StateBrowse:
		return m.renderBrowse()
	case StateProfileSelector:
		return m.renderProfileSelector()
	case StateProfileSave:
		return m.renderProfileSave()
	}
	return "Unknown state"
}

func (m *Model) renderTitle() string {
	titleText := "Frida Manager"
	if m.profile != "" {
		titleText = fmt.Sprintf("Frida Manager - Profile: %s", m.profile)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTitle)).Bold(true).Render(titleText)
}

// viewMain renders the form, the action list, the log pane and the status line
func (m *Model) viewMain() string {
	title := m.renderTitle()

	sectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)

	form := sectionStyle.Render(m.renderForm())
	actions := sectionStyle.Render(m.renderActions())
	var top string
	if m.width >= 2*MinPaneWidth {
		top = lipgloss.JoinHorizontal(lipgloss.Top, form, actions)
	} else {
		top = lipgloss.JoinVertical(lipgloss.Left, form, actions)
	}

	logPane := sectionStyle.Padding(0).Render(m.logView.View())

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp))
	help := ActionMainNav
	if m.width < 100 {
		help = ActionMainNavShort
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, top, logPane, m.renderStatus(), helpStyle.Render(help))
}

func (m *Model) renderForm() string {
	labelStyle := lipgloss.NewStyle().Width(LabelWidth)
	focusStyle := labelStyle.Foreground(lipgloss.Color(ColorFocus)).Bold(true)

	lines := make([]string, len(formFields))
	for i, f := range formFields {
		label := labelStyle.Render(f.label)
		if i == m.focus {
			label = focusStyle.Render(f.label)
		}
		lines[i] = label + m.inputs[i].View()
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderActions() string {
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSelectedFg)).
		Background(lipgloss.Color(ColorSelectedBg))
	disabled := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabled))

	var b strings.Builder
	for i, item := range m.items {
		line := fmt.Sprintf("%d. %s", i+1, item.title)
		switch {
		case m.busy && item.action != "":
			line = disabled.Render(line)
		case m.actionListFocused() && i == m.cursor:
			line = selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp))
	b.WriteString(helpStyle.Render(frida.QuickCommands))
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.busy {
		return fmt.Sprintf("%s %s %s", m.spinner.View(), StatusRunning, m.running.Title())
	}
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorStatus))
	return statusStyle.Render(m.statusMsg)
}

// renderErrorModal draws the execution error box in the middle of the screen
func (m *Model) renderErrorModal() string {
	errorStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorError)).
		Padding(1, 2).
		Width(min(60, max(m.width-4, 20)))

	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true).Render("Error")
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp)).Render(ActionDismissError)
	box := errorStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.modalErr, "", hint))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
