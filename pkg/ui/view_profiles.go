package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderProfileSelector renders the profile selector view
func (m *Model) renderProfileSelector() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorTitle)).
		Bold(true).
		Padding(0, 1)
	b.WriteString(titleStyle.Render("Profiles"))
	b.WriteString("\n\n")

	if len(m.profiles) == 0 {
		b.WriteString("No saved profiles. Press ctrl+s on the main screen to save one.\n\n")
	} else {
		b.WriteString(m.profileSelector.View())
		b.WriteString("\n\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp))
	b.WriteString(helpStyle.Render(ActionProfileSelector))
	b.WriteString("\n")

	if m.statusMsg != "" && m.statusMsg != StatusReady {
		b.WriteString(m.statusMsg)
		b.WriteString("\n")
	}
	return b.String()
}

// renderProfileSave renders the profile name prompt
func (m *Model) renderProfileSave() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorTitle)).
		Bold(true).
		Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp))

	cfg := m.formConfig()
	summary := fmt.Sprintf("%s -> %s, tcp:%s -> tcp:%s", cfg.ServerName, cfg.DevicePath, cfg.HostPort, cfg.DevicePort)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Save Profile"),
		"",
		summary,
		"",
		"Name: "+m.profileName.View(),
		"",
		helpStyle.Render(ActionProfileSave),
	)
}

// renderBrowse renders the frida-server file picker
func (m *Model) renderBrowse() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorTitle)).
		Bold(true).
		Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Select frida-server"),
		m.picker.CurrentDirectory,
		"",
		m.picker.View(),
		helpStyle.Render(ActionBrowse),
	)
}
