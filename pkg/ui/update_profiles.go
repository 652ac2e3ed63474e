package ui

import (
	"fmt"
	"strings"

	"github.com/xlttj/fridamgr/pkg/logging"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// openProfileSelector loads the saved profiles and shows the selector.
func (m *Model) openProfileSelector() (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.statusMsg = "Profiles are unavailable"
		return m, nil
	}
	if err := m.initializeProfileSelector(); err != nil {
		m.modalErr = err.Error()
		return m, nil
	}
	m.uiState = StateProfileSelector
	return m, nil
}

// initializeProfileSelector initializes the profile selector table
func (m *Model) initializeProfileSelector() error {
	profiles, err := m.store.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	m.profiles = profiles

	columns := []table.Column{
		{Title: "PROFILE", Width: 20},
		{Title: "SERVER", Width: 36},
		{Title: "PORTS", Width: 13},
		{Title: "ACTIVE", Width: 6},
	}

	rows := make([]table.Row, len(profiles))
	for i, p := range profiles {
		active := ""
		if p.Name == m.profile {
			active = "●"
		}
		rows[i] = table.Row{p.Name, p.Config.ServerName, p.Config.HostPort + ":" + p.Config.DevicePort, active}
	}

	m.profileSelector = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(min(len(rows)+2, m.height-6), MinSelectorHeight)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(ColorSelectedFg)).
		Background(lipgloss.Color(ColorSelectedBg)).
		Bold(false)
	m.profileSelector.SetStyles(s)
	return nil
}

// updateProfileSelector handles updates in the profile selector view
func (m *Model) updateProfileSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.uiState = StateMain
		return m, nil

	case "enter":
		return m.handleProfileSelection()

	case "d":
		return m.handleProfileDeletion()

	default:
		m.profileSelector, _ = m.profileSelector.Update(msg)
		return m, nil
	}
}

// handleProfileSelection loads the highlighted profile into the form.
func (m *Model) handleProfileSelection() (tea.Model, tea.Cmd) {
	idx := m.profileSelector.Cursor()
	if idx < 0 || idx >= len(m.profiles) {
		return m, nil
	}
	p := m.profiles[idx]
	m.applyConfig(p.Config.Normalize())
	m.profile = p.Name
	m.statusMsg = fmt.Sprintf("Loaded profile %s", p.Name)
	m.uiState = StateMain
	logging.LogDebug("Loaded profile %s", p.Name)
	return m, nil
}

// handleProfileDeletion removes the highlighted profile and refreshes the table.
func (m *Model) handleProfileDeletion() (tea.Model, tea.Cmd) {
	idx := m.profileSelector.Cursor()
	if idx < 0 || idx >= len(m.profiles) {
		return m, nil
	}
	name := m.profiles[idx].Name
	if err := m.store.DeleteProfile(name); err != nil {
		m.modalErr = err.Error()
		return m, nil
	}
	if m.profile == name {
		m.profile = ""
	}
	m.statusMsg = fmt.Sprintf("Deleted profile %s", name)
	if err := m.initializeProfileSelector(); err != nil {
		m.modalErr = err.Error()
	}
	return m, nil
}

// openProfileSave prompts for a name to save the form under.
func (m *Model) openProfileSave() (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.statusMsg = "Profiles are unavailable"
		return m, nil
	}
	m.profileName.SetValue(m.profile)
	m.profileName.CursorEnd()
	m.uiState = StateProfileSave
	return m, m.profileName.Focus()
}

// updateProfileSave handles the profile name prompt
func (m *Model) updateProfileSave(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.profileName.Blur()
		m.uiState = StateMain
		return m, nil
	case "enter":
		return m.commitProfileSave()
	}
	var cmd tea.Cmd
	m.profileName, cmd = m.profileName.Update(msg)
	return m, cmd
}

func (m *Model) commitProfileSave() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.profileName.Value())
	cfg := m.formConfig().Normalize()
	if err := m.store.SaveProfile(name, cfg); err != nil {
		m.modalErr = err.Error()
		return m, nil
	}
	m.profile = name
	m.profileName.Blur()
	m.statusMsg = fmt.Sprintf("Saved profile %s", name)
	m.uiState = StateMain
	return m, nil
}
