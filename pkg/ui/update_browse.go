package ui

import (
	"path/filepath"

	"github.com/xlttj/fridamgr/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// updateBrowse handles StateBrowse. Picking a file sets the local directory
// and the frida-server name from its path.
func (m *Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.uiState = StateMain
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.selectServerFile(path)
		return m, nil
	}
	return m, cmd
}

// selectServerFile fills the form from a chosen frida-server binary.
func (m *Model) selectServerFile(path string) {
	logging.LogDebug("Browse selected %s", path)
	m.setField(LabelLocalDir, filepath.Dir(path))
	m.setField(LabelServerName, filepath.Base(path))
	m.statusMsg = "Selected " + path
	m.uiState = StateMain
}
