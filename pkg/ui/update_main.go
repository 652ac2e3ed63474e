package ui

import (
	"os"
	"strconv"

	"github.com/xlttj/fridamgr/pkg/logging"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// updateMain handles keys for StateMain
func (m *Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch keyStr {
	case "tab":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab":
		m.setFocus(m.focus - 1)
		return m, nil
	case ShortcutBrowse:
		return m.openBrowse()
	case ShortcutProfiles:
		return m.openProfileSelector()
	case ShortcutSaveProfile:
		return m.openProfileSave()
	}

	if !m.actionListFocused() {
		switch keyStr {
		case "enter", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "up":
			m.setFocus(m.focus - 1)
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch keyStr {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil
	case "enter", " ":
		return m.activate(m.cursor)
	case "q":
		m.Cleanup()
		return m, tea.Quit
	}

	if n, err := strconv.Atoi(keyStr); err == nil && n >= 1 && n <= len(m.items) {
		m.cursor = n - 1
		return m.activate(m.cursor)
	}
	return m, nil
}

// activate runs the action list entry at index i.
func (m *Model) activate(i int) (tea.Model, tea.Cmd) {
	item := m.items[i]
	if item.action == "" {
		m.clearLog()
		return m, nil
	}
	return m.startTask(item.action)
}

// openBrowse shows the file picker rooted at the configured local directory.
func (m *Model) openBrowse() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	fp := filepicker.New()
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.CurrentDirectory = m.formConfig().Normalize().LocalDir
	if info, err := os.Stat(fp.CurrentDirectory); err != nil || !info.IsDir() {
		logging.LogDebug("Browse: %q is not a directory, using working directory", fp.CurrentDirectory)
		fp.CurrentDirectory, _ = os.Getwd()
	}
	m.picker = fp
	m.uiState = StateBrowse
	m.resizePicker()
	return m, m.picker.Init()
}

// resizePicker sizes the picker to the screen below the title.
func (m *Model) resizePicker() {
	m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - MainViewOffset})
}
