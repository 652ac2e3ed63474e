package ui

import (
	"strings"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/logging"
)

// setFocus moves keyboard focus to the form field at index i, or to the action
// list when i == len(m.inputs). Indexes wrap around.
func (m *Model) setFocus(i int) {
	n := len(m.inputs) + 1
	i = ((i % n) + n) % n
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// actionListFocused reports whether keys go to the action list.
func (m *Model) actionListFocused() bool {
	return m.focus == len(m.inputs)
}

// formConfig reads the current form values into a Config.
func (m *Model) formConfig() config.Config {
	var cfg config.Config
	for i, f := range formFields {
		*f.field(&cfg) = strings.TrimSpace(m.inputs[i].Value())
	}
	return cfg
}

// applyConfig replaces every form value.
func (m *Model) applyConfig(cfg config.Config) {
	for i, f := range formFields {
		m.inputs[i].SetValue(*f.field(&cfg))
	}
}

// setField updates the form input bound to label.
func (m *Model) setField(label, value string) {
	for i, f := range formFields {
		if f.label == label {
			m.inputs[i].SetValue(value)
			return
		}
	}
}

// logLine appends a line to the pane and the log file. Both carry the
// [HH:MM:SS] prefix; the file sink adds its own.
func (m *Model) logLine(line string) {
	logging.Emit(m.logFile, line)
	m.logLines = append(m.logLines, logging.Stamp(m.now(), line))
	if over := len(m.logLines) - MaxLogLines; over > 0 {
		m.logLines = m.logLines[over:]
	}
	m.refreshLog()
}

// clearLog empties the pane. The log file is left untouched.
func (m *Model) clearLog() {
	m.logLines = nil
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

// formHeight is the number of lines used above the log pane.
func (m *Model) formHeight() int {
	rows := len(m.inputs)
	if len(m.items) > rows {
		rows = len(m.items)
	}
	return rows + 2 // Section border
}

// resize recomputes component sizes from the terminal size.
func (m *Model) resize() {
	width := max(m.width-2, MinPaneWidth)
	for i := range m.inputs {
		m.inputs[i].Width = max(width/2-LabelWidth-4, 10)
	}

	logHeight := m.height - m.formHeight() - MainViewOffset - 2
	m.logView.Width = width - 2
	m.logView.Height = max(logHeight, MinLogHeight)
	m.refreshLog()
}
