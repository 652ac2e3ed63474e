package ui

import (
	"context"
	"time"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
	"github.com/xlttj/fridamgr/pkg/worker"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model represents the state of the UI
type Model struct {
	uiState UIState

	// Core components
	manager *frida.Manager
	store   config.StoreInterface
	logFile logging.Sink
	ctx     context.Context
	cancel  context.CancelFunc
	width   int
	height  int

	// Status/info message (non-error feedback)
	statusMsg string
	// Execution error shown in a modal box until dismissed
	modalErr string

	// Configuration form; focus == len(inputs) selects the action list
	inputs  []textinput.Model
	focus   int
	profile string

	// Action list
	items  []menuItem
	cursor int

	// Running task
	busy    bool
	events  <-chan worker.Event
	running frida.Action
	started time.Time
	taskErr error
	spinner spinner.Model

	// Log pane
	logLines []string
	logView  viewport.Model
	now      func() time.Time

	// Browse and profiles
	picker          filepicker.Model
	profileSelector table.Model
	profiles        []config.Profile
	profileName     textinput.Model
}

// NewModel builds the UI around the given configuration.
func NewModel(opts Options) *Model {
	manager := opts.Manager
	if manager == nil {
		manager = frida.NewManager(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())

	cfg := opts.Config.Normalize()
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = FieldCharLimit
		ti.Width = DefaultWidth - LabelWidth - 4
		ti.SetValue(*f.field(&cfg))
		inputs[i] = ti
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "profile name"
	nameInput.CharLimit = ProfileNameLimit
	nameInput.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTitle))

	m := &Model{
		uiState:     StateMain,
		manager:     manager,
		store:       opts.Store,
		logFile:     opts.LogFile,
		ctx:         ctx,
		cancel:      cancel,
		width:       DefaultWidth,  // Updated on first WindowSizeMsg
		height:      DefaultHeight, // Updated on first WindowSizeMsg
		statusMsg:   StatusReady,
		inputs:      inputs,
		profile:     opts.Profile,
		items:       menuItems(),
		spinner:     sp,
		logView:     viewport.New(DefaultWidth, MinLogHeight),
		now:         time.Now,
		profileName: nameInput,
	}
	m.setFocus(0)
	m.resize()
	return m
}

// Cleanup cancels any action still running.
func (m *Model) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.uiState == StateBrowse {
			m.resizePicker()
		}
		return m, nil

	case taskEventMsg:
		return m.handleTaskEvent(msg.event)

	case taskClosedMsg:
		if m.busy {
			m.finishTask(worker.FaultCode)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		keyStr := msg.String()

		// Global shortcuts that work in any state
		switch keyStr {
		case "ctrl+c", ShortcutExit: // ctrl+x
			m.Cleanup()
			return m, tea.Quit
		}

		// The error box swallows keys until it is dismissed
		if m.modalErr != "" {
			switch keyStr {
			case "enter", "esc", " ":
				m.modalErr = ""
			}
			return m, nil
		}

		// Delegate to state-specific handlers
		switch m.uiState {
		case StateMain:
			return m.updateMain(msg)
		case StateBrowse:
			return m.updateBrowse(msg)
		case StateProfileSelector:
			return m.updateProfileSelector(msg)
		case StateProfileSave:
			return m.updateProfileSave(msg)
		}
	}

	// Remaining messages (cursor blink, directory listings) go to the active component
	switch m.uiState {
	case StateBrowse:
		return m.updateBrowse(msg)
	case StateMain:
		if m.focus < len(m.inputs) {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
	case StateProfileSave:
		var cmd tea.Cmd
		m.profileName, cmd = m.profileName.Update(msg)
		return m, cmd
	}
	return m, nil
}
