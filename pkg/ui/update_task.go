package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
	"github.com/xlttj/fridamgr/pkg/worker"

	tea "github.com/charmbracelet/bubbletea"
)

// waitForEvent reads the next worker event as a tea.Msg.
func waitForEvent(events <-chan worker.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return taskClosedMsg{}
		}
		return taskEventMsg{event: ev}
	}
}

// startTask dispatches action with the current form values. It does nothing
// while another action is in flight.
func (m *Model) startTask(action frida.Action) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	cfg := m.formConfig().Normalize()

	manager := m.manager
	m.busy = true
	m.running = action
	m.started = time.Now()
	m.statusMsg = StatusRunning
	logging.LogDebug("UI dispatching %s", action)

	m.events = worker.Dispatch(m.ctx, func(ctx context.Context, sink logging.Sink) (int, error) {
		return manager.Do(ctx, action, cfg, sink)
	})
	return m, tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

// handleTaskEvent applies one worker event and keeps reading until DoneEvent.
func (m *Model) handleTaskEvent(ev worker.Event) (tea.Model, tea.Cmd) {
	switch e := ev.(type) {
	case worker.LineEvent:
		m.logLine(e.Line)
	case worker.ErrorEvent:
		m.logLine(fmt.Sprintf("Error: %v", e.Err))
		m.modalErr = e.Err.Error()
		m.taskErr = e.Err
	case worker.DoneEvent:
		m.finishTask(e.Code)
		return m, nil
	}
	if m.events == nil {
		return m, nil
	}
	return m, waitForEvent(m.events)
}

// finishTask logs the completion line and re-enables the actions.
func (m *Model) finishTask(code int) {
	m.logLine(fmt.Sprintf("Task completed with exit code %d.", code))
	m.recordRun(code, m.taskErr)
	m.taskErr = nil
	m.busy = false
	m.events = nil
	m.statusMsg = StatusReady
}

// recordRun stores a history entry when a store is available.
func (m *Model) recordRun(code int, runErr error) {
	if m.store == nil {
		return
	}
	rec := config.RunRecord{
		Action:     string(m.running),
		Profile:    m.profile,
		ExitCode:   code,
		StartedAt:  m.started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := m.store.RecordRun(rec); err != nil {
		logging.LogError("Failed to record %s run: %v", m.running, err)
	}
}
