// Package frida sequences the host and device steps that install, push and
// start frida-server.
package frida

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xlttj/fridamgr/pkg/adb"
	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/logging"
	"github.com/xlttj/fridamgr/pkg/pip"
	"github.com/xlttj/fridamgr/pkg/runner"
)

// Host package names.
const (
	PackageFrida   = "frida"
	PackageTools   = "frida-tools"
	PackageDexdump = "frida-dexdump"
)

// QuickCommands is the frida cheat sheet shown by the front ends.
const QuickCommands = `frida-ps -Ua  List processes
frida -U -f <package> -l hook.js  Attach and hook`

// Action names one scripted operation.
type Action string

const (
	ActionInstall   Action = "install"
	ActionUninstall Action = "uninstall"
	ActionPush      Action = "push"
	ActionStart     Action = "start"
	ActionCheck     Action = "check"
)

// Actions lists every action in menu order.
var Actions = []Action{ActionInstall, ActionUninstall, ActionPush, ActionStart, ActionCheck}

// ErrUnknownAction is returned by ParseAction and Do for unrecognised names.
var ErrUnknownAction = errors.New("unknown action")

// ParseAction resolves a case-insensitive action name.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Title is the label shown by the front ends.
func (a Action) Title() string {
	switch a {
	case ActionInstall:
		return "Install Frida"
	case ActionUninstall:
		return "Uninstall Frida"
	case ActionPush:
		return "Push frida-server"
	case ActionStart:
		return "Start frida-server"
	case ActionCheck:
		return "Check ADB"
	}
	return string(a)
}

// Manager runs the action sequences. Every operation returns the exit code of
// the first failing step, or 0. The error is only set when a step could not be
// executed at all.
type Manager struct {
	runner runner.Runner
}

// NewManager returns a Manager executing through r (runner.Default when nil).
func NewManager(r runner.Runner) *Manager {
	if r == nil {
		r = runner.Default
	}
	return &Manager{runner: r}
}

// Do runs the named action.
func (m *Manager) Do(ctx context.Context, action Action, cfg config.Config, sink logging.Sink) (int, error) {
	logging.LogDebug("Running action %s", action)
	switch action {
	case ActionInstall:
		return m.Install(ctx, cfg, sink)
	case ActionUninstall:
		return m.Uninstall(ctx, cfg, sink)
	case ActionPush:
		return m.Push(ctx, cfg, sink)
	case ActionStart:
		return m.Start(ctx, cfg, sink)
	case ActionCheck:
		return m.Check(ctx, cfg, sink)
	}
	return 1, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// sequence runs invocations in order and stops at the first non-zero exit.
func (m *Manager) sequence(ctx context.Context, sink logging.Sink, steps ...runner.Invocation) (int, error) {
	for _, step := range steps {
		code, err := m.runner.Run(ctx, step, sink)
		if err != nil {
			return code, err
		}
		if code != 0 {
			logging.LogDebug("Step %q failed with code %d, stopping", step.String(), code)
			return code, nil
		}
	}
	return 0, nil
}

// Install installs the pinned frida client, the pinned frida-tools and the
// unpinned frida-dexdump.
func (m *Manager) Install(ctx context.Context, cfg config.Config, sink logging.Sink) (int, error) {
	p := pip.Installer{Python: cfg.Python}
	return m.sequence(ctx, sink,
		p.Install(PackageFrida, cfg.FridaVersion),
		p.Install(PackageTools, cfg.ToolsVersion),
		p.Install(PackageDexdump, ""),
	)
}

// Uninstall removes frida and frida-tools.
func (m *Manager) Uninstall(ctx context.Context, cfg config.Config, sink logging.Sink) (int, error) {
	p := pip.Installer{Python: cfg.Python}
	return m.sequence(ctx, sink,
		p.Uninstall(PackageFrida),
		p.Uninstall(PackageTools),
	)
}

// Push copies the local frida-server to the staging directory, makes it
// executable and moves it to cfg.DevicePath. A missing local binary fails with
// code 1 before any adb call.
func (m *Manager) Push(ctx context.Context, cfg config.Config, sink logging.Sink) (int, error) {
	localPath := cfg.LocalServerPath()
	if _, err := os.Stat(localPath); err != nil {
		logging.Emit(sink, fmt.Sprintf("Local frida-server not found: %s", localPath))
		logging.LogError("Push aborted, %s: %v", localPath, err)
		return 1, nil
	}

	bridge := adb.New(cfg.AdbPath)
	return m.sequence(ctx, sink,
		bridge.Push(localPath),
		bridge.Chmod(cfg.ServerName),
		bridge.Move(cfg.ServerName, cfg.DevicePath),
	)
}

// Start launches frida-server as root and forwards cfg.HostPort to
// cfg.DevicePort. A failed forward triggers one recovery attempt: the process
// holding the device port is killed and the forward is retried once.
func (m *Manager) Start(ctx context.Context, cfg config.Config, sink logging.Sink) (int, error) {
	bridge := adb.New(cfg.AdbPath)

	code, err := m.sequence(ctx, sink, bridge.StartAsRoot(cfg.DevicePath))
	if err != nil || code != 0 {
		return code, err
	}

	forward := bridge.Forward(cfg.HostPort, cfg.DevicePort)
	code, err = m.runner.Run(ctx, forward, sink)
	if err != nil {
		return code, err
	}
	if code == 0 {
		return 0, nil
	}

	logging.Emit(sink, "Port forward failed. Attempting to clear the port...")
	if err := m.clearDevicePort(ctx, bridge, cfg.DevicePort, sink); err != nil {
		return 1, err
	}
	return m.runner.Run(ctx, forward, sink)
}

// clearDevicePort kills the device process listening on port when the socket
// listing identifies one. The kill's exit code is not checked.
func (m *Manager) clearDevicePort(ctx context.Context, bridge adb.Bridge, port string, sink logging.Sink) error {
	status, output, err := m.runner.RunCapture(ctx, bridge.ListListeners(port), sink)
	if err != nil {
		return err
	}
	if status != 0 || output == "" {
		logging.LogDebug("No listener found for device port %s (status %d)", port, status)
		return nil
	}

	pid, ok := adb.ParseListeningPID(output)
	if !ok {
		logging.LogDebug("Could not identify the process on device port %s from %q", port, output)
		return nil
	}

	logging.Emit(sink, fmt.Sprintf("Killing process on port %s: %s", port, pid))
	_, err = m.runner.Run(ctx, bridge.Kill(pid), sink)
	return err
}

// Check lists attached devices and returns adb's exit code unchanged.
func (m *Manager) Check(ctx context.Context, cfg config.Config, sink logging.Sink) (int, error) {
	return m.runner.Run(ctx, adb.New(cfg.AdbPath).Devices(), sink)
}
