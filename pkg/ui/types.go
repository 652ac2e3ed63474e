package ui

import (
	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
	"github.com/xlttj/fridamgr/pkg/worker"
)

// UIState represents the different views/states of the UI
type UIState int

const (
	StateMain            UIState = iota // Form, action list and log pane
	StateBrowse                         // File picker for the local frida-server (ctrl+o)
	StateProfileSelector                // Saved profile list (ctrl+p)
	StateProfileSave                    // Profile name prompt (ctrl+s)
)

// Options configures a new Model.
type Options struct {
	Config  config.Config
	Profile string // Name of the profile Config was loaded from, if any
	Manager *frida.Manager
	Store   config.StoreInterface // Optional; profiles and history are disabled when nil
	LogFile logging.Sink          // Optional; receives every line shown in the log pane
}

// formField binds one text input to a Config field.
type formField struct {
	label string
	field func(*config.Config) *string
}

var formFields = []formField{
	{LabelFridaVersion, func(c *config.Config) *string { return &c.FridaVersion }},
	{LabelToolsVersion, func(c *config.Config) *string { return &c.ToolsVersion }},
	{LabelServerName, func(c *config.Config) *string { return &c.ServerName }},
	{LabelDevicePath, func(c *config.Config) *string { return &c.DevicePath }},
	{LabelDevicePort, func(c *config.Config) *string { return &c.DevicePort }},
	{LabelHostPort, func(c *config.Config) *string { return &c.HostPort }},
	{LabelAdbPath, func(c *config.Config) *string { return &c.AdbPath }},
	{LabelLocalDir, func(c *config.Config) *string { return &c.LocalDir }},
	{LabelPython, func(c *config.Config) *string { return &c.Python }},
}

// menuItem is one row of the action list. A zero action means Clear Output.
type menuItem struct {
	title  string
	action frida.Action
}

func menuItems() []menuItem {
	items := make([]menuItem, 0, len(frida.Actions)+1)
	for _, a := range frida.Actions {
		items = append(items, menuItem{title: a.Title(), action: a})
	}
	return append(items, menuItem{title: ItemClearOutput})
}

// taskEventMsg delivers one worker event to Update.
type taskEventMsg struct {
	event worker.Event
}

// taskClosedMsg is sent when the worker channel closes without a DoneEvent.
type taskClosedMsg struct{}
