package ui

// Form field labels
const (
	LabelFridaVersion = "Frida version"
	LabelToolsVersion = "Frida-tools version"
	LabelServerName   = "frida-server name"
	LabelDevicePath   = "Device path"
	LabelDevicePort   = "Device port"
	LabelHostPort     = "Host port"
	LabelAdbPath      = "adb"
	LabelLocalDir     = "Local directory"
	LabelPython       = "Python"
)

// Action list entry that is not a frida.Action
const ItemClearOutput = "Clear Output"

// Action Lines / Key Hints
const (
	ActionMainNav         = "tab/shift+tab: Move | enter/1-6: Run (action list) | ctrl+o: Browse | ctrl+s: Save profile | ctrl+p: Profiles | ctrl+x: Quit"
	ActionMainNavShort    = "tab: Move | enter: Run | ctrl+o: Browse | ctrl+s: Save | ctrl+p: Profiles | ctrl+x: Quit"
	ActionProfileSelector = "↑/↓: Navigate | enter: Load Profile | d: Delete | esc: Back"
	ActionProfileSave     = "enter: Save | esc: Cancel"
	ActionBrowse          = "↑/↓: Navigate | enter: Select file | esc: Cancel"
	ActionDismissError    = "Press enter or esc to dismiss"
)

// Keyboard shortcuts
const (
	ShortcutExit        = "ctrl+x"
	ShortcutBrowse      = "ctrl+o"
	ShortcutSaveProfile = "ctrl+s"
	ShortcutProfiles    = "ctrl+p"
)

// Numeric Constants for Layout/Indexing
const (
	LabelWidth        = 20 // Width of the form label column
	MinLogHeight      = 4  // Minimum height of the log pane
	MainViewOffset    = 4  // Title, blank line, status and help lines
	MinPaneWidth      = 40
	MaxLogLines       = 2000 // Lines kept in the log pane
	ProfileNameLimit  = 64
	FieldCharLimit    = 256
	DefaultWidth      = 80
	DefaultHeight     = 24
	MinSelectorHeight = 3
)

// Status Strings
const (
	StatusReady   = "Ready"
	StatusRunning = "Running..."
)

// Lipgloss Colors
const (
	ColorBorder     = "240"
	ColorSelectedFg = "229"
	ColorSelectedBg = "57"
	ColorTitle      = "14"  // Cyan for titles
	ColorHelp       = "245" // Grey for help text
	ColorError      = "9"   // Red for errors
	ColorStatus     = "10"  // Green for status messages
	ColorFocus      = "11"  // Yellow for the focused field label
	ColorDisabled   = "8"
)
