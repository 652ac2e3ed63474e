package cmd

import (
	"fmt"
	"io"
)

// HandleHelpCommand displays help information for the application
func (a *App) HandleHelpCommand() int {
	showMainHelp(a.Stdout)
	return 0
}

// HandleUnknownCommand reports an unrecognised subcommand.
func (a *App) HandleUnknownCommand(name string) int {
	fmt.Fprintf(a.Stderr, "Unknown command: %s\n\n", name)
	showMainHelp(a.Stderr)
	return 2
}

// showMainHelp displays the main application help
func showMainHelp(w io.Writer) {
	fmt.Fprint(w, `fridamgr - Frida installer and frida-server launcher

Installs the frida host packages, pushes frida-server to an Android device,
starts it as root and forwards its port to this machine.

Usage:
  fridamgr [options]              Start the terminal UI
  fridamgr --cli [options]        Run the numbered text menu
  fridamgr <command> [options]

Available Commands:
  install    pip install frida, frida-tools and frida-dexdump
  uninstall  pip uninstall frida and frida-tools
  push       Push frida-server to the device and move it into place
  start      Start frida-server and forward the host port to it
  check      List attached devices (adb devices)
  profile    Save, list, show or delete named configurations
  history    Show recent action runs
  help       Show help information

Options (all commands that run an action):
  --config string         YAML config file (default ~/.fridamgr/config.yaml when present)
  --profile string        Saved profile to load
  --frida-version string  frida version to install (default "16.5.7")
  --tools-version string  frida-tools version to install (default "12.3.0")
  --server-name string    frida-server file name (default "frida-server-16.5.7-android-arm64")
  --device-path string    Install path on the device (default "/data/local/tmp/fs")
  --device-port string    Port frida-server listens on (default "27042")
  --host-port string      Host port forwarded to the device (default "27042")
  --adb string            adb executable (default "adb")
  --local-dir string      Directory containing frida-server (default: current directory)
  --python string         Python runtime used for pip

Interactive Mode:
  Run without a command to start the terminal UI where you can:
  - Edit the configuration fields with Tab / Shift+Tab
  - Tab to the action list and press 1-6 or Enter to run an entry
  - Press ctrl+o to pick the local frida-server file
  - Press ctrl+s to save the form as a profile, ctrl+p to load one

Output of every action run from the UI is appended to logs/app.log.

Examples:
  fridamgr                                Start the terminal UI
  fridamgr push --local-dir ~/Downloads   Push from another directory
  fridamgr start --host-port 27043        Forward a different host port
  fridamgr profile save pixel --adb /opt/platform-tools/adb
`)
}
