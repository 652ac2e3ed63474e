package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"strings"

	"github.com/xlttj/fridamgr/pkg/config"
)

// HandleProfileCommand manages saved profiles: save, list, show and delete.
func (a *App) HandleProfileCommand(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		a.showProfileHelp()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	switch args[0] {
	case "save":
		return a.profileSave(args[1:])
	case "list", "ls":
		return a.profileList()
	case "show":
		return a.profileShow(args[1:])
	case "delete", "rm":
		return a.profileDelete(args[1:])
	}
	fmt.Fprintf(a.Stderr, "Unknown profile command: %s\n\n", args[0])
	a.showProfileHelp()
	return 2
}

func (a *App) openStore() (config.StoreInterface, bool) {
	store, err := a.OpenStore()
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error opening profile store: %v\n", err)
		return nil, false
	}
	return store, true
}

// profileSave stores the configuration resolved from the given flags under a name.
func (a *App) profileSave(args []string) int {
	saveCmd := flag.NewFlagSet("profile save", flag.ContinueOnError)
	saveCmd.SetOutput(a.Stderr)
	cf := bindConfigFlags(saveCmd)
	saveCmd.Usage = func() {
		fmt.Fprintf(a.Stderr, "Usage: fridamgr profile save <name> [options]\n\nOptions:\n")
		saveCmd.PrintDefaults()
	}

	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		saveCmd.Usage()
		return 2
	}
	name := args[0]
	if err := saveCmd.Parse(args[1:]); err != nil {
		return 2
	}

	cfg, err := cf.resolve(a.OpenStore)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	store, ok := a.openStore()
	if !ok {
		return 1
	}
	defer store.Close()

	if err := store.SaveProfile(name, cfg); err != nil {
		fmt.Fprintf(a.Stderr, "Error saving profile: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.Stdout, "Saved profile %q.\n", name)
	return 0
}

func (a *App) profileList() int {
	store, ok := a.openStore()
	if !ok {
		return 1
	}
	defer store.Close()

	profiles, err := store.ListProfiles()
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error listing profiles: %v\n", err)
		return 1
	}
	if len(profiles) == 0 {
		fmt.Fprintln(a.Stdout, "No saved profiles.")
		return 0
	}
	for _, p := range profiles {
		fmt.Fprintf(a.Stdout, "%-20s %s -> %s  tcp:%s->tcp:%s  (%s)\n",
			p.Name, p.Config.ServerName, p.Config.DevicePath, p.Config.HostPort, p.Config.DevicePort,
			p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return 0
}

func (a *App) profileShow(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.Stderr, "Usage: fridamgr profile show <name>")
		return 2
	}
	store, ok := a.openStore()
	if !ok {
		return 1
	}
	defer store.Close()

	p, err := store.GetProfile(args[0])
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg := p.Config
	fmt.Fprintf(a.Stdout, "Profile: %s\n", p.Name)
	fmt.Fprintf(a.Stdout, "  frida version:  %s\n", cfg.FridaVersion)
	fmt.Fprintf(a.Stdout, "  tools version:  %s\n", cfg.ToolsVersion)
	fmt.Fprintf(a.Stdout, "  server name:    %s\n", cfg.ServerName)
	fmt.Fprintf(a.Stdout, "  device path:    %s\n", cfg.DevicePath)
	fmt.Fprintf(a.Stdout, "  device port:    %s\n", cfg.DevicePort)
	fmt.Fprintf(a.Stdout, "  host port:      %s\n", cfg.HostPort)
	fmt.Fprintf(a.Stdout, "  adb:            %s\n", cfg.AdbPath)
	fmt.Fprintf(a.Stdout, "  local dir:      %s\n", cfg.LocalDir)
	fmt.Fprintf(a.Stdout, "  python:         %s\n", cfg.Python)
	return 0
}

// profileDelete removes a profile, asking for confirmation unless -y is given.
func (a *App) profileDelete(args []string) int {
	deleteCmd := flag.NewFlagSet("profile delete", flag.ContinueOnError)
	deleteCmd.SetOutput(a.Stderr)
	acceptAll := deleteCmd.Bool("y", false, "Delete without prompting")

	if err := deleteCmd.Parse(args); err != nil {
		return 2
	}
	if deleteCmd.NArg() != 1 {
		fmt.Fprintln(a.Stderr, "Usage: fridamgr profile delete [-y] <name>")
		return 2
	}
	name := deleteCmd.Arg(0)

	store, ok := a.openStore()
	if !ok {
		return 1
	}
	defer store.Close()

	if !*acceptAll {
		fmt.Fprintf(a.Stdout, "Delete profile %q? [y/N]: ", name)
		reader := bufio.NewReader(a.Stdin)
		resp, _ := reader.ReadString('\n')
		resp = strings.TrimSpace(strings.ToLower(resp))
		if resp != "y" && resp != "yes" {
			fmt.Fprintln(a.Stdout, "Aborted.")
			return 0
		}
	}

	if err := store.DeleteProfile(name); err != nil {
		fmt.Fprintf(a.Stderr, "Error deleting %s: %v\n", name, err)
		return 1
	}
	fmt.Fprintf(a.Stdout, "Removed profile %q.\n", name)
	return 0
}

func (a *App) showProfileHelp() {
	fmt.Fprint(a.Stderr, `fridamgr profile - Manage saved configurations

Usage:
  fridamgr profile save <name> [options]   Save the configuration built from options
  fridamgr profile list                    List saved profiles
  fridamgr profile show <name>             Print a profile
  fridamgr profile delete [-y] <name>      Delete a profile

Use a profile with --profile <name> on any action, or pick it in the TUI.
`)
}
