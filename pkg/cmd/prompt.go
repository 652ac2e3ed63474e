package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
)

// menuChoices maps the prompt's numbered entries to actions.
var menuChoices = map[string]frida.Action{
	"1": frida.ActionInstall,
	"2": frida.ActionUninstall,
	"3": frida.ActionPush,
	"4": frida.ActionStart,
}

const promptBanner = `fridamgr - Frida installer and frida-server launcher
Warning: intended for security testing only, do not use it in production environments.
Requires Python 3.8 or newer.
Select an action:
1. Install frida on this computer (python and its Scripts directory must be on PATH)
2. Uninstall frida from this computer
3. Push frida-server to the device
4. Start frida-server and forward the port`

// HandlePromptCommand runs the numbered text menu once on the foreground and
// always returns 0.
func (a *App) HandlePromptCommand(args []string) int {
	promptCmd := flag.NewFlagSet("cli", flag.ContinueOnError)
	promptCmd.SetOutput(a.Stderr)
	cf := bindConfigFlags(promptCmd)
	promptCmd.Usage = func() {
		fmt.Fprintf(a.Stderr, "Usage: fridamgr --cli [options]\n\nRun the interactive text menu.\n\nOptions:\n")
		promptCmd.PrintDefaults()
	}

	if err := promptCmd.Parse(args); err != nil {
		return 2
	}

	cfg, err := cf.resolve(a.OpenStore)
	if err != nil {
		fmt.Fprintf(a.Stdout, "Error loading configuration: %v\n", err)
		return 1
	}

	return a.runPrompt(cfg, cf.profile)
}

func (a *App) runPrompt(cfg config.Config, profile string) int {
	fmt.Fprintln(a.Stdout, promptBanner)
	fmt.Fprint(a.Stdout, "Enter your choice (1/2/3/4): ")

	reader := bufio.NewReader(a.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		logging.LogError("Failed to read menu choice: %v", err)
	}
	resp = strings.TrimSpace(resp)

	if action, ok := menuChoices[resp]; ok {
		sink := logging.NewWriterSink(a.Stdout)
		started := time.Now()
		code, err := a.Manager.Do(a.ctx(), action, cfg, sink)
		if err != nil {
			sink.Line(fmt.Sprintf("Error: %v", err))
			code = 1
		}
		sink.Line(fmt.Sprintf("Task completed with exit code %d.", code))
		a.recordRun(action, profile, started, code, err)
	} else {
		fmt.Fprintln(a.Stdout, "Invalid choice")
	}

	fmt.Fprintln(a.Stdout, "Frida quick commands:")
	fmt.Fprintln(a.Stdout, frida.QuickCommands)
	return 0
}
