package cmd

import (
	"flag"
	"fmt"
	"time"

	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
)

// HandleActionCommand runs a single action non-interactively and returns its
// status code as the process exit code.
func (a *App) HandleActionCommand(name string, args []string) int {
	action, err := frida.ParseAction(name)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return 2
	}

	actionCmd := flag.NewFlagSet(string(action), flag.ContinueOnError)
	actionCmd.SetOutput(a.Stderr)
	cf := bindConfigFlags(actionCmd)
	actionCmd.Usage = func() {
		fmt.Fprintf(a.Stderr, "Usage: fridamgr %s [options]\n\n%s.\n\nOptions:\n", action, action.Title())
		actionCmd.PrintDefaults()
	}

	if err := actionCmd.Parse(args); err != nil {
		return 2
	}

	cfg, err := cf.resolve(a.OpenStore)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	sink := logging.NewWriterSink(a.Stdout)
	started := time.Now()
	code, runErr := a.Manager.Do(a.ctx(), action, cfg, sink)
	if runErr != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", runErr)
		code = 1
	}
	a.recordRun(action, cf.profile, started, code, runErr)
	return code
}
