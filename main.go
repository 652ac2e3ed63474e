package main

import (
	"os"
	"slices"
	"strings"

	"github.com/xlttj/fridamgr/pkg/cmd"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
)

func main() {
	logging.LogDebug("main started with args %v", os.Args[1:])
	os.Exit(run(cmd.NewApp(), os.Args[1:]))
}

// run dispatches to a subcommand and returns the process exit code.
func run(app *cmd.App, args []string) int {
	// --cli anywhere selects the text menu, as the script did
	if i := slices.Index(args, "--cli"); i >= 0 {
		return app.HandlePromptCommand(slices.Delete(slices.Clone(args), i, i+1))
	}

	if len(args) == 0 {
		return app.HandleInteractiveCommand(nil)
	}

	switch args[0] {
	case "cli":
		return app.HandlePromptCommand(args[1:])
	case "profile":
		return app.HandleProfileCommand(args[1:])
	case "history":
		return app.HandleHistoryCommand(args[1:])
	case "help", "-h", "--help":
		return app.HandleHelpCommand()
	}

	if _, err := frida.ParseAction(args[0]); err == nil {
		return app.HandleActionCommand(args[0], args[1:])
	}
	if !strings.HasPrefix(args[0], "-") {
		return app.HandleUnknownCommand(args[0])
	}
	return app.HandleInteractiveCommand(args)
}
