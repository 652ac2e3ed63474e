package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/logging"
	"github.com/xlttj/fridamgr/pkg/ui"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// HandleInteractiveCommand starts the terminal UI. Without a terminal on both
// stdin and stdout it falls back to the text menu.
func (a *App) HandleInteractiveCommand(args []string) int {
	tuiCmd := flag.NewFlagSet("fridamgr", flag.ContinueOnError)
	tuiCmd.SetOutput(a.Stderr)
	cf := bindConfigFlags(tuiCmd)
	tuiCmd.Usage = func() { showMainHelp(a.Stderr) }

	if err := tuiCmd.Parse(args); err != nil {
		return 2
	}

	cfg, err := cf.resolve(a.OpenStore)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	if !isTerminal(a.Stdin) || !isTerminal(a.Stdout) {
		fmt.Fprintln(a.Stderr, "No terminal attached, falling back to the text menu.")
		return a.runPrompt(cfg, cf.profile)
	}

	return a.runTUI(cfg, cf.profile)
}

func (a *App) runTUI(cfg config.Config, profile string) int {
	opts := ui.Options{
		Config:  cfg,
		Profile: profile,
		Manager: a.Manager,
	}

	fileSink, err := logging.NewFileSink(logging.LogDir)
	if err != nil {
		logging.LogError("Log file disabled: %v", err)
	} else {
		opts.LogFile = fileSink
	}

	if a.OpenStore != nil {
		store, err := a.OpenStore()
		if err != nil {
			logging.LogError("Profile store unavailable: %v", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	model := ui.NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInput(a.Stdin), tea.WithOutput(a.Stdout))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return 1
	}
	model.Cleanup()
	return 0
}
