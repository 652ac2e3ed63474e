package cmd

import (
	"flag"
	"fmt"
)

// HandleHistoryCommand prints the most recent action runs.
func (a *App) HandleHistoryCommand(args []string) int {
	historyCmd := flag.NewFlagSet("history", flag.ContinueOnError)
	historyCmd.SetOutput(a.Stderr)
	limit := historyCmd.Int("n", 20, "Number of runs to show")

	if err := historyCmd.Parse(args); err != nil {
		return 2
	}

	store, ok := a.openStore()
	if !ok {
		return 1
	}
	defer store.Close()

	runs, err := store.RecentRuns(*limit)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error reading history: %v\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.Stdout, "No runs recorded yet.")
		return 0
	}

	for _, r := range runs {
		profile := r.Profile
		if profile == "" {
			profile = "-"
		}
		line := fmt.Sprintf("%s  %-10s %-12s exit=%-4d %6.1fs",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Action, profile, r.ExitCode,
			r.FinishedAt.Sub(r.StartedAt).Seconds())
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Fprintln(a.Stdout, line)
	}
	return 0
}
