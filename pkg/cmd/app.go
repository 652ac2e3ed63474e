package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/logging"
)

// App bundles the collaborators shared by every subcommand. Handlers return the
// process exit code instead of exiting so they can be tested.
type App struct {
	Manager   *frida.Manager
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	OpenStore func() (config.StoreInterface, error)
	Context   context.Context
}

// NewApp wires the production collaborators.
func NewApp() *App {
	return &App{
		Manager:   frida.NewManager(nil),
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		OpenStore: config.NewStore,
		Context:   context.Background(),
	}
}

func (a *App) ctx() context.Context {
	if a.Context == nil {
		return context.Background()
	}
	return a.Context
}

// recordRun stores a history entry. History is best effort: a store that
// cannot be opened only produces a diagnostic.
func (a *App) recordRun(action frida.Action, profile string, started time.Time, code int, runErr error) {
	if a.OpenStore == nil {
		return
	}
	store, err := a.OpenStore()
	if err != nil {
		logging.LogError("Run history unavailable: %v", err)
		return
	}
	defer store.Close()

	rec := config.RunRecord{
		Action:     string(action),
		Profile:    profile,
		ExitCode:   code,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := store.RecordRun(rec); err != nil {
		logging.LogError("Failed to record %s run: %v", action, err)
	}
}
