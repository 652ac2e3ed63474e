package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/frida"
	"github.com/xlttj/fridamgr/pkg/runner/runnertest"
)

type testApp struct {
	*App
	rec    *runnertest.Recorder
	out    *bytes.Buffer
	errOut *bytes.Buffer
	dbPath string
}

// newTestApp builds an App with a scripted runner, a temporary store and an
// isolated home directory so no user config file is picked up.
func newTestApp(t *testing.T, input string, replies ...runnertest.Reply) *testApp {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	ta := &testApp{
		rec:    runnertest.New(replies...),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		dbPath: filepath.Join(t.TempDir(), "fridamgr.db"),
	}
	ta.App = &App{
		Manager: frida.NewManager(ta.rec),
		Stdin:   strings.NewReader(input),
		Stdout:  ta.out,
		Stderr:  ta.errOut,
		OpenStore: func() (config.StoreInterface, error) {
			return config.NewSQLiteStore(ta.dbPath)
		},
		Context: context.Background(),
	}
	return ta
}

func (ta *testApp) store(t *testing.T) *config.SQLiteStore {
	t.Helper()
	s, err := config.NewSQLiteStore(ta.dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func assertCommands(t *testing.T, rec *runnertest.Recorder, want ...string) {
	t.Helper()
	got := rec.Commands()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("commands:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestPromptInstallChoice(t *testing.T) {
	ta := newTestApp(t, "1\n")

	code := ta.HandlePromptCommand([]string{"--python", "py"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	assertCommands(t, ta.rec,
		"py -m pip install frida==16.5.7",
		"py -m pip install frida-tools==12.3.0",
		"py -m pip install frida-dexdump",
	)

	out := ta.out.String()
	for _, want := range []string{
		"Enter your choice (1/2/3/4): ",
		"$ py -m pip install frida==16.5.7",
		"Task completed with exit code 0.",
		"Frida quick commands:",
		frida.QuickCommands,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPromptFailureStillExitsZero(t *testing.T) {
	ta := newTestApp(t, "3\n")
	dir := t.TempDir()

	code := ta.HandlePromptCommand([]string{"--local-dir", dir, "--server-name", "missing"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(ta.rec.Commands()) != 0 {
		t.Fatalf("push ran device commands without a local binary: %v", ta.rec.Commands())
	}
	out := ta.out.String()
	if !strings.Contains(out, "Local frida-server not found: "+filepath.Join(dir, "missing")) {
		t.Fatalf("missing not-found line:\n%s", out)
	}
	if !strings.Contains(out, "Task completed with exit code 1.") {
		t.Fatalf("missing completion line:\n%s", out)
	}
}

func TestPromptInvalidChoice(t *testing.T) {
	for _, input := range []string{"9\n", "\n", "install\n", ""} {
		ta := newTestApp(t, input)
		if code := ta.HandlePromptCommand(nil); code != 0 {
			t.Fatalf("input %q: exit code = %d, want 0", input, code)
		}
		if !strings.Contains(ta.out.String(), "Invalid choice") {
			t.Fatalf("input %q: output missing Invalid choice:\n%s", input, ta.out.String())
		}
		if !strings.Contains(ta.out.String(), "Frida quick commands:") {
			t.Fatalf("input %q: quick commands not printed", input)
		}
		if len(ta.rec.Commands()) != 0 {
			t.Fatalf("input %q: commands ran: %v", input, ta.rec.Commands())
		}
	}
}

func TestPromptReadErrorIsInvalidChoice(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Stdin = iotest.ErrReader(errors.New("input closed"))

	if code := ta.HandlePromptCommand(nil); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(ta.out.String(), "Invalid choice") {
		t.Fatalf("output missing Invalid choice:\n%s", ta.out.String())
	}
	if len(ta.rec.Commands()) != 0 {
		t.Fatalf("commands ran: %v", ta.rec.Commands())
	}
}

// A partial line read before the error still counts as a choice.
func TestPromptReadErrorKeepsPartialChoice(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Stdin = io.MultiReader(strings.NewReader("4"), iotest.ErrReader(errors.New("input closed")))

	if code := ta.HandlePromptCommand(nil); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	assertCommands(t, ta.rec,
		"adb shell su -c '/data/local/tmp/fs &'",
		"adb forward tcp:27042 tcp:27042",
	)
}

func TestActionCommandExitsWithActionCode(t *testing.T) {
	ta := newTestApp(t, "", runnertest.Reply{Code: 4, Output: "error: no devices/emulators found\n"})

	code := ta.HandleActionCommand("check", []string{"--adb", "/opt/adb"})
	if code != 4 {
		t.Fatalf("exit code = %d, want 4", code)
	}
	assertCommands(t, ta.rec, "/opt/adb devices")
	if !strings.Contains(ta.out.String(), "error: no devices/emulators found") {
		t.Fatalf("output not streamed:\n%s", ta.out.String())
	}

	runs, err := ta.store(t).RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Action != "check" || runs[0].ExitCode != 4 {
		t.Fatalf("runs = %+v, want one check with code 4", runs)
	}
}

func TestActionCommandUsageErrors(t *testing.T) {
	ta := newTestApp(t, "")
	if code := ta.HandleActionCommand("reboot", nil); code != 2 {
		t.Fatalf("unknown action: exit code = %d, want 2", code)
	}
	if code := ta.HandleActionCommand("check", []string{"--no-such-flag"}); code != 2 {
		t.Fatalf("bad flag: exit code = %d, want 2", code)
	}
	if len(ta.rec.Commands()) != 0 {
		t.Fatalf("commands ran: %v", ta.rec.Commands())
	}
}

func TestPortFieldsAreNotValidatedBeforeActions(t *testing.T) {
	tests := []struct {
		action string
		args   []string
		want   []string
	}{
		{"install", []string{"--host-port", "usb", "--python", "py"}, []string{
			"py -m pip install frida==16.5.7",
			"py -m pip install frida-tools==12.3.0",
			"py -m pip install frida-dexdump",
		}},
		{"check", []string{"--device-port", ""}, []string{"adb devices"}},
		{"start", []string{"--host-port", "http"}, []string{
			"adb shell su -c '/data/local/tmp/fs &'",
			"adb forward tcp:http tcp:27042",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			ta := newTestApp(t, "")
			if code := ta.HandleActionCommand(tt.action, tt.args); code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, ta.errOut.String())
			}
			assertCommands(t, ta.rec, tt.want...)
		})
	}
}

func TestConfigPrecedence(t *testing.T) {
	ta := newTestApp(t, "")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("host_port: \"1000\"\ndevice_port: \"1001\"\nadb_path: yaml-adb\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	profile := config.Default()
	profile.HostPort = "2000"
	profile.DevicePort = "2001"
	profile.AdbPath = "profile-adb"
	if err := ta.store(t).SaveProfile("pixel", profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"yaml", []string{"--config", cfgPath}, "yaml-adb forward tcp:1000 tcp:1001"},
		{"profile over yaml", []string{"--config", cfgPath, "--profile", "pixel"}, "profile-adb forward tcp:2000 tcp:2001"},
		{"flag over profile", []string{"--config", cfgPath, "--profile", "pixel", "--host-port", "3000"}, "profile-adb forward tcp:3000 tcp:2001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta.rec = runnertest.New()
			ta.Manager = frida.NewManager(ta.rec)

			if code := ta.HandleActionCommand("start", tt.args); code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, ta.errOut.String())
			}
			cmds := ta.rec.Commands()
			if len(cmds) != 2 || cmds[1] != tt.want {
				t.Fatalf("commands = %v, want forward %q", cmds, tt.want)
			}
		})
	}
}

func TestMissingProfileFails(t *testing.T) {
	ta := newTestApp(t, "")
	if code := ta.HandleActionCommand("check", []string{"--profile", "nope"}); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(ta.errOut.String(), config.ErrProfileNotFound.Error()) {
		t.Fatalf("stderr = %q", ta.errOut.String())
	}
}

func TestProfileLifecycle(t *testing.T) {
	ta := newTestApp(t, "")

	if code := ta.HandleProfileCommand([]string{"save", "emu", "--host-port", "27050", "--adb", "/sdk/adb"}); code != 0 {
		t.Fatalf("save: exit code = %d, stderr:\n%s", code, ta.errOut.String())
	}

	ta.out.Reset()
	if code := ta.HandleProfileCommand([]string{"list"}); code != 0 {
		t.Fatalf("list: exit code = %d", code)
	}
	if !strings.Contains(ta.out.String(), "emu") || !strings.Contains(ta.out.String(), "tcp:27050") {
		t.Fatalf("list output:\n%s", ta.out.String())
	}

	ta.out.Reset()
	if code := ta.HandleProfileCommand([]string{"show", "emu"}); code != 0 {
		t.Fatalf("show: exit code = %d", code)
	}
	if !strings.Contains(ta.out.String(), "/sdk/adb") {
		t.Fatalf("show output:\n%s", ta.out.String())
	}

	// Declining the prompt keeps the profile
	ta.Stdin = strings.NewReader("n\n")
	if code := ta.HandleProfileCommand([]string{"delete", "emu"}); code != 0 {
		t.Fatalf("delete (declined): exit code = %d", code)
	}
	if _, err := ta.store(t).GetProfile("emu"); err != nil {
		t.Fatalf("profile removed after declining: %v", err)
	}

	if code := ta.HandleProfileCommand([]string{"delete", "-y", "emu"}); code != 0 {
		t.Fatalf("delete -y: exit code = %d, stderr:\n%s", code, ta.errOut.String())
	}
	if _, err := ta.store(t).GetProfile("emu"); err == nil {
		t.Fatal("profile still present after delete -y")
	}

	if code := ta.HandleProfileCommand([]string{"delete", "-y", "emu"}); code != 1 {
		t.Fatalf("deleting a missing profile: exit code = %d, want 1", code)
	}
}

func TestProfileUsage(t *testing.T) {
	ta := newTestApp(t, "")
	if code := ta.HandleProfileCommand(nil); code != 2 {
		t.Fatalf("no args: exit code = %d, want 2", code)
	}
	if code := ta.HandleProfileCommand([]string{"rename"}); code != 2 {
		t.Fatalf("unknown subcommand: exit code = %d, want 2", code)
	}
	if code := ta.HandleProfileCommand([]string{"save"}); code != 2 {
		t.Fatalf("save without name: exit code = %d, want 2", code)
	}
}

func TestHistory(t *testing.T) {
	ta := newTestApp(t, "")
	if code := ta.HandleHistoryCommand(nil); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(ta.out.String(), "No runs recorded yet.") {
		t.Fatalf("output:\n%s", ta.out.String())
	}

	ta.HandleActionCommand("check", nil)
	ta.out.Reset()
	if code := ta.HandleHistoryCommand([]string{"-n", "5"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(ta.out.String(), "check") || !strings.Contains(ta.out.String(), "exit=0") {
		t.Fatalf("output:\n%s", ta.out.String())
	}
}

func TestInteractiveFallsBackWithoutTerminal(t *testing.T) {
	ta := newTestApp(t, "5\n")
	if code := ta.HandleInteractiveCommand(nil); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(ta.errOut.String(), "falling back to the text menu") {
		t.Fatalf("stderr = %q", ta.errOut.String())
	}
	if !strings.Contains(ta.out.String(), "Invalid choice") {
		t.Fatalf("output:\n%s", ta.out.String())
	}
}
