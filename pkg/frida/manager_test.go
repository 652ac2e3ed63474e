package frida

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xlttj/fridamgr/pkg/config"
	"github.com/xlttj/fridamgr/pkg/runner/runnertest"
)

type lines []string

func (l *lines) Line(s string) { *l = append(*l, s) }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Python = "py"
	cfg.AdbPath = "adb"
	cfg.LocalDir = t.TempDir()
	cfg.ServerName = "fs-bin"
	cfg.HostPort = "1111"
	cfg.DevicePort = "2222"
	return cfg
}

func writeServer(t *testing.T, cfg config.Config) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.LocalDir, cfg.ServerName), []byte("elf"), 0755); err != nil {
		t.Fatalf("write server: %v", err)
	}
}

func assertCommands(t *testing.T, rec *runnertest.Recorder, want ...string) {
	t.Helper()
	got := rec.Commands()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("commands:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestInstallRunsThreeCommandsInOrder(t *testing.T) {
	rec := runnertest.New()
	cfg := testConfig(t)

	code, err := NewManager(rec).Install(context.Background(), cfg, nil)
	if err != nil || code != 0 {
		t.Fatalf("Install = (%d, %v), want (0, nil)", code, err)
	}
	assertCommands(t, rec,
		"py -m pip install frida==16.5.7",
		"py -m pip install frida-tools==12.3.0",
		"py -m pip install frida-dexdump",
	)
}

func TestUninstallRunsTwoCommands(t *testing.T) {
	rec := runnertest.New()
	code, err := NewManager(rec).Uninstall(context.Background(), testConfig(t), nil)
	if err != nil || code != 0 {
		t.Fatalf("Uninstall = (%d, %v)", code, err)
	}
	assertCommands(t, rec,
		"py -m pip uninstall -y frida",
		"py -m pip uninstall -y frida-tools",
	)
}

func TestFirstFailureStopsEverySequence(t *testing.T) {
	tests := []struct {
		action Action
		first  string
	}{
		{ActionInstall, "py -m pip install frida==16.5.7"},
		{ActionUninstall, "py -m pip uninstall -y frida"},
		{ActionPush, "adb push "},
		{ActionStart, "adb shell su -c '/data/local/tmp/fs &'"},
		{ActionCheck, "adb devices"},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			rec := runnertest.New(runnertest.Reply{Code: 7})
			cfg := testConfig(t)
			writeServer(t, cfg)

			code, err := NewManager(rec).Do(context.Background(), tt.action, cfg, nil)
			if err != nil {
				t.Fatalf("Do returned error: %v", err)
			}
			if code != 7 {
				t.Fatalf("code = %d, want 7", code)
			}
			cmds := rec.Commands()
			if len(cmds) != 1 || !strings.HasPrefix(cmds[0], tt.first) {
				t.Fatalf("commands = %q, want only %q", cmds, tt.first)
			}
		})
	}
}

func TestInstallStopsAtSecondFailure(t *testing.T) {
	rec := runnertest.New(runnertest.Reply{}, runnertest.Reply{Code: 2})
	code, err := NewManager(rec).Install(context.Background(), testConfig(t), nil)
	if err != nil || code != 2 {
		t.Fatalf("Install = (%d, %v), want (2, nil)", code, err)
	}
	if n := len(rec.Calls); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestExecutionErrorPropagates(t *testing.T) {
	boom := errors.New("exec: \"py\": executable file not found")
	rec := runnertest.New(runnertest.Reply{Code: -1, Err: boom})
	_, err := NewManager(rec).Install(context.Background(), testConfig(t), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(rec.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(rec.Calls))
	}
}

func TestPushMissingBinary(t *testing.T) {
	rec := runnertest.New()
	cfg := testConfig(t)
	var out lines

	code, err := NewManager(rec).Push(context.Background(), cfg, &out)
	if err != nil || code != 1 {
		t.Fatalf("Push = (%d, %v), want (1, nil)", code, err)
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("adb was called: %q", rec.Commands())
	}
	want := "Local frida-server not found: " + cfg.LocalServerPath()
	if len(out) != 1 || out[0] != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestPushSequence(t *testing.T) {
	rec := runnertest.New()
	cfg := testConfig(t)
	writeServer(t, cfg)

	code, err := NewManager(rec).Push(context.Background(), cfg, nil)
	if err != nil || code != 0 {
		t.Fatalf("Push = (%d, %v)", code, err)
	}
	assertCommands(t, rec,
		"adb push "+cfg.LocalServerPath()+" /data/local/tmp/",
		"adb shell chmod 755 /data/local/tmp/fs-bin",
		"adb shell mv /data/local/tmp/fs-bin /data/local/tmp/fs",
	)
}

func TestStartForwardSucceedsFirstTime(t *testing.T) {
	rec := runnertest.New()
	code, err := NewManager(rec).Start(context.Background(), testConfig(t), nil)
	if err != nil || code != 0 {
		t.Fatalf("Start = (%d, %v)", code, err)
	}
	assertCommands(t, rec,
		"adb shell su -c '/data/local/tmp/fs &'",
		"adb forward tcp:1111 tcp:2222",
	)
}

func TestStartRecoversBusyPort(t *testing.T) {
	rec := runnertest.New(
		runnertest.Reply{},        // su
		runnertest.Reply{Code: 1}, // forward
		runnertest.Reply{Output: "tcp 0 0 0.0.0.0:2222 0.0.0.0:* LISTEN 1234/frida-server\n"},
		runnertest.Reply{}, // kill
		runnertest.Reply{}, // retry
	)
	var out lines

	code, err := NewManager(rec).Start(context.Background(), testConfig(t), &out)
	if err != nil || code != 0 {
		t.Fatalf("Start = (%d, %v), want (0, nil)", code, err)
	}
	assertCommands(t, rec,
		"adb shell su -c '/data/local/tmp/fs &'",
		"adb forward tcp:1111 tcp:2222",
		"adb shell netstat -antp | grep 2222",
		"adb shell kill -9 1234",
		"adb forward tcp:1111 tcp:2222",
	)
	if !rec.Captured[2] {
		t.Fatalf("listing was not captured")
	}
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "Port forward failed. Attempting to clear the port...") ||
		!strings.Contains(joined, "Killing process on port 2222: 1234") {
		t.Fatalf("missing recovery messages in %q", joined)
	}
}

func TestStartSkipsKillWithoutParseablePID(t *testing.T) {
	listings := []runnertest.Reply{
		{Output: "tcp 0 0 0.0.0.0:2222 0.0.0.0:* LISTEN\n"},
		{Output: "tcp 0 0 0.0.0.0:2222 0.0.0.0:* LISTEN 1234\n"},
		{Code: 1},
		{Output: ""},
		{Code: 1, Output: "tcp 0 0 0.0.0.0:2222 0.0.0.0:* LISTEN 1234/fs\n"},
	}
	for i, listing := range listings {
		rec := runnertest.New(runnertest.Reply{}, runnertest.Reply{Code: 1}, listing, runnertest.Reply{})
		code, err := NewManager(rec).Start(context.Background(), testConfig(t), nil)
		if err != nil || code != 0 {
			t.Fatalf("case %d: Start = (%d, %v)", i, code, err)
		}
		for _, c := range rec.Commands() {
			if strings.Contains(c, "kill") {
				t.Fatalf("case %d: unexpected kill in %q", i, rec.Commands())
			}
		}
		if n := len(rec.Calls); n != 4 {
			t.Fatalf("case %d: calls = %d, want 4", i, n)
		}
	}
}

func TestStartRetriesOnlyOnce(t *testing.T) {
	rec := runnertest.New(
		runnertest.Reply{},
		runnertest.Reply{Code: 1},
		runnertest.Reply{Output: "tcp 0 0 0.0.0.0:2222 0.0.0.0:* LISTEN 9/fs\n"},
		runnertest.Reply{Code: 1}, // kill failure is ignored
		runnertest.Reply{Code: 5},
		runnertest.Reply{Code: 0},
	)
	code, err := NewManager(rec).Start(context.Background(), testConfig(t), nil)
	if err != nil || code != 5 {
		t.Fatalf("Start = (%d, %v), want (5, nil)", code, err)
	}
	if rec.Remaining() != 1 {
		t.Fatalf("remaining = %d, want 1 unused reply", rec.Remaining())
	}
}

func TestCheckReturnsRawCode(t *testing.T) {
	rec := runnertest.New(runnertest.Reply{Code: 42, Output: "List of devices attached\n"})
	var out lines
	code, err := NewManager(rec).Check(context.Background(), testConfig(t), &out)
	if err != nil || code != 42 {
		t.Fatalf("Check = (%d, %v), want (42, nil)", code, err)
	}
	assertCommands(t, rec, "adb devices")
	if len(out) != 2 || out[0] != "$ adb devices" || out[1] != "List of devices attached" {
		t.Fatalf("output = %q", out)
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(" " + strings.ToUpper(string(a)) + " ")
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = (%q, %v)", a, got, err)
		}
	}
	if _, err := ParseAction("reboot"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

func TestDoUnknownAction(t *testing.T) {
	rec := runnertest.New()
	code, err := NewManager(rec).Do(context.Background(), Action("reboot"), testConfig(t), nil)
	if !errors.Is(err, ErrUnknownAction) || code != 1 {
		t.Fatalf("Do = (%d, %v)", code, err)
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("unexpected calls %q", rec.Commands())
	}
}
