// Package adb builds Android Debug Bridge command lines.
package adb

import (
	"fmt"
	"path"
	"strings"

	"github.com/xlttj/fridamgr/pkg/runner"
)

// StagingDir is where files are pushed before being moved into place.
const StagingDir = "/data/local/tmp/"

// Bridge builds invocations for one adb executable.
type Bridge struct {
	Path string
}

// New returns a Bridge for the adb binary at p ("adb" when empty).
func New(p string) Bridge {
	if p == "" {
		p = "adb"
	}
	return Bridge{Path: p}
}

func (b Bridge) command(args ...string) runner.Invocation {
	return runner.Command(b.Path, args...)
}

// StagedPath is the device path of name inside StagingDir.
func StagedPath(name string) string {
	return path.Join(StagingDir, name)
}

// Push copies a local file into the device staging directory.
func (b Bridge) Push(localFile string) runner.Invocation {
	return b.command("push", localFile, StagingDir)
}

// Shell runs a command line in the device shell.
func (b Bridge) Shell(commandLine string) runner.Invocation {
	return b.command("shell", commandLine)
}

// Chmod marks a staged file executable.
func (b Bridge) Chmod(name string) runner.Invocation {
	return b.Shell("chmod 755 " + StagedPath(name))
}

// Move renames a staged file to its install path.
func (b Bridge) Move(name, devicePath string) runner.Invocation {
	return b.Shell(fmt.Sprintf("mv %s %s", StagedPath(name), devicePath))
}

// StartAsRoot launches devicePath in the background with su.
func (b Bridge) StartAsRoot(devicePath string) runner.Invocation {
	return b.Shell(fmt.Sprintf("su -c '%s &'", devicePath))
}

// Forward maps a host TCP port onto a device TCP port.
func (b Bridge) Forward(hostPort, devicePort string) runner.Invocation {
	return b.command("forward", "tcp:"+hostPort, "tcp:"+devicePort)
}

// ListListeners lists device sockets whose line mentions port.
func (b Bridge) ListListeners(port string) runner.Invocation {
	return b.Shell("netstat -antp | grep " + port)
}

// Kill force-kills a device process.
func (b Bridge) Kill(pid string) runner.Invocation {
	return b.Shell("kill -9 " + pid)
}

// Devices lists attached devices.
func (b Bridge) Devices() runner.Invocation {
	return b.command("devices")
}

// ParseListeningPID extracts the owning process id from a netstat listing such
// as "tcp 0 0 0.0.0.0:27042 0.0.0.0:* LISTEN 1234/frida-server". Only the
// first non-blank line is considered; it needs at least 7 fields and a "/" in
// the 7th, the PID/Program column. Anything else reports no PID.
func ParseListeningPID(listing string) (string, bool) {
	var line string
	for _, l := range strings.Split(listing, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	fields := strings.Fields(line)
	if len(fields) < 7 {
		return "", false
	}
	pid, _, found := strings.Cut(fields[6], "/")
	if !found {
		return "", false
	}
	return pid, true
}
