// Package pip builds "python -m pip" command lines.
package pip

import "github.com/xlttj/fridamgr/pkg/runner"

// Installer targets the pip of one Python runtime.
type Installer struct {
	Python string
}

func (i Installer) command(args ...string) runner.Invocation {
	return runner.Command(i.Python, append([]string{"-m", "pip"}, args...)...)
}

// Install installs name, pinned to version unless version is empty.
func (i Installer) Install(name, version string) runner.Invocation {
	if version != "" {
		name += "==" + version
	}
	return i.command("install", name)
}

// Uninstall removes name without prompting.
func (i Installer) Uninstall(name string) runner.Invocation {
	return i.command("uninstall", "-y", name)
}
