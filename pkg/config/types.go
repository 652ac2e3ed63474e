package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Default values for every Config field.
const (
	DefaultFridaVersion = "16.5.7"
	DefaultToolsVersion = "12.3.0"
	DefaultDevicePort   = "27042"
	DefaultHostPort     = "27042"
	DefaultDevicePath   = "/data/local/tmp/fs"
	DefaultServerName   = "frida-server-16.5.7-android-arm64"
	DefaultAdbPath      = "adb"
)

// Config is the set of user-tunable parameters for one action run. It is
// consumed by value and never mutated by the actions.
type Config struct {
	FridaVersion string `yaml:"frida_version"`
	ToolsVersion string `yaml:"tools_version"`
	DevicePort   string `yaml:"device_port"` // port frida-server listens on, on the device
	HostPort     string `yaml:"host_port"`   // port forwarded on the host
	DevicePath   string `yaml:"device_path"` // install location of frida-server on the device
	ServerName   string `yaml:"server_name"` // frida-server filename, locally and in the staging dir
	AdbPath      string `yaml:"adb_path"`
	LocalDir     string `yaml:"local_dir"` // directory holding ServerName on the host
	Python       string `yaml:"python"`    // runtime invoked as "<python> -m pip"
}

// Default returns a Config populated with the built-in defaults. LocalDir is
// the current working directory.
func Default() Config {
	return Config{
		FridaVersion: DefaultFridaVersion,
		ToolsVersion: DefaultToolsVersion,
		DevicePort:   DefaultDevicePort,
		HostPort:     DefaultHostPort,
		DevicePath:   DefaultDevicePath,
		ServerName:   DefaultServerName,
		AdbPath:      DefaultAdbPath,
		LocalDir:     workingDir(),
		Python:       DefaultPython(),
	}
}

// DefaultPython returns the host runtime used for pip invocations.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Normalize trims every field and falls back to defaults for the fields that
// cannot meaningfully be empty.
func (c Config) Normalize() Config {
	c.FridaVersion = strings.TrimSpace(c.FridaVersion)
	c.ToolsVersion = strings.TrimSpace(c.ToolsVersion)
	c.DevicePort = strings.TrimSpace(c.DevicePort)
	c.HostPort = strings.TrimSpace(c.HostPort)
	c.DevicePath = strings.TrimSpace(c.DevicePath)
	c.ServerName = strings.TrimSpace(c.ServerName)
	c.AdbPath = strings.TrimSpace(c.AdbPath)
	c.LocalDir = strings.TrimSpace(c.LocalDir)
	c.Python = strings.TrimSpace(c.Python)
	if c.AdbPath == "" {
		c.AdbPath = DefaultAdbPath
	}
	if c.LocalDir == "" {
		c.LocalDir = workingDir()
	}
	if c.Python == "" {
		c.Python = DefaultPython()
	}
	return c
}

// LocalServerPath is where the frida-server binary is expected on the host.
func (c Config) LocalServerPath() string {
	return filepath.Join(c.LocalDir, c.ServerName)
}

// Profile is a named Config snapshot persisted in the store.
type Profile struct {
	Name      string
	Config    Config
	UpdatedAt time.Time
}

// RunRecord is the history entry of one executed action.
type RunRecord struct {
	ID         string
	Action     string
	Profile    string // empty when the run did not come from a saved profile
	ExitCode   int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
