package cmd

import (
	"flag"
	"fmt"

	"github.com/xlttj/fridamgr/pkg/config"
)

// configField binds one Config field to a command line flag.
type configField struct {
	flag  string
	usage string
	field func(*config.Config) *string
}

var configFields = []configField{
	{"frida-version", "frida version to install", func(c *config.Config) *string { return &c.FridaVersion }},
	{"tools-version", "frida-tools version to install", func(c *config.Config) *string { return &c.ToolsVersion }},
	{"server-name", "frida-server file name", func(c *config.Config) *string { return &c.ServerName }},
	{"device-path", "frida-server install path on the device", func(c *config.Config) *string { return &c.DevicePath }},
	{"device-port", "port frida-server listens on, on the device", func(c *config.Config) *string { return &c.DevicePort }},
	{"host-port", "host port forwarded to the device port", func(c *config.Config) *string { return &c.HostPort }},
	{"adb", "adb executable", func(c *config.Config) *string { return &c.AdbPath }},
	{"local-dir", "local directory containing frida-server", func(c *config.Config) *string { return &c.LocalDir }},
	{"python", "python runtime used for pip", func(c *config.Config) *string { return &c.Python }},
}

// configFlags holds the flags every action-running subcommand accepts.
type configFlags struct {
	fs         *flag.FlagSet
	configPath string
	profile    string
}

func bindConfigFlags(fs *flag.FlagSet) *configFlags {
	cf := &configFlags{fs: fs}
	fs.StringVar(&cf.configPath, "config", "", "YAML config file (defaults to ~/.fridamgr/config.yaml when present)")
	fs.StringVar(&cf.profile, "profile", "", "saved profile to load")

	defaults := config.Default()
	for _, f := range configFields {
		fs.String(f.flag, *f.field(&defaults), f.usage)
	}
	return cf
}

// resolve builds the effective Config: defaults, then the YAML file, then the
// profile, then flags given explicitly on the command line.
func (cf *configFlags) resolve(openStore func() (config.StoreInterface, error)) (config.Config, error) {
	cfg, err := config.Load(cf.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if cf.profile != "" {
		if openStore == nil {
			return config.Config{}, fmt.Errorf("profiles are not available")
		}
		store, err := openStore()
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to open profile store: %w", err)
		}
		defer store.Close()
		p, err := store.GetProfile(cf.profile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = p.Config
	}

	byName := make(map[string]configField, len(configFields))
	for _, f := range configFields {
		byName[f.flag] = f
	}
	cf.fs.Visit(func(fl *flag.Flag) {
		if f, ok := byName[fl.Name]; ok {
			*f.field(&cfg) = fl.Value.String()
		}
	})
	return cfg.Normalize(), nil
}
