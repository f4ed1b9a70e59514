package banquet

import (
	"github.com/flanksource/commons/logger"
	"github.com/spf13/pflag"
)

type AllFlags struct {
	logger.Flags
	ConfigFile string
	OutputDir  string
	Template   string
	Store      string
	Browser    bool
	NoRelay    bool
	NoColor    bool
}

var Flags = AllFlags{
	Flags: logger.Flags{
		Level:       "info",
		LogToStderr: true,
	},
}

// BindAllFlags adds the global flags to a pflag set (for Cobra).
func BindAllFlags(flags *pflag.FlagSet) *AllFlags {
	flags.CountVarP(&Flags.Flags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&Flags.Flags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&Flags.Flags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&Flags.Flags.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&Flags.Flags.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")

	flags.StringVarP(&Flags.ConfigFile, "config", "c", "", "Config file (defaults to $"+EnvConfig+")")
	flags.StringVarP(&Flags.OutputDir, "output", "o", "", "Directory generated PDFs are written to")
	flags.StringVar(&Flags.Template, "template", "", "Page background template (png, jpg or svg)")
	flags.StringVar(&Flags.Store, "db", "", "SQLite database path (default ~/.cache/banquet.db)")
	flags.BoolVar(&Flags.Browser, "browser", false, "Fetch images through a headless browser when a direct download fails")
	flags.BoolVar(&Flags.NoRelay, "no-relay", false, "Never fetch images through the relay")
	flags.BoolVar(&Flags.NoColor, "no-color", false, "Disable colored output")
	return &Flags
}

// UseFlags configures logging.
func (a AllFlags) UseFlags() {
	logger.Configure(a.Flags)
}

// Apply overlays flags that were set on the command line onto cfg.
func (a AllFlags) Apply(cfg Config) Config {
	if a.OutputDir != "" {
		cfg.OutputDir = a.OutputDir
	}
	if a.Template != "" {
		cfg.Template = a.Template
	}
	if a.Store != "" {
		cfg.Store = a.Store
	}
	if a.Browser {
		cfg.Images.Browser = true
	}
	if a.NoRelay {
		cfg.Images.NoRelay = true
	}
	return cfg
}

// Load reads the config named by the flags and applies the flag overrides.
func (a AllFlags) Load() (Config, error) {
	cfg, err := LoadConfig(a.ConfigFile)
	if err != nil {
		return cfg, err
	}
	cfg = a.Apply(cfg)
	logger.Debugf("using config:\n%s", cfg)
	return cfg, nil
}
