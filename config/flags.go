package config

import "github.com/spf13/pflag"

// CliConfig holds the global command line arguments.
type CliConfig struct {
	ConfigFile string
	Debug      bool
	Color      bool
	NoColor    bool
}

// RegisterFlags binds the global arguments to fs.
func (c *CliConfig) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "Path to the config file")
	fs.BoolVarP(&c.Debug, "debug", "d", false, "Enable debug mode")
	fs.BoolVar(&c.Color, "color", false, "Force colored output")
	fs.BoolVar(&c.NoColor, "no-color", false, "Disable colored output")
}

// ColorMode resolves the color flags against the configured mode.
func (c *CliConfig) ColorMode(configured string) string {
	switch {
	case c.Color:
		return ColorAlways
	case c.NoColor:
		return ColorNever
	case configured == "":
		return ColorAuto
	default:
		return configured
	}
}
