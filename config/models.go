package config

import "time"

// FormConfig describes one form: where its payload goes and how it is presented.
type FormConfig struct {
	Name        string `mapstructure:"name"`
	Title       string `mapstructure:"title"`
	Label       string `mapstructure:"label"`
	Endpoint    string `mapstructure:"endpoint"`
	Default     string `mapstructure:"default"`
	MaxInFlight int    `mapstructure:"max_in_flight"`
}

// Config holds the application configuration.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Color   string        `mapstructure:"color"`
	Timeout time.Duration `mapstructure:"timeout"`
	Forms   []FormConfig  `mapstructure:"forms"`
}

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
