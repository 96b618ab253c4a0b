package config

import "github.com/cfgen-dev/cfgen/internal/command"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .cfgen.yaml configuration file.
type Config struct {
	Version   int               `yaml:"version" mapstructure:"version"`
	Variables map[string]string `yaml:"variables" mapstructure:"variables"`
	Output    OutputConfig      `yaml:"output" mapstructure:"output"`

	// Commands is the command tree built from the raw commands section.
	// It is populated by the loader through the yaml.Node walker, not by
	// viper, because argument declaration order is significant.
	Commands map[string]command.Command `yaml:"-" mapstructure:"-"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Verbosity level: "quiet", "normal", or "verbose".
	Verbosity string `yaml:"verbosity" mapstructure:"verbosity"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:   CurrentConfigVersion,
		Variables: make(map[string]string),
		Commands:  make(map[string]command.Command),
		Output: OutputConfig{
			Color:     "auto",
			Verbosity: "normal",
		},
	}
}
