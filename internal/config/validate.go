package config

import (
	"fmt"
	"strings"

	"github.com/cfgen-dev/cfgen/internal/errors"
)

// ReservedCommandNames are built-in command names that config-declared
// commands cannot shadow.
var ReservedCommandNames = map[string]bool{
	"help":       true,
	"version":    true,
	"completion": true,
}

// Validate checks the loaded config for errors and returns structured
// error messages. Shape constraints on individual typed commands (like the
// trailing-array-argument rule) are checked later at synthesis time.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config hasn't been loaded yet",
			"This is unexpected - load a config before validating it.")
	}

	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but cfgen only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Update cfgen to a release that understands this config version.")
	}

	for name := range cfg.Commands {
		if ReservedCommandNames[name] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Can't use '%s' as a command name - that's a built-in command", name),
				fmt.Sprintf("Pick a different name, like 'my-%s'.", name))
		}
		if err := validateCommandName(name); err != nil {
			return err
		}
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'output' section in your .cfgen.yaml.")
	}

	return nil
}

// validateCommandName rejects names that would break CLI parsing.
func validateCommandName(name string) error {
	if strings.ContainsAny(name, " \t") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Command name '%s' contains whitespace", name),
			"Use a single word, like 'deploy' or 'db-migrate'.")
	}
	if strings.HasPrefix(name, "-") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Command name '%s' starts with a dash", name),
			"Names starting with '-' would parse as flags.")
	}
	return nil
}

// validateOutput checks the output section values.
func validateOutput(out OutputConfig) error {
	switch out.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid output.color '%s' (use auto, always, or never)", out.Color)
	}

	switch out.Verbosity {
	case "", "quiet", "normal", "verbose":
	default:
		return fmt.Errorf("invalid output.verbosity '%s' (use quiet, normal, or verbose)", out.Verbosity)
	}

	return nil
}
