// Package output declares the seam between the command subsystem and the
// output-format generation layer. Generators turn resolved variables into
// rendered file content (env, json, yaml, toml, templates); their
// implementations live outside this core.
package output

// Generator renders resolved variables into one output format.
type Generator interface {
	// Format names the output format, e.g. "env" or "json".
	Format() string

	// Generate renders the resolved variables into file content.
	Generate(vars map[string]string) ([]byte, error)
}
