package command

import (
	"io"
	"os"
	"strings"
)

// Context is the read-only execution context shared by every command in one
// top-level invocation. It is built once by the entry point and passed by
// reference through recursive dispatch without mutation; no component reads
// ambient process state directly.
type Context struct {
	// WorkDir is the working directory commands run in.
	WorkDir string

	// Env is the environment snapshot taken at startup, merged over the
	// ambient environment when spawning shell commands.
	Env map[string]string

	// Verbose mirrors the global --verbose flag.
	Verbose bool

	// Config is the fully-resolved configuration the command tree came
	// from, opaque to this package.
	Config any

	// Out receives informational output such as group listings.
	Out io.Writer
}

// NewContext assembles an execution context. A nil env snapshot and nil out
// writer default to an empty environment and os.Stdout.
func NewContext(workDir string, env map[string]string, verbose bool, config any) *Context {
	if env == nil {
		env = map[string]string{}
	}
	return &Context{
		WorkDir: workDir,
		Env:     env,
		Verbose: verbose,
		Config:  config,
		Out:     os.Stdout,
	}
}

// EnvSnapshot captures the given environ list ("KEY=VALUE" pairs) as a map.
// The entry point calls this once with os.Environ() so everything below it
// receives the environment by injection.
func EnvSnapshot(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
