// Package exec runs shell invocations for string commands and typed-command
// run templates. It only reports final exit status; process lifecycle
// concerns like signal forwarding stay with the spawned shell.
package exec

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/cfgen-dev/cfgen/internal/errors"
)

// RunShell runs a command through the shell with the given working
// directory and environment merged over the ambient environment, inheriting
// the parent's standard streams. Returns the exit code and any execution
// error; a non-zero exit is (code, nil), not an error.
func RunShell(cmd string, workDir string, env map[string]string) (exitCode int, err error) {
	return RunShellIO(cmd, workDir, env, os.Stdin, os.Stdout, os.Stderr)
}

// RunShellIO is RunShell with explicit standard streams, used by tests and
// by callers that capture output.
func RunShellIO(cmd string, workDir string, env map[string]string, stdin io.Reader, stdout, stderr io.Writer) (exitCode int, err error) {
	// Use shell to interpret the command (handles pipes, redirects, etc.)
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	command := exec.Command(shell, "-c", cmd)

	if workDir != "" {
		command.Dir = workDir
	}

	command.Env = mergeEnv(os.Environ(), env)
	command.Stdin = stdin
	command.Stdout = stdout
	command.Stderr = stderr

	runErr := command.Run()
	if runErr != nil {
		// Exit error means the command ran but returned non-zero.
		if exitErr, isExit := runErr.(*exec.ExitError); isExit {
			return exitErr.ExitCode(), nil
		}
		// Actual execution failure
		return -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run the command",
			"Make sure the shell exists and the working directory is accessible.")
	}

	return 0, nil
}

// mergeEnv layers the snapshot entries over the ambient environment, with
// deterministic ordering for the overrides.
func mergeEnv(ambient []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return ambient
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]string, 0, len(ambient)+len(overrides))
	merged = append(merged, ambient...)
	for _, k := range keys {
		merged = append(merged, fmt.Sprintf("%s=%s", k, overrides[k]))
	}
	return merged
}
