package command

import (
	"fmt"
	"os"
	"sort"

	cfgenerrors "github.com/cfgen-dev/cfgen/internal/errors"
	"github.com/cfgen-dev/cfgen/internal/exec"
	"github.com/cfgen-dev/cfgen/internal/logger"
	"github.com/cfgen-dev/cfgen/internal/ui"
)

var log = logger.NewEnvLogger("[dispatch]")

// Execute runs one command against the shared context and raw invocation,
// producing exactly one Result. Every failure is terminal for the
// invocation and reported once; nothing panics past this boundary and
// nothing is retried. Safe to call repeatedly, including from a synthesized
// CLI action callback.
func Execute(cmd Command, ctx *Context, inv *Invocation) Result {
	if inv == nil {
		inv = &Invocation{}
	}

	switch c := cmd.(type) {
	case *StringCommand:
		return executeString(c, ctx)
	case *FuncCommand:
		return executeFunc(c, ctx)
	case *TypedCommand:
		return executeTyped(c, ctx, inv)
	case *GroupCommand:
		return executeGroup(c, ctx, inv)
	default:
		// Unreachable for commands built through this package; kept so a
		// foreign Command implementation fails cleanly instead of panicking.
		return fail(fmt.Sprintf("unknown command variant %T", cmd))
	}
}

// executeString spawns the command text as a shell invocation with the
// context's working directory and environment merged over the ambient
// environment. A non-zero exit is a failure result carrying that code.
func executeString(c *StringCommand, ctx *Context) Result {
	log.Debug("shell: %s", c.Run)

	exitCode, err := exec.RunShell(c.Run, ctx.WorkDir, ctx.Env)
	if err != nil {
		return fail(err.Error())
	}
	if exitCode != 0 {
		return failCode(fmt.Sprintf("command exited with code %d", exitCode), exitCode)
	}
	return ok()
}

func executeFunc(c *FuncCommand, ctx *Context) Result {
	if c.Fn == nil {
		return fail("function command has no callback")
	}
	if err := safeCall(func() error { return c.Fn(ctx) }); err != nil {
		return resultFromError(err)
	}
	return ok()
}

func executeTyped(c *TypedCommand, ctx *Context, inv *Invocation) Result {
	opts, args, err := Decode(inv, c)
	if err != nil {
		return fail(err.Error())
	}

	if c.Handler == nil {
		return fail("typed command has no handler")
	}
	if err := safeCall(func() error { return c.Handler(opts, args, ctx) }); err != nil {
		return resultFromError(err)
	}
	return ok()
}

// executeGroup pops the next positional token as the subcommand name and
// recurses. Invoking a group with no token left lists its children and
// succeeds; naming an unknown child fails.
func executeGroup(c *GroupCommand, ctx *Context, inv *Invocation) Result {
	if len(inv.Args) == 0 {
		out := ctx.Out
		if out == nil {
			out = os.Stdout
		}

		names := make([]string, 0, len(c.Children))
		for name := range c.Children {
			names = append(names, name)
		}
		sort.Strings(names)

		entries := make([]ui.ListEntry, len(names))
		for i, name := range names {
			entries[i] = ui.ListEntry{Name: name, Help: c.Children[name].HelpText()}
		}
		fmt.Fprint(out, ui.RenderListing("Available subcommands:", entries))
		return ok()
	}

	name := inv.Args[0]
	child, found := c.Children[name]
	if !found {
		return fail(fmt.Sprintf("Subcommand %q not found", name))
	}

	// The child receives exactly the tokens following its own name.
	return Execute(child, ctx, &Invocation{Options: inv.Options, Args: inv.Args[1:]})
}

// safeCall invokes a user-supplied callback, converting a panic into an
// error so it becomes a failure result rather than tearing down the process.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// resultFromError converts a handler error into a failure result,
// preserving an explicit exit code when the error carries one.
func resultFromError(err error) Result {
	code := cfgenerrors.ExitCode(err)
	return failCode(err.Error(), code)
}
