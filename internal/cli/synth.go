package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cfgen-dev/cfgen/internal/command"
	"github.com/cfgen-dev/cfgen/internal/errors"
	"github.com/cfgen-dev/cfgen/internal/logger"
	"github.com/cfgen-dev/cfgen/internal/schema"
)

var synthLog = logger.NewEnvLogger("[synth]")

// BuildCommandSurface registers one cobra subtree per declared command.
// It runs once, before CLI input parsing, and only mutates the cobra
// registration tree; all parsing happens later inside cobra.
//
// Configuration errors (an array argument that isn't last, a name declared
// as both option and argument) abort synthesis and name the offending
// command.
func BuildCommandSurface(root *cobra.Command, tree map[string]command.Command, ctx *command.Context) error {
	for _, name := range sortedNames(tree) {
		cc, err := synthesize(name, tree[name], ctx)
		if err != nil {
			return err
		}
		root.AddCommand(cc)
	}
	return nil
}

func synthesize(name string, cmd command.Command, ctx *command.Context) (*cobra.Command, error) {
	synthLog.Debug("synthesizing %s (%T)", name, cmd)

	switch c := cmd.(type) {
	case *command.StringCommand:
		return synthesizeUntyped(name, cmd, c.Help, ctx), nil
	case *command.FuncCommand:
		return synthesizeUntyped(name, cmd, c.Help, ctx), nil
	case *command.TypedCommand:
		return synthesizeTyped(name, c, ctx)
	case *command.GroupCommand:
		return synthesizeGroup(name, c, ctx)
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Command '%s' has an unknown variant %T", name, cmd),
			"This is unexpected - commands must come from the command package builders.")
	}
}

// synthesizeUntyped covers string and function commands: no declared
// surface, so unknown flags and extra positionals pass through verbatim.
func synthesizeUntyped(name string, cmd command.Command, help string, ctx *command.Context) *cobra.Command {
	return &cobra.Command{
		Use:                name,
		Short:              help,
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cc *cobra.Command, args []string) error {
			return resultErr(command.Execute(cmd, ctx, &command.Invocation{Args: args}))
		},
	}
}

// synthesizeTyped declares one flag per option and positional syntax per
// argument. Boolean options become value-less flags; array options become
// single-value flags accepting comma-separated text; everything else is a
// single-value flag. Optionality shows as [name] vs <name> placeholders.
func synthesizeTyped(name string, c *command.TypedCommand, ctx *command.Context) (*cobra.Command, error) {
	if err := validateTypedShape(name, c); err != nil {
		return nil, err
	}

	use, maxArgs, variadic := argUsage(name, c.Args)

	cc := &cobra.Command{
		Use:   use,
		Short: c.Help,
	}
	if variadic {
		cc.Args = cobra.ArbitraryArgs
	} else {
		cc.Args = cobra.MaximumNArgs(maxArgs)
	}

	for _, optName := range sortedOptionNames(c.Options) {
		desc := schema.Analyze(c.Options[optName])
		if desc.Base == schema.KindBool {
			cc.Flags().Bool(optName, false, boolUsage(optName, desc))
		} else {
			cc.Flags().String(optName, "", flagUsage(optName, desc))
		}
	}

	cc.RunE = func(cc *cobra.Command, args []string) error {
		inv := &command.Invocation{
			Options: collectSetOptions(cc.Flags(), c.Options),
			Args:    args,
		}
		return resultErr(command.Execute(c, ctx, inv))
	}

	return cc, nil
}

// synthesizeGroup recursively registers one subtree per child. The group's
// own action dispatches through Execute, which lists children when no
// subcommand token remains and rejects unknown names.
func synthesizeGroup(name string, c *command.GroupCommand, ctx *command.Context) (*cobra.Command, error) {
	cc := &cobra.Command{
		Use:   name,
		Short: c.Help,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			return resultErr(command.Execute(c, ctx, &command.Invocation{Args: args}))
		},
	}

	for _, childName := range sortedNames(c.Children) {
		child, err := synthesize(childName, c.Children[childName], ctx)
		if err != nil {
			return nil, err
		}
		cc.AddCommand(child)
	}

	return cc, nil
}

// validateTypedShape enforces the constraints a typed command must satisfy
// before it can be registered: option and argument names must not collide,
// and only the last argument may be array-kind.
func validateTypedShape(name string, c *command.TypedCommand) error {
	for i, ns := range c.Args {
		if _, clash := c.Options[ns.Name]; clash {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Command '%s' declares '%s' as both an option and an argument", name, ns.Name),
				"Rename one of them - names must be unique across options and arguments.")
		}

		desc := schema.Analyze(ns.Schema)
		if desc.Base == schema.KindArray && i != len(c.Args)-1 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Command '%s': array argument '%s' must be the last argument", name, ns.Name),
				"Only a trailing positional can consume a variable number of tokens.")
		}
	}
	return nil
}

// argUsage builds the Use line from the argument descriptors, reporting the
// declared argument count and whether the last one is variadic.
func argUsage(name string, args []command.NamedSchema) (use string, maxArgs int, variadic bool) {
	parts := []string{name}
	for i, ns := range args {
		desc := schema.Analyze(ns.Schema)
		placeholder := ns.Name
		if desc.Base == schema.KindArray && i == len(args)-1 {
			placeholder += "..."
			variadic = true
		}
		if desc.Optional {
			placeholder = "[" + placeholder + "]"
		} else {
			placeholder = "<" + placeholder + ">"
		}
		parts = append(parts, placeholder)
	}
	return strings.Join(parts, " "), len(args), variadic
}

// flagUsage renders the help text for a value flag, with the bracket/angle
// optionality convention on the value placeholder.
func flagUsage(name string, desc schema.TypeDescriptor) string {
	placeholder := fmt.Sprintf("<%s>", name)
	if desc.Optional {
		placeholder = fmt.Sprintf("[%s]", name)
	}

	text := desc.Description
	if text == "" {
		text = fmt.Sprintf("%s option", name)
	}
	if desc.Base == schema.KindArray {
		text += " (comma-separated)"
	}

	// Back quotes make pflag show the placeholder as the value name.
	return fmt.Sprintf("`%s` %s", placeholder, text)
}

func boolUsage(name string, desc schema.TypeDescriptor) string {
	if desc.Description != "" {
		return desc.Description
	}
	return fmt.Sprintf("%s flag", name)
}

// collectSetOptions gathers only the flags the user explicitly set, bool
// flags as bool and everything else as the raw string, so the decoder can
// tell "absent" from "zero value".
func collectSetOptions(flags *pflag.FlagSet, declared map[string]schema.Schema) map[string]any {
	opts := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		if _, isDeclared := declared[f.Name]; !isDeclared {
			return
		}
		if f.Value.Type() == "bool" {
			b, err := flags.GetBool(f.Name)
			if err == nil {
				opts[f.Name] = b
			}
			return
		}
		s, err := flags.GetString(f.Name)
		if err == nil {
			opts[f.Name] = s
		}
	})
	return opts
}

// resultErr converts a dispatch Result into the error the entry point
// translates to process exit status.
func resultErr(res command.Result) error {
	if res.Success {
		return nil
	}
	return errors.NewExitError(res.ExitCode, res.Error)
}

func sortedNames(m map[string]command.Command) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedOptionNames(m map[string]schema.Schema) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
