package config

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cfgen-dev/cfgen/internal/command"
	"github.com/cfgen-dev/cfgen/internal/errors"
	"github.com/cfgen-dev/cfgen/internal/exec"
	"github.com/cfgen-dev/cfgen/internal/schema"
	"github.com/cfgen-dev/cfgen/internal/util"
)

// BuildCommands turns the raw commands section of a config file into the
// command tree. It works on yaml.Node rather than a decoded map because the
// declaration order of a typed command's arguments determines positional
// order, and only the Node API preserves YAML mapping order.
//
// Three declaration shapes are recognized per entry:
//
//	name: "shell text"                 string command
//	name: {commands: {...}, help: h}   group command (recursive)
//	name: {run: t, options: {...}, args: {...}, help: h}
//	                                   typed command when options or args
//	                                   are declared, string command otherwise
func BuildCommands(node *yaml.Node, vars map[string]string) (map[string]command.Command, error) {
	if node == nil {
		return map[string]command.Command{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfig,
			"The 'commands' section must be a mapping of name to command",
			"Declare commands like:  commands:\n    build: \"make build\"")
	}

	tree := make(map[string]command.Command, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if name == "" {
			return nil, errors.New(errors.ErrConfig,
				"A command has an empty name",
				"Every entry under 'commands' needs a non-empty name.")
		}
		if _, dup := tree[name]; dup {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command '%s' is declared twice", name),
				"Command names must be unique within a group.")
		}

		cmd, err := buildCommand(name, node.Content[i+1], vars)
		if err != nil {
			return nil, err
		}
		tree[name] = cmd
	}
	return tree, nil
}

// buildCommand builds a single command from its YAML value node.
func buildCommand(name string, node *yaml.Node, vars map[string]string) (command.Command, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return command.NewString(Expand(node.Value, vars, nil), ""), nil
	case yaml.MappingNode:
		return buildMappingCommand(name, node, vars)
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Command '%s' has an unsupported declaration", name),
			"Use a shell string, or a mapping with run/options/args or nested commands.")
	}
}

func buildMappingCommand(name string, node *yaml.Node, vars map[string]string) (command.Command, error) {
	var help, run string
	var optionsNode, argsNode, commandsNode *yaml.Node

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "help":
			help = val.Value
		case "run":
			run = val.Value
		case "options":
			optionsNode = val
		case "args":
			argsNode = val
		case "commands":
			commandsNode = val
		default:
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command '%s' has an unknown key '%s'", name, key),
				"Valid keys are help, run, options, args, and commands.")
		}
	}

	if commandsNode != nil {
		if run != "" || optionsNode != nil || argsNode != nil {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command '%s' mixes a group with run/options/args", name),
				"A group only carries 'help' and nested 'commands'.")
		}
		children, err := BuildCommands(commandsNode, vars)
		if err != nil {
			return nil, err
		}
		return command.NewGroup(help, children), nil
	}

	if run == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Command '%s' declares neither 'run' nor 'commands'", name),
			"Give it a shell command with 'run', or nest subcommands under 'commands'.")
	}

	if optionsNode == nil && argsNode == nil {
		return command.NewString(Expand(run, vars, nil), help), nil
	}

	options, err := buildOptionSchemas(name, optionsNode)
	if err != nil {
		return nil, err
	}
	args, err := buildArgSchemas(name, argsNode)
	if err != nil {
		return nil, err
	}

	return command.NewTyped(help, options, args, runTemplateHandler(run, vars)), nil
}

// buildOptionSchemas compiles the options mapping. Each value is either a
// bare CUE expression or a {type, help} mapping.
func buildOptionSchemas(cmdName string, node *yaml.Node) (map[string]schema.Schema, error) {
	options := map[string]schema.Schema{}
	if node == nil {
		return options, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Command '%s' has a malformed 'options' section", cmdName),
			"Declare options as a mapping of name to type expression.")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		optName := node.Content[i].Value
		if _, dup := options[optName]; dup {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Command '%s' declares option '%s' twice", cmdName, optName),
				"Option names must be unique.")
		}
		sch, err := buildFieldSchema(cmdName, optName, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		options[optName] = sch
	}
	return options, nil
}

// buildArgSchemas compiles the args mapping, preserving declaration order.
func buildArgSchemas(cmdName string, node *yaml.Node) ([]command.NamedSchema, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Command '%s' has a malformed 'args' section", cmdName),
			"Declare args as a mapping of name to type expression, in positional order.")
	}

	args := make([]command.NamedSchema, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		argName := node.Content[i].Value
		for _, existing := range args {
			if existing.Name == argName {
				return nil, errors.New(errors.ErrConfig,
					fmt.Sprintf("Command '%s' declares argument '%s' twice", cmdName, argName),
					"Argument names must be unique.")
			}
		}
		sch, err := buildFieldSchema(cmdName, argName, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		args = append(args, command.NamedSchema{Name: argName, Schema: sch})
	}
	return args, nil
}

// buildFieldSchema compiles one option/argument declaration into a Schema.
func buildFieldSchema(cmdName, fieldName string, node *yaml.Node) (schema.Schema, error) {
	var expr, help string

	switch node.Kind {
	case yaml.ScalarNode:
		expr = node.Value
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			switch node.Content[i].Value {
			case "type":
				expr = node.Content[i+1].Value
			case "help":
				help = node.Content[i+1].Value
			}
		}
	}

	if expr == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Command '%s' field '%s' has no type expression", cmdName, fieldName),
			"Give it a type like string, bool, [...string], or \"a\" | \"b\".")
	}

	sch, err := schema.CompileWithDescription(expr, help)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Command '%s' field '%s' has an invalid type", cmdName, fieldName),
			"Check the CUE expression for this field.")
	}
	return sch, nil
}

// placeholderPattern matches {{name}} references in a run template.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_-]*)\s*\}\}`)

// runTemplateHandler wraps a run template into a typed-command handler: it
// substitutes validated option and argument values into {{name}}
// placeholders (shell-quoted) and dispatches the result as a shell
// invocation. A non-zero exit propagates as an ExitError so the dispatcher
// reports the real code.
func runTemplateHandler(run string, vars map[string]string) command.Handler {
	return func(opts map[string]any, args map[string]any, ctx *command.Context) error {
		text, err := RenderRunTemplate(run, opts, args)
		if err != nil {
			return err
		}
		text = Expand(text, vars, ctx.Env)

		code, err := exec.RunShell(text, ctx.WorkDir, ctx.Env)
		if err != nil {
			return err
		}
		if code != 0 {
			return errors.NewExitError(code, fmt.Sprintf("command exited with code %d", code))
		}
		return nil
	}
}

// RenderRunTemplate substitutes {{name}} placeholders with shell-quoted
// values, looking up arguments first, then options. Unknown placeholders
// are an error naming the placeholder.
func RenderRunTemplate(run string, opts map[string]any, args map[string]any) (string, error) {
	var missing []string

	rendered := placeholderPattern.ReplaceAllStringFunc(run, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, found := args[name]; found {
			return quoteValue(v)
		}
		if v, found := opts[name]; found {
			return quoteValue(v)
		}
		missing = append(missing, name)
		return match
	})

	if len(missing) > 0 {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Run template references undeclared fields: %s", util.JoinOrNone(missing)),
			"Every {{name}} must match a declared option or argument.")
	}
	return rendered, nil
}

// quoteValue renders a validated value for safe shell interpolation.
func quoteValue(v any) string {
	switch val := v.(type) {
	case string:
		return util.ShellQuote(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []any:
		quoted := make([]string, len(val))
		for i, item := range val {
			quoted[i] = quoteValue(item)
		}
		return strings.Join(quoted, " ")
	case nil:
		return "''"
	default:
		return util.ShellQuote(fmt.Sprintf("%v", val))
	}
}
